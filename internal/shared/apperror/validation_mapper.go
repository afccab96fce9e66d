package apperror

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// effective_from -> Effective From
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return cases.Title(language.English).String(s)
}

// MapValidationError turns the first binding failure into an AppError.
// Field names are json tag names because Init registers the tag func.
func MapValidationError(err error) *AppError {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		e := errs[0]
		field := formatFieldName(e.Field())

		switch e.Tag() {
		case "required":
			return RequiredField(field)
		default:
			return InvalidField(field).WithDetails(map[string]any{
				"field": e.Field(),
				"rule":  e.Tag(),
				"param": e.Param(),
			})
		}
	}

	return ErrInvalidInput.WithDetails(err.Error())
}

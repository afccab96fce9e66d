package registrationerrors

import (
	"net/http"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/apperror"
)

var (
	ErrInvalidDays = apperror.New(
		"INVALID_DAYS",
		"days must be a non-empty set of distinct weekdays",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		"INVALID_DATE_RANGE",
		"effective_to must not be before effective_from",
		http.StatusBadRequest,
	)
	ErrRegistrationConflict = apperror.New(
		"REGISTRATION_CONFLICT",
		"Registration overlaps an existing active registration",
		http.StatusConflict,
	)
	ErrNotFullTimeEmployee = apperror.New(
		"NOT_FULL_TIME_EMPLOYEE",
		"Only full-time or fixed part-time employees can hold recurring registrations",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeType = apperror.New(
		"INVALID_EMPLOYEE_TYPE",
		"Employee has an unknown employment type",
		http.StatusBadRequest,
	)
	ErrRegistrationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Registration not found",
		http.StatusNotFound,
	)
	ErrRegistrationForbidden = apperror.New(
		apperror.CodeForbidden,
		"You can only view your own registrations",
		http.StatusForbidden,
	)
)

package registration

import (
	"errors"

	registrationerrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/registration/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return registrationerrors.ErrRegistrationNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505" && pgErr.ConstraintName == "registration_days_pkey":
			return registrationerrors.ErrInvalidDays
		case pgErr.Code == "23514" && pgErr.ConstraintName == "chk_registration_range":
			return registrationerrors.ErrInvalidDateRange
		}
	}

	return err
}

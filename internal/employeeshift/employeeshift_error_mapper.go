package employeeshift

import (
	"errors"

	employeeshifterrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/employeeshift/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// MapRepositoryError is shared with overtime approval, which inserts dated shifts.
func MapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeshifterrors.ErrEmployeeShiftNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_employee_shift_scheduled" {
		return employeeshifterrors.ErrAlreadyScheduled
	}

	return err
}

package overtime

import (
	"errors"

	overtimeerrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/overtime/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return overtimeerrors.ErrOvertimeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505" && pgErr.ConstraintName == "uq_overtime_active":
			return overtimeerrors.ErrDuplicateOvertimeRequest
		case pgErr.Code == "22P02":
			return overtimeerrors.ErrOvertimeNotFound
		}
	}

	return err
}

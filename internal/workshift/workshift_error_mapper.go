package workshift

import (
	"errors"

	workshifterrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/workshift/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return workshifterrors.ErrWorkShiftNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "work_shifts_pkey" {
		return workshifterrors.ErrIDGenerationConflict
	}

	return err
}

package timeoff

import (
	"errors"

	timeofferrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/timeoff/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return timeofferrors.ErrTimeOffNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23514" && pgErr.ConstraintName == "chk_leave_balance_consistent":
			return timeofferrors.ErrInvalidBalance
		case pgErr.Code == "23514" && pgErr.ConstraintName == "chk_leave_balance_remaining":
			return timeofferrors.ErrInsufficientLeaveBalance
		case pgErr.Code == "22003": // numeric_value_out_of_range on total_days
			return timeofferrors.ErrDateRangeTooLong
		case pgErr.Code == "22P02":
			return timeofferrors.ErrTimeOffNotFound
		}
	}

	return err
}

package timeoff

import (
	"errors"
	"testing"

	timeofferrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/timeoff/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapRepositoryError(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil stays nil", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, timeofferrors.ErrTimeOffNotFound},
		{"remaining below zero", &pgconn.PgError{Code: "23514", ConstraintName: "chk_leave_balance_remaining"}, timeofferrors.ErrInsufficientLeaveBalance},
		{"total days out of range", &pgconn.PgError{Code: "22003"}, timeofferrors.ErrDateRangeTooLong},
		{"malformed uuid", &pgconn.PgError{Code: "22P02"}, timeofferrors.ErrTimeOffNotFound},
		{"unknown error passes through", plain, plain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapRepositoryError(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

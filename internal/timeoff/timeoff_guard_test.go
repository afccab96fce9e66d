package timeoff_test

import (
	"testing"
	"time"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/timeoff"
	timeofferrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/timeoff/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func request(start, end, slot string, status timeoff.Status) timeoff.TimeOffRequest {
	r := timeoff.TimeOffRequest{
		ID:        uuid.New(),
		StartDate: day(start),
		EndDate:   day(end),
		Status:    status,
	}
	if slot != "" {
		r.WorkShiftID = &slot
	}
	return r
}

func TestConflicts(t *testing.T) {
	halfA := request("2025-03-10", "2025-03-10", "SLOT_A", timeoff.StatusPending)
	fullWeek := request("2025-03-10", "2025-03-14", "", timeoff.StatusApproved)

	tests := []struct {
		name     string
		existing []timeoff.TimeOffRequest
		span     timeoff.Span
		want     int
	}{
		{
			name:     "full day over existing half day conflicts",
			existing: []timeoff.TimeOffRequest{halfA},
			span:     timeoff.Span{Start: day("2025-03-10"), End: day("2025-03-10")},
			want:     1,
		},
		{
			name:     "half day on a different slot does not conflict",
			existing: []timeoff.TimeOffRequest{halfA},
			span:     timeoff.Span{Start: day("2025-03-10"), End: day("2025-03-10"), SlotID: "SLOT_B"},
			want:     0,
		},
		{
			name:     "half day on the same slot and date conflicts",
			existing: []timeoff.TimeOffRequest{halfA},
			span:     timeoff.Span{Start: day("2025-03-10"), End: day("2025-03-10"), SlotID: "SLOT_A"},
			want:     1,
		},
		{
			name:     "half day inside an existing full-day range conflicts",
			existing: []timeoff.TimeOffRequest{fullWeek},
			span:     timeoff.Span{Start: day("2025-03-12"), End: day("2025-03-12"), SlotID: "SLOT_B"},
			want:     1,
		},
		{
			name:     "adjacent ranges do not conflict",
			existing: []timeoff.TimeOffRequest{fullWeek},
			span:     timeoff.Span{Start: day("2025-03-15"), End: day("2025-03-16")},
			want:     0,
		},
		{
			name: "terminal requests are ignored",
			existing: []timeoff.TimeOffRequest{
				request("2025-03-10", "2025-03-10", "", timeoff.StatusRejected),
				request("2025-03-10", "2025-03-10", "", timeoff.StatusCancelled),
			},
			span: timeoff.Span{Start: day("2025-03-10"), End: day("2025-03-10")},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, timeoff.Conflicts(tt.existing, tt.span), tt.want)
		})
	}
}

func TestStatus_CanTransition(t *testing.T) {
	assert.True(t, timeoff.StatusPending.CanTransition(timeoff.StatusApproved))
	assert.True(t, timeoff.StatusPending.CanTransition(timeoff.StatusRejected))
	assert.True(t, timeoff.StatusPending.CanTransition(timeoff.StatusCancelled))
	assert.False(t, timeoff.StatusPending.CanTransition(timeoff.StatusPending))
	assert.False(t, timeoff.StatusApproved.CanTransition(timeoff.StatusCancelled))
	assert.False(t, timeoff.StatusRejected.CanTransition(timeoff.StatusApproved))
	assert.False(t, timeoff.StatusCancelled.CanTransition(timeoff.StatusPending))
}

func TestTotalDays(t *testing.T) {
	assert.Equal(t, "0.5", timeoff.TotalDays(timeoff.Span{SlotID: "SLOT_A"}, 1).String())
	assert.Equal(t, "3", timeoff.TotalDays(timeoff.Span{}, 3).String())
}

func balance(total, used, remaining string) timeoff.LeaveBalance {
	return timeoff.LeaveBalance{
		TotalAllowed: decimal.RequireFromString(total),
		Used:         decimal.RequireFromString(used),
		Remaining:    decimal.RequireFromString(remaining),
	}
}

func TestConsume(t *testing.T) {
	t.Run("deducts half a day", func(t *testing.T) {
		next, err := timeoff.Consume(balance("12", "2", "10"), decimal.RequireFromString("0.5"))

		require.NoError(t, err)
		assert.Equal(t, "2.5", next.Used.String())
		assert.Equal(t, "9.5", next.Remaining.String())
	})

	t.Run("uses the whole remainder", func(t *testing.T) {
		next, err := timeoff.Consume(balance("12", "10", "2"), decimal.NewFromInt(2))

		require.NoError(t, err)
		assert.True(t, next.Remaining.IsZero())
	})

	t.Run("insufficient", func(t *testing.T) {
		_, err := timeoff.Consume(balance("12", "11", "1"), decimal.NewFromInt(2))

		assert.ErrorIs(t, err, timeofferrors.ErrInsufficientLeaveBalance)
	})

	t.Run("stored balance already inconsistent", func(t *testing.T) {
		_, err := timeoff.Consume(balance("12", "3", "10"), decimal.NewFromInt(1))

		assert.ErrorIs(t, err, timeofferrors.ErrInvalidBalance)
	})
}

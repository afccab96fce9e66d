package timeoff

import (
	"time"

	timeofferrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/timeoff/errors"

	"github.com/shopspring/decimal"
)

var halfDay = decimal.NewFromFloat(0.5)

// Span is the date range and optional slot of a time-off request.
// An empty SlotID is a full-day request.
type Span struct {
	Start  time.Time
	End    time.Time
	SlotID string
}

func (s Span) overlaps(r TimeOffRequest) bool {
	return !dateOnly(r.EndDate).Before(dateOnly(s.Start)) && !dateOnly(r.StartDate).After(dateOnly(s.End))
}

// Conflicts returns the non-terminal requests that collide with span.
//
// A full-day span collides with any overlapping request. A half-day span
// collides with an overlapping full-day request, or with a half-day request
// for the same slot on the same dates.
func Conflicts(existing []TimeOffRequest, span Span) []TimeOffRequest {
	var out []TimeOffRequest
	for _, r := range existing {
		if r.Status != StatusPending && r.Status != StatusApproved {
			continue
		}
		if !span.overlaps(r) {
			continue
		}
		if span.SlotID == "" || !r.HalfDay() {
			out = append(out, r)
			continue
		}
		if r.slot() == span.SlotID &&
			dateOnly(r.StartDate).Equal(dateOnly(span.Start)) &&
			dateOnly(r.EndDate).Equal(dateOnly(span.End)) {
			out = append(out, r)
		}
	}
	return out
}

// TotalDays is 0.5 for a half day, otherwise the number of scheduled days.
func TotalDays(span Span, scheduled int) decimal.Decimal {
	if span.SlotID != "" {
		return halfDay
	}
	return decimal.NewFromInt(int64(scheduled))
}

// Consume deducts days from b, enforcing used + remaining == total_allowed
// before and after and a non-negative remainder.
func Consume(b LeaveBalance, days decimal.Decimal) (LeaveBalance, error) {
	if !b.Consistent() {
		return b, timeofferrors.ErrInvalidBalance.WithDetails(balanceDetails(b, days))
	}
	next := b
	next.Remaining = b.Remaining.Sub(days)
	next.Used = b.Used.Add(days)
	if next.Remaining.IsNegative() {
		return b, timeofferrors.ErrInsufficientLeaveBalance.WithDetails(balanceDetails(b, days))
	}
	if !next.Consistent() {
		return b, timeofferrors.ErrInvalidBalance.WithDetails(balanceDetails(b, days))
	}
	return next, nil
}

func balanceDetails(b LeaveBalance, days decimal.Decimal) map[string]any {
	return map[string]any{
		"total_allowed": b.TotalAllowed.String(),
		"used":          b.Used.String(),
		"remaining":     b.Remaining.String(),
		"requested":     days.String(),
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

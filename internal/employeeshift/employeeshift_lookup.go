package employeeshift

import (
	"context"
	"database/sql"
	"time"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/registration"
)

// Lookup answers whether an employee works on given dates, combining dated
// shifts with the weekdays of active recurring registrations.
//
//go:generate mockgen -source=employeeshift_lookup.go -destination=mock/employeeshift_lookup_mock.go -package=mock
type Lookup interface {
	WithTx(tx *sql.Tx) Lookup
	// HasShiftOn reports a scheduled shift on date. An empty slotID matches any slot.
	HasShiftOn(ctx context.Context, employeeID string, date time.Time, slotID string) (bool, error)
	// ScheduledDays returns the dates in [from, to] that have a scheduled shift, ascending.
	ScheduledDays(ctx context.Context, employeeID string, from, to time.Time, slotID string) ([]time.Time, error)
}

type lookup struct {
	shifts        Repository
	registrations registration.Repository
}

func NewLookup(shifts Repository, registrations registration.Repository) Lookup {
	return &lookup{shifts: shifts, registrations: registrations}
}

func (l *lookup) WithTx(tx *sql.Tx) Lookup {
	return &lookup{
		shifts:        l.shifts.WithTx(tx),
		registrations: l.registrations.WithTx(tx),
	}
}

func (l *lookup) HasShiftOn(ctx context.Context, employeeID string, date time.Time, slotID string) (bool, error) {
	days, err := l.ScheduledDays(ctx, employeeID, date, date, slotID)
	if err != nil {
		return false, err
	}
	return len(days) > 0, nil
}

func (l *lookup) ScheduledDays(ctx context.Context, employeeID string, from, to time.Time, slotID string) ([]time.Time, error) {
	from, to = dateOnly(from), dateOnly(to)
	if to.Before(from) {
		return nil, nil
	}

	dated, err := l.shifts.FindScheduled(ctx, employeeID, from, to, slotID)
	if err != nil {
		return nil, err
	}
	regs, err := l.registrations.FindActiveByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return scheduledDates(dated, regs, from, to, slotID), nil
}

func scheduledDates(dated []EmployeeShift, regs []registration.Registration, from, to time.Time, slotID string) []time.Time {
	onDate := make(map[time.Time]struct{}, len(dated))
	for _, es := range dated {
		if es.Status != StatusScheduled {
			continue
		}
		if slotID != "" && es.WorkShiftID != slotID {
			continue
		}
		onDate[dateOnly(es.WorkDate)] = struct{}{}
	}

	var out []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if _, ok := onDate[d]; ok {
			out = append(out, d)
			continue
		}
		for _, r := range regs {
			if r.Covers(d, slotID) {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

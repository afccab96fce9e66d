package registration

import (
	"time"

	"github.com/google/uuid"
)

// Proposal is a registration about to be written. ExcludeRegistrationID
// skips the row being updated.
type Proposal struct {
	EmployeeID            uuid.UUID
	SlotID                string
	Days                  []Weekday
	EffectiveFrom         time.Time
	EffectiveTo           *time.Time
	ExcludeRegistrationID string
}

// Conflict names an existing registration the proposal collides with.
type Conflict struct {
	RegistrationID string
	SlotID         string
	Days           []Weekday
	EffectiveFrom  time.Time
	EffectiveTo    *time.Time
}

// FindConflicts returns every other active registration of the proposal's
// employee that shares at least one weekday and whose effective range
// overlaps the proposal's, bounds inclusive and a nil end unbounded.
// The slot is not part of the test: an employee holds one recurring shift
// per weekday.
func FindConflicts(existing []Registration, p Proposal) []Conflict {
	var conflicts []Conflict
	for _, r := range existing {
		if r.Lifecycle() != LifecycleActive {
			continue
		}
		if r.EmployeeID != p.EmployeeID {
			continue
		}
		if p.ExcludeRegistrationID != "" && r.ID == p.ExcludeRegistrationID {
			continue
		}
		if !rangesOverlap(r.EffectiveFrom, r.EffectiveTo, p.EffectiveFrom, p.EffectiveTo) {
			continue
		}
		shared := intersectDays(r.Weekdays(), p.Days)
		if len(shared) == 0 {
			continue
		}
		conflicts = append(conflicts, Conflict{
			RegistrationID: r.ID,
			SlotID:         r.WorkShiftID,
			Days:           shared,
			EffectiveFrom:  r.EffectiveFrom,
			EffectiveTo:    r.EffectiveTo,
		})
	}
	return conflicts
}

func HasConflict(existing []Registration, p Proposal) bool {
	return len(FindConflicts(existing, p)) > 0
}

func rangesOverlap(aFrom time.Time, aTo *time.Time, bFrom time.Time, bTo *time.Time) bool {
	if bTo != nil && dateOnly(aFrom).After(dateOnly(*bTo)) {
		return false
	}
	if aTo != nil && dateOnly(*aTo).Before(dateOnly(bFrom)) {
		return false
	}
	return true
}

func intersectDays(a, b []Weekday) []Weekday {
	set := make(map[Weekday]struct{}, len(b))
	for _, d := range b {
		set[d] = struct{}{}
	}
	var out []Weekday
	for _, d := range a {
		if _, ok := set[d]; ok {
			out = append(out, d)
		}
	}
	return sortWeekdays(out)
}

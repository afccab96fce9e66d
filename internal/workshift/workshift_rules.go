package workshift

import (
	"fmt"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/config"
	workshifterrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/workshift/errors"
)

// Rules are the clinic's shift constraints. Validate is pure and deterministic.
type Rules struct {
	ClinicOpen       TimeOfDay
	ClinicClose      TimeOfDay
	NightShiftStart  TimeOfDay
	BreakStart       TimeOfDay
	BreakEnd         TimeOfDay
	MinDurationHours float64
	MaxDurationHours float64
}

func DefaultRules() Rules {
	return Rules{
		ClinicOpen:       NewTimeOfDay(8, 0),
		ClinicClose:      NewTimeOfDay(21, 0),
		NightShiftStart:  NewTimeOfDay(18, 0),
		BreakStart:       NewTimeOfDay(12, 0),
		BreakEnd:         NewTimeOfDay(13, 0),
		MinDurationHours: 3,
		MaxDurationHours: 8,
	}
}

func RulesFromConfig(cfg config.ScheduleConfig) (Rules, error) {
	var (
		r   Rules
		err error
	)
	pairs := []struct {
		dst *TimeOfDay
		src string
	}{
		{&r.ClinicOpen, cfg.ClinicOpen},
		{&r.ClinicClose, cfg.ClinicClose},
		{&r.NightShiftStart, cfg.NightShiftStart},
		{&r.BreakStart, cfg.BreakStart},
		{&r.BreakEnd, cfg.BreakEnd},
	}
	for _, p := range pairs {
		if *p.dst, err = ParseTimeOfDay(p.src); err != nil {
			return Rules{}, fmt.Errorf("schedule rules: %q: %w", p.src, err)
		}
	}
	r.MinDurationHours = cfg.MinDurationHours
	r.MaxDurationHours = cfg.MaxDurationHours
	return r, nil
}

// DurationHours is end-start minus the part of the lunch break it covers.
func (r Rules) DurationHours(start, end TimeOfDay) float64 {
	minutes := int(end - start)
	if minutes <= 0 {
		return 0
	}

	overlap := int(min(end, r.BreakEnd) - max(start, r.BreakStart))
	overlap = max(overlap, 0)
	overlap = min(overlap, int(r.BreakEnd-r.BreakStart))

	return float64(minutes-overlap) / 60
}

// Validate applies the rules in a fixed order; the first failure wins.
func (r Rules) Validate(start, end TimeOfDay, category Category) error {
	window := map[string]any{
		"start_time": start.String(),
		"end_time":   end.String(),
	}

	if end <= start {
		return workshifterrors.ErrInvalidTimeRange.WithDetails(window)
	}

	duration := r.DurationHours(start, end)
	if duration < r.MinDurationHours || duration > r.MaxDurationHours {
		return workshifterrors.ErrInvalidDuration.WithMessage(
			fmt.Sprintf("shift must last between %.1f and %.1f working hours, got %.2f",
				r.MinDurationHours, r.MaxDurationHours, duration),
			map[string]any{
				"start_time":     start.String(),
				"end_time":       end.String(),
				"duration_hours": duration,
				"min_hours":      r.MinDurationHours,
				"max_hours":      r.MaxDurationHours,
			},
		)
	}

	if start < r.ClinicOpen || end > r.ClinicClose {
		return workshifterrors.ErrInvalidWorkingHours.WithMessage(
			fmt.Sprintf("shift must be within clinic hours %s-%s", r.ClinicOpen, r.ClinicClose),
			map[string]any{
				"start_time":   start.String(),
				"end_time":     end.String(),
				"clinic_open":  r.ClinicOpen.String(),
				"clinic_close": r.ClinicClose.String(),
			},
		)
	}

	night := start >= r.NightShiftStart
	switch {
	case category == CategoryNight && !night:
		return workshifterrors.ErrInvalidCategory.WithMessage(
			fmt.Sprintf("NIGHT shifts must start at or after %s", r.NightShiftStart),
			map[string]any{"category": category, "start_time": start.String()},
		)
	case category == CategoryNormal && night:
		return workshifterrors.ErrInvalidCategory.WithMessage(
			fmt.Sprintf("NORMAL shifts must start before %s", r.NightShiftStart),
			map[string]any{"category": category, "start_time": start.String()},
		)
	case !category.Valid():
		return workshifterrors.ErrInvalidCategory.WithMessage(
			"category must be NORMAL or NIGHT",
			map[string]any{"category": category},
		)
	}

	return nil
}

package registration

import (
	"sort"
	"strings"
	"time"

	registrationerrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/registration/errors"

	"github.com/google/uuid"
)

type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

var weekOrder = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayAliases = map[string]Weekday{
	"MON": Monday, "TUE": Tuesday, "WED": Wednesday, "THU": Thursday,
	"FRI": Friday, "SAT": Saturday, "SUN": Sunday,
}

// ParseWeekday accepts full English names or three-letter abbreviations in any case.
func ParseWeekday(s string) (Weekday, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if d, ok := weekdayAliases[v]; ok {
		return d, nil
	}
	for _, d := range weekOrder {
		if string(d) == v {
			return d, nil
		}
	}
	return "", registrationerrors.ErrInvalidDays.WithMessage(
		"unknown weekday "+s,
		map[string]any{"day": s},
	)
}

func WeekdayOf(t time.Time) Weekday {
	// time.Weekday starts at Sunday.
	return weekOrder[(int(t.Weekday())+6)%7]
}

func (d Weekday) index() int {
	for i, w := range weekOrder {
		if w == d {
			return i
		}
	}
	return len(weekOrder)
}

type Lifecycle string

const (
	LifecycleActive   Lifecycle = "ACTIVE"
	LifecycleInactive Lifecycle = "INACTIVE"
)

type Registration struct {
	ID            string            `gorm:"type:varchar(20);primaryKey"`
	EmployeeID    uuid.UUID         `gorm:"type:uuid;not null"`
	WorkShiftID   string            `gorm:"type:varchar(50);not null"`
	EffectiveFrom time.Time         `gorm:"type:date;not null"`
	EffectiveTo   *time.Time        `gorm:"type:date"`
	IsActive      bool              `gorm:"not null"`
	Days          []RegistrationDay `gorm:"foreignKey:RegistrationID;references:ID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Registration) TableName() string {
	return "employee_shift_registrations"
}

func (r Registration) Lifecycle() Lifecycle {
	if r.IsActive {
		return LifecycleActive
	}
	return LifecycleInactive
}

func (r Registration) Weekdays() []Weekday {
	days := make([]Weekday, len(r.Days))
	for i, d := range r.Days {
		days[i] = d.DayOfWeek
	}
	return sortWeekdays(days)
}

// Covers reports whether an active registration schedules the employee on
// date. An empty slotID matches any slot.
func (r Registration) Covers(date time.Time, slotID string) bool {
	if r.Lifecycle() != LifecycleActive {
		return false
	}
	if slotID != "" && r.WorkShiftID != slotID {
		return false
	}
	d := dateOnly(date)
	if d.Before(dateOnly(r.EffectiveFrom)) {
		return false
	}
	if r.EffectiveTo != nil && d.After(dateOnly(*r.EffectiveTo)) {
		return false
	}
	wd := WeekdayOf(d)
	for _, day := range r.Days {
		if day.DayOfWeek == wd {
			return true
		}
	}
	return false
}

type RegistrationDay struct {
	RegistrationID string  `gorm:"type:varchar(20);primaryKey"`
	DayOfWeek      Weekday `gorm:"type:varchar(10);primaryKey"`
}

func (RegistrationDay) TableName() string {
	return "registration_days"
}

func sortWeekdays(days []Weekday) []Weekday {
	out := append([]Weekday(nil), days...)
	sort.Slice(out, func(i, j int) bool { return out[i].index() < out[j].index() })
	return out
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

package employee

import (
	"time"

	"github.com/google/uuid"
)

type EmploymentType string

const (
	EmploymentFullTime      EmploymentType = "FULL_TIME"
	EmploymentPartTimeFixed EmploymentType = "PART_TIME_FIXED"
	EmploymentPartTimeFlex  EmploymentType = "PART_TIME_FLEX"
)

func (t EmploymentType) Valid() bool {
	switch t {
	case EmploymentFullTime, EmploymentPartTimeFixed, EmploymentPartTimeFlex:
		return true
	}
	return false
}

// UsesRecurringRegistration reports whether the employee is scheduled through
// weekly registrations rather than ad-hoc daily assignment.
func (t EmploymentType) UsesRecurringRegistration() bool {
	return t == EmploymentFullTime || t == EmploymentPartTimeFixed
}

type Employee struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	EmployeeNumber string         `gorm:"type:varchar(20);not null"`
	FullName       string         `gorm:"type:varchar(150);not null"`
	Email          string         `gorm:"type:varchar(150);not null"`
	Phone          string         `gorm:"type:varchar(30)"`
	EmploymentType EmploymentType `gorm:"type:varchar(20);not null"`
	IsActive       bool           `gorm:"not null"`
	HireDate       time.Time      `gorm:"type:date"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Employee) TableName() string {
	return "employees"
}

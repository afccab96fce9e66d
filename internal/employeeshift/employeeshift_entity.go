package employeeshift

import (
	"time"

	"github.com/google/uuid"
)

type Source string

const (
	SourceDailyAssignment Source = "DAILY_ASSIGNMENT"
	SourceOvertime        Source = "OVERTIME"
)

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusCancelled Status = "CANCELLED"
)

// EmployeeShift is one shift on one calendar date.
type EmployeeShift struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID  `gorm:"type:uuid;not null"`
	WorkDate    time.Time  `gorm:"type:date;not null"`
	WorkShiftID string     `gorm:"type:varchar(50);not null"`
	Source      Source     `gorm:"type:varchar(20);not null"`
	Status      Status     `gorm:"type:varchar(20);not null"`
	Notes       *string    `gorm:"type:text"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (EmployeeShift) TableName() string {
	return "employee_shifts"
}

package timeoff

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeAnnual Type = "ANNUAL"
	TypeSick   Type = "SICK"
	TypeUnpaid Type = "UNPAID"
)

// TracksBalance reports whether approving this type consumes leave balance.
func (t Type) TracksBalance() bool {
	return t == TypeAnnual
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// Terminal statuses accept no further transitions.
func (s Status) Terminal() bool {
	return s != StatusPending
}

// CanTransition only allows moves out of PENDING.
func (s Status) CanTransition(to Status) bool {
	if s.Terminal() {
		return false
	}
	switch to {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}

var nonTerminalStatuses = []string{string(StatusPending), string(StatusApproved)}

type TimeOffRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null"`
	TimeOffType Type      `gorm:"type:varchar(20);not null"`
	StartDate   time.Time `gorm:"type:date;not null"`
	EndDate     time.Time `gorm:"type:date;not null"`
	// WorkShiftID set means a half-day request for that slot.
	WorkShiftID *string         `gorm:"type:varchar(50)"`
	TotalDays   decimal.Decimal `gorm:"type:numeric(5,1);not null"`
	Reason      string          `gorm:"type:text"`
	Status      Status          `gorm:"type:varchar(20);not null;default:'PENDING'"`

	RequestedBy        uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy         *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt         *time.Time
	RejectionReason    *string `gorm:"type:text"`
	CancellationReason *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TimeOffRequest) TableName() string {
	return "time_off_requests"
}

func (r TimeOffRequest) HalfDay() bool {
	return r.WorkShiftID != nil && *r.WorkShiftID != ""
}

func (r TimeOffRequest) slot() string {
	if r.WorkShiftID == nil {
		return ""
	}
	return *r.WorkShiftID
}

type LeaveBalance struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID   uuid.UUID       `gorm:"type:uuid;not null"`
	TimeOffType  Type            `gorm:"type:varchar(20);not null"`
	Year         int             `gorm:"not null"`
	TotalAllowed decimal.Decimal `gorm:"type:numeric(5,1);not null"`
	Used         decimal.Decimal `gorm:"type:numeric(5,1);not null"`
	Remaining    decimal.Decimal `gorm:"type:numeric(5,1);not null"`
	UpdatedAt    time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

func (b LeaveBalance) Consistent() bool {
	return b.Used.Add(b.Remaining).Equal(b.TotalAllowed)
}

package overtime

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) CanTransition(to Status) bool {
	return s == StatusPending && (to == StatusApproved || to == StatusRejected || to == StatusCancelled)
}

var openStatuses = []string{string(StatusPending), string(StatusApproved)}

type OvertimeRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null"`
	WorkDate    time.Time `gorm:"type:date;not null"`
	WorkShiftID string    `gorm:"type:varchar(50);not null"`
	Reason      string    `gorm:"type:text"`
	Status      Status    `gorm:"type:varchar(20);not null;default:'PENDING'"`

	RequestedBy        uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy         *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt         *time.Time
	RejectionReason    *string `gorm:"type:text"`
	CancellationReason *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (OvertimeRequest) TableName() string {
	return "overtime_requests"
}

package events

import "time"

const ScheduleNotificationsTopic = "clinic.schedule.notifications.v1"

const (
	RegistrationCreated = "registration.created"
	TimeOffRequested    = "time_off.requested"
	OvertimeRequested   = "overtime.requested"
)

// ScheduleEvent is the payload published for every schedule notification.
// Dates are YYYY-MM-DD.
type ScheduleEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	AggregateType string    `json:"aggregate_type"`
	AggregateID   string    `json:"aggregate_id"`
	EmployeeID    string    `json:"employee_id"`
	WorkShiftID   string    `json:"work_shift_id,omitempty"`
	StartDate     string    `json:"start_date,omitempty"`
	EndDate       string    `json:"end_date,omitempty"`
	Summary       string    `json:"summary,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

package timeoff

type CreateTimeOffRequest struct {
	// EmployeeID defaults to the caller.
	EmployeeID  string `json:"employee_id" binding:"omitempty,uuid"`
	TimeOffType string `json:"time_off_type" binding:"required,oneof=ANNUAL SICK UNPAID"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	SlotID      string `json:"slot_id" binding:"omitempty,max=50"`
	Reason      string `json:"reason" binding:"omitempty,max=1000"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required,max=1000"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=1000"`
}

type TimeOffResponse struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employee_id"`
	TimeOffType        string  `json:"time_off_type"`
	StartDate          string  `json:"start_date"`
	EndDate            string  `json:"end_date"`
	SlotID             *string `json:"slot_id"`
	TotalDays          string  `json:"total_days"`
	Reason             string  `json:"reason,omitempty"`
	Status             string  `json:"status"`
	RequestedBy        string  `json:"requested_by"`
	ApprovedBy         *string `json:"approved_by,omitempty"`
	ApprovedAt         *string `json:"approved_at,omitempty"`
	RejectionReason    *string `json:"rejection_reason,omitempty"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
}

type LeaveBalanceResponse struct {
	EmployeeID   string `json:"employee_id"`
	TimeOffType  string `json:"time_off_type"`
	Year         int    `json:"year"`
	TotalAllowed string `json:"total_allowed"`
	Used         string `json:"used"`
	Remaining    string `json:"remaining"`
}

package overtime

type CreateOvertimeRequest struct {
	EmployeeID string `json:"employee_id" binding:"omitempty,uuid"`
	WorkDate   string `json:"work_date" binding:"required"`
	SlotID     string `json:"slot_id" binding:"required,max=50"`
	Reason     string `json:"reason" binding:"omitempty,max=1000"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required,max=1000"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=1000"`
}

type OvertimeResponse struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employee_id"`
	WorkDate           string  `json:"work_date"`
	SlotID             string  `json:"slot_id"`
	Reason             string  `json:"reason,omitempty"`
	Status             string  `json:"status"`
	RequestedBy        string  `json:"requested_by"`
	ApprovedBy         *string `json:"approved_by,omitempty"`
	ApprovedAt         *string `json:"approved_at,omitempty"`
	RejectionReason    *string `json:"rejection_reason,omitempty"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
}

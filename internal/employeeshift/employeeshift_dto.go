package employeeshift

type AssignShiftRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	WorkDate   string `json:"work_date" binding:"required"`
	SlotID     string `json:"slot_id" binding:"required"`
	Notes      string `json:"notes" binding:"omitempty,max=500"`
}

type ListFilter struct {
	From string `form:"from"`
	To   string `form:"to"`
}

type EmployeeShiftResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	WorkDate   string `json:"work_date"`
	SlotID     string `json:"slot_id"`
	Source     string `json:"source"`
	Status     string `json:"status"`
	Notes      string `json:"notes,omitempty"`
}

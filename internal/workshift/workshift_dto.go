package workshift

import "github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/optional"

type CreateWorkShiftRequest struct {
	ShiftName string `json:"shift_name" binding:"required,max=100"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Category  string `json:"category" binding:"required,oneof=NORMAL NIGHT"`
}

// UpdateWorkShiftRequest is a partial update; absent fields keep stored values.
type UpdateWorkShiftRequest struct {
	ShiftName optional.Field[string] `json:"shift_name"`
	StartTime optional.Field[string] `json:"start_time"`
	EndTime   optional.Field[string] `json:"end_time"`
	Category  optional.Field[string] `json:"category"`
}

type ListFilter struct {
	Active *bool
}

type WorkShiftResponse struct {
	ID            string  `json:"id"`
	ShiftName     string  `json:"shift_name"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	Category      string  `json:"category"`
	IsActive      bool    `json:"is_active"`
	DurationHours float64 `json:"duration_hours"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

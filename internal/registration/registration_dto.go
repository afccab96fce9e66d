package registration

import "github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/optional"

type CreateRegistrationRequest struct {
	EmployeeID    string   `json:"employee_id" binding:"required,uuid"`
	SlotID        string   `json:"slot_id" binding:"required"`
	EffectiveFrom string   `json:"effective_from" binding:"required"`
	EffectiveTo   *string  `json:"effective_to"`
	Days          []string `json:"days"`
}

// UpdateRegistrationRequest is a PATCH body. effective_to: null clears the end date.
type UpdateRegistrationRequest struct {
	SlotID        optional.Field[string]   `json:"slot_id"`
	EffectiveFrom optional.Field[string]   `json:"effective_from"`
	EffectiveTo   optional.Field[string]   `json:"effective_to"`
	Days          optional.Field[[]string] `json:"days"`
}

type RegistrationResponse struct {
	RegistrationID string   `json:"registration_id"`
	EmployeeID     string   `json:"employee_id"`
	SlotID         string   `json:"slot_id"`
	EffectiveFrom  string   `json:"effective_from"`
	EffectiveTo    *string  `json:"effective_to"`
	IsActive       bool     `json:"is_active"`
	DaysOfWeek     []string `json:"days_of_week"`
}

package employee

type CreateEmployeeRequest struct {
	FullName       string `json:"full_name" binding:"required,max=150"`
	Email          string `json:"email" binding:"required,email"`
	EmployeeNumber string `json:"employee_number" binding:"omitempty,max=20"`
	Phone          string `json:"phone" binding:"omitempty,max=30"`
	EmploymentType string `json:"employment_type" binding:"required,oneof=FULL_TIME PART_TIME_FIXED PART_TIME_FLEX"`
	HireDate       string `json:"hire_date" binding:"required"`
}

type UpdateEmployeeRequest struct {
	FullName       string `json:"full_name" binding:"required,max=150"`
	Email          string `json:"email" binding:"required,email"`
	EmployeeNumber string `json:"employee_number" binding:"required,max=20"`
	Phone          string `json:"phone" binding:"omitempty,max=30"`
	EmploymentType string `json:"employment_type" binding:"required,oneof=FULL_TIME PART_TIME_FIXED PART_TIME_FLEX"`
	HireDate       string `json:"hire_date" binding:"required"`
}

type EmployeeResponse struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	EmploymentType string `json:"employment_type"`
	IsActive       bool   `json:"is_active"`
	HireDate       string `json:"hire_date"`
}

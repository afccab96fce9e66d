package employeeshifterrors

import (
	"net/http"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/apperror"
)

var (
	ErrNotPartTimeEmployee = apperror.New(
		"NOT_PART_TIME_EMPLOYEE",
		"Only flexible part-time employees can be assigned ad-hoc shifts",
		http.StatusBadRequest,
	)
	ErrAlreadyScheduled = apperror.New(
		"ALREADY_SCHEDULED",
		"Employee is already scheduled for this shift on this date",
		http.StatusConflict,
	)
	ErrPastDate = apperror.New(
		"PAST_DATE",
		"work_date must not be in the past",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		"INVALID_DATE_RANGE",
		"to must not be before from and the range must not exceed 366 days",
		http.StatusBadRequest,
	)
	ErrEmployeeShiftNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee shift not found",
		http.StatusNotFound,
	)
	ErrEmployeeShiftForbidden = apperror.New(
		apperror.CodeForbidden,
		"You can only view your own shifts",
		http.StatusForbidden,
	)
)

package timeofferrors

import (
	"net/http"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/apperror"
)

var (
	ErrInvalidDateRange = apperror.New(
		"INVALID_DATE_RANGE",
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrHalfDayRange = apperror.New(
		"INVALID_DATE_RANGE",
		"half-day time off must start and end on the same date",
		http.StatusBadRequest,
	)
	ErrDateRangeTooLong = apperror.New(
		"INVALID_DATE_RANGE",
		"time off range exceeds the allowed number of days",
		http.StatusBadRequest,
	)
	ErrShiftNotFoundForLeave = apperror.New(
		"SHIFT_NOT_FOUND_FOR_LEAVE",
		"Employee has no scheduled shift on the requested date",
		http.StatusBadRequest,
	)
	ErrConflictingRequest = apperror.New(
		"CONFLICTING_REQUEST",
		"A pending or approved time-off request already covers this period",
		http.StatusConflict,
	)
	ErrTimeOffNotFound = apperror.New(
		apperror.CodeNotFound,
		"time-off request not found",
		http.StatusNotFound,
	)
	ErrTimeOffForbidden = apperror.New(
		apperror.CodeForbidden,
		"You can only access your own time-off requests",
		http.StatusForbidden,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid time-off status transition",
		http.StatusBadRequest,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection_reason is required",
		http.StatusBadRequest,
	)
	ErrInsufficientLeaveBalance = apperror.New(
		"INSUFFICIENT_LEAVE_BALANCE",
		"Remaining leave balance is not enough for this request",
		http.StatusConflict,
	)
	ErrInvalidBalance = apperror.New(
		"INVALID_BALANCE",
		"Leave balance is inconsistent: used + remaining must equal total_allowed",
		http.StatusConflict,
	)
	ErrLeaveBalanceNotFound = apperror.New(
		"LEAVE_BALANCE_NOT_FOUND",
		"No leave balance exists for this employee, type and year",
		http.StatusNotFound,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"year must be a four digit number",
		http.StatusBadRequest,
	)
)

package overtimeerrors

import (
	"net/http"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/apperror"
)

var (
	ErrDuplicateOvertimeRequest = apperror.New(
		"DUPLICATE_OVERTIME_REQUEST",
		"A pending or approved overtime request already exists for this shift and date",
		http.StatusConflict,
	)
	ErrPastDate = apperror.New(
		"PAST_DATE",
		"work_date must not be in the past",
		http.StatusBadRequest,
	)
	ErrOvertimeNotFound = apperror.New(
		apperror.CodeNotFound,
		"overtime request not found",
		http.StatusNotFound,
	)
	ErrOvertimeForbidden = apperror.New(
		apperror.CodeForbidden,
		"You can only access your own overtime requests",
		http.StatusForbidden,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid overtime status transition",
		http.StatusBadRequest,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection_reason is required",
		http.StatusBadRequest,
	)
)

package rbacerrors

import (
	"net/http"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/apperror"
)

var (
	ErrRoleNotFound = apperror.New(
		apperror.CodeNotFound,
		"Role not found",
		http.StatusNotFound,
	)
	ErrPolicyUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"Authorization policy could not be loaded",
		http.StatusServiceUnavailable,
	)
)

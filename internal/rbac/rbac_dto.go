package rbac

import "github.com/DenTeeth/PDCMS-BE-sub005/internal/domain"

type (
	EnforceRequest     = domain.EnforceRequest
	EnforceResponse    = domain.EnforceResponse
	RoleResponse       = domain.RoleResponse
	PermissionResponse = domain.PermissionResponse
	AssignRoleRequest  = domain.AssignRoleRequest
)

package middleware

import (
	"net/http"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/domain"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type ContextKey string

const (
	ContextEmployeeID ContextKey = "employee_id"
)

// Capability keys set by RBACResolve.
const (
	CapReadAll   = "has_read_all"
	CapManageAll = "has_manage_all"
)

// Anything with an Enforce(domain.EnforceRequest) method satisfies it.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

// RBACAuthorize lets the request through when any of the actions is granted.
func RBACAuthorize(service RBACService, resource string, actions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		employeeID := c.GetString(string(ContextEmployeeID))
		if employeeID == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
			c.Abort()
			return
		}

		for _, action := range actions {
			allowed, err := service.Enforce(domain.EnforceRequest{
				EmployeeID: employeeID,
				Resource:   resource,
				Action:     action,
			})
			if err != nil {
				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
				c.Abort()
				return
			}
			if allowed {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "FORBIDDEN",
			"You do not have permission to access this resource",
			gin.H{"resource": resource, "actions": actions},
		)
		c.Abort()
	}
}

// RBACResolve records whether the caller holds resource:action under key
// and never aborts. Handlers use it to scope reads and act-on-behalf writes.
func RBACResolve(service RBACService, resource, action, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := service.Enforce(domain.EnforceRequest{
			EmployeeID: c.GetString(string(ContextEmployeeID)),
			Resource:   resource,
			Action:     action,
		})
		c.Set(key, err == nil && allowed)
		c.Next()
	}
}

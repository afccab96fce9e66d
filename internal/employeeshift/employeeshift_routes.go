package employeeshift

import (
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/middleware"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	auth gin.HandlerFunc,
	logger *zap.Logger,
) {
	shifts := r.Group("/employee-shifts")
	shifts.Use(auth)
	shifts.Use(middleware.ContextLogger(logger))
	{
		shifts.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "employee_shift", "manage"),
			handler.Assign,
		)

		shifts.DELETE("/:id",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RBACAuthorize(rbacService, "employee_shift", "manage"),
			handler.Cancel,
		)
	}

	byEmployee := r.Group("/employees/:id/shifts")
	byEmployee.Use(auth)
	byEmployee.Use(middleware.ContextLogger(logger))
	byEmployee.GET("",
		middleware.RateLimitByUser(5, 20),
		middleware.RBACAuthorize(rbacService, "employee_shift", "read_all", "read_own"),
		middleware.RBACResolve(rbacService, "employee_shift", "read_all", middleware.CapReadAll),
		handler.ListForEmployee,
	)
}

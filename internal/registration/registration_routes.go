package registration

import (
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/middleware"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const resource = "registration"

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	auth gin.HandlerFunc,
	logger *zap.Logger,
) {
	readScope := []gin.HandlerFunc{
		middleware.RateLimitByUser(5, 20),
		middleware.RBACAuthorize(rbacService, resource, "read_all", "read_own"),
		middleware.RBACResolve(rbacService, resource, "read_all", middleware.CapReadAll),
	}

	regs := r.Group("/registrations")
	regs.Use(auth)
	regs.Use(middleware.ContextLogger(logger))
	{
		regs.GET("", append(readScope, handler.GetAll)...)
		regs.GET("/:id", append(readScope, handler.GetByID)...)

		regs.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, resource, "manage"),
			handler.Create,
		)

		regs.PATCH("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, resource, "manage"),
			handler.Update,
		)

		regs.DELETE("/:id",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RBACAuthorize(rbacService, resource, "manage"),
			handler.Deactivate,
		)
	}

	byEmployee := r.Group("/employees/:id/registrations")
	byEmployee.Use(auth)
	byEmployee.Use(middleware.ContextLogger(logger))
	byEmployee.GET("", append(readScope, handler.ListForEmployee)...)
}

package workshift

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
	shifts := r.Group("/work-shifts")
	shifts.Use(auth)
	shifts.Use(middleware.ContextLogger(logger))
	{
		shifts.GET("",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "work_shift", "read", "manage"),
			handler.GetAll,
		)

		shifts.GET("/:id",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "work_shift", "read", "manage"),
			handler.GetByID,
		)

		shifts.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "work_shift", "manage"),
			handler.Create,
		)

		shifts.PATCH("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "work_shift", "manage"),
			handler.Update,
		)

		shifts.DELETE("/:id",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RBACAuthorize(rbacService, "work_shift", "manage"),
			handler.Deactivate,
		)
	}
}

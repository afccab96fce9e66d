package rbac

import (
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	service Service,
	auth gin.HandlerFunc,
	logger *zap.Logger,
) {
	group := r.Group("/rbac")
	group.Use(auth)
	group.Use(middleware.ContextLogger(logger))
	{
		group.POST("/enforce",
			middleware.RateLimitByUser(5, 20),
			handler.Enforce,
		)
		group.GET("/roles", middleware.RBACAuthorize(service, "role", "read"), handler.ListRoles)
		group.GET("/permissions", middleware.RBACAuthorize(service, "role", "read"), handler.ListPermissions)
		group.POST("/assignments",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(service, "role", "manage"),
			handler.AssignRole,
		)
	}
}

package timeoff

import (
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/middleware"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const resource = "time_off"

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	auth gin.HandlerFunc,
	idempotency gin.HandlerFunc,
	logger *zap.Logger,
) {
	readScope := []gin.HandlerFunc{
		middleware.RateLimitByUser(5, 20),
		middleware.RBACAuthorize(rbacService, resource, "read_all", "read_own"),
		middleware.RBACResolve(rbacService, resource, "read_all", middleware.CapReadAll),
	}

	requests := r.Group("/time-off-requests")
	requests.Use(auth)
	requests.Use(middleware.ContextLogger(logger))
	{
		requests.GET("", append(readScope, handler.GetAll)...)
		requests.GET("/balances", append(readScope, handler.GetBalances)...)
		requests.GET("/:id", append(readScope, handler.GetByID)...)

		requests.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, resource, "create"),
			middleware.RBACResolve(rbacService, resource, "manage_all", middleware.CapManageAll),
			idempotency,
			handler.Create,
		)

		requests.POST("/:id/approve",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, resource, "approve"),
			handler.Approve,
		)
		requests.POST("/:id/reject",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, resource, "approve"),
			handler.Reject,
		)
		requests.POST("/:id/cancel",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, resource, "create"),
			middleware.RBACResolve(rbacService, resource, "manage_all", middleware.CapManageAll),
			handler.Cancel,
		)
	}
}

package app

import (
	"context"
	"net/http"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/config"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/middleware"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/connection"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/database"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects infrastructure and mounts every module on router.
// The returned func releases the connections.
func BuildApp(ctx context.Context, cfg *config.Config, router *gin.Engine, logger *zap.Logger) (func(), error) {
	log := logger.Named("app")

	sqlDB, gormDB, err := connection.ConnectPostgresWithRetry(cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(sqlDB, log); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	cleanup := func() {
		_ = rdb.Close()
		_ = sqlDB.Close()
	}

	router.Use(middleware.RequestID(), middleware.RateLimitByIP(20, 40))
	router.GET("/healthz", func(c *gin.Context) {
		if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := registerModules(ctx, router, cfg, sqlDB, gormDB, rdb, logger); err != nil {
		cleanup()
		return nil, err
	}

	log.Info("modules registered")
	return cleanup, nil
}

package app

import (
	"context"
	"database/sql"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/config"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/employee"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/employeeshift"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/messaging/kafka"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/middleware"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/notification"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/overtime"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/rbac"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/rbac/infra"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/registration"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/counter"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/timeoff"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/workshift"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	ctx context.Context,
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	rules, err := workshift.RulesFromConfig(cfg.Schedule)
	if err != nil {
		return err
	}

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	workShiftRepo := workshift.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	employeeDirectory := employee.NewDirectory(gormDB)
	registrationRepo := registration.NewRepository(gormDB)
	employeeShiftRepo := employeeshift.NewRepository(gormDB)
	timeOffRepo := timeoff.NewRepository(gormDB)
	overtimeRepo := overtime.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)
	if err := rbacService.LoadPolicy(ctx); err != nil {
		return err
	}

	// --- Services ---
	notifier := notification.NewOutboxNotifier(outboxRepo, cfg.Kafka.NotificationTopic, logger)
	schedule := employeeshift.NewLookup(employeeShiftRepo, registrationRepo)

	workShiftService := workshift.NewService(db, workShiftRepo, rdb, workshift.Options{
		Rules:         rules,
		MaxIDAttempts: cfg.Schedule.IDMaxAttempts,
		CacheTTL:      cfg.Schedule.CacheTTL,
	}, logger)
	employeeService := employee.NewService(db, employeeRepo, counterRepo, rdb, logger)
	registrationService := registration.NewService(db, registrationRepo, employeeDirectory, workShiftRepo, counterRepo, notifier, logger)
	employeeShiftService := employeeshift.NewService(db, employeeShiftRepo, employeeDirectory, workShiftRepo, employeeshift.Options{}, logger)
	timeOffService := timeoff.NewService(db, timeOffRepo, employeeDirectory, schedule, notifier, timeoff.Options{MaxSpanDays: cfg.Schedule.MaxTimeOffDays}, logger)
	overtimeService := overtime.NewService(db, overtimeRepo, employeeDirectory, workShiftRepo, schedule, employeeShiftRepo, notifier, overtime.Options{}, logger)

	// --- Handlers ---
	workShiftHandler := workshift.NewHandler(workShiftService, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	registrationHandler := registration.NewHandler(registrationService, logger)
	employeeShiftHandler := employeeshift.NewHandler(employeeShiftService, logger)
	timeOffHandler := timeoff.NewHandler(timeOffService, logger)
	overtimeHandler := overtime.NewHandler(overtimeService, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)

	// --- Routes Registration ---
	auth := middleware.AuthMiddleware(cfg.Auth.JWTSecret)
	idempotency := middleware.Idempotency(rdb, logger)

	api := router.Group("/api/v1")
	{
		workshift.RegisterRoutes(api, workShiftHandler, rbacService, auth, logger)
		employee.RegisterRoutes(api, employeeHandler, rbacService, auth, logger)
		registration.RegisterRoutes(api, registrationHandler, rbacService, auth, logger)
		employeeshift.RegisterRoutes(api, employeeShiftHandler, rbacService, auth, logger)
		timeoff.RegisterRoutes(api, timeOffHandler, rbacService, auth, idempotency, logger)
		overtime.RegisterRoutes(api, overtimeHandler, rbacService, auth, idempotency, logger)
		rbac.RegisterRoutes(api, rbacHandler, rbacService, auth, logger)
	}

	return nil
}

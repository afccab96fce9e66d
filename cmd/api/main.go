package main

import (
	"context"
	"flag"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/app"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/bootstrap"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/config"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/apperror"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/logger"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	log := logger.MustInit(cfg.Log)
	defer log.Sync()

	ctx := context.Background()
	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatal("init tracer failed", zap.Error(err))
	}
	defer shutdownTracer(ctx)

	apperror.Init()
	r := gin.New()
	r.Use(gin.Recovery())

	cleanup, err := app.BuildApp(ctx, cfg, r, log)
	if err != nil {
		log.Fatal("build app failed", zap.Error(err))
	}
	defer cleanup()

	bootstrap.StartHTTPServer(r, cfg.Server, cfg.Telemetry.ServiceName, bootstrap.NewStdoutAuditLogger(log))
}

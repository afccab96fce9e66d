package main

import (
	"flag"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/app"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/config"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/logger"

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

	if err := app.RunWorker(cfg, log); err != nil {
		log.Fatal("run worker failed", zap.Error(err))
	}
}

package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/config"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/messaging/kafka"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/messaging/kafka/producer"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays queued schedule notifications to Kafka until SIGINT/SIGTERM.
func RunWorker(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.worker")

	sqlDB, _, err := connection.ConnectPostgresWithRetry(cfg.Database)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, cfg.Database.MaxRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	relay := producer.NewRelay(sqlDB, outboxRepo, kafkaWriter, producer.RelayConfig{
		PollInterval:  cfg.Kafka.OutboxPollInterval,
		BatchSize:     cfg.Kafka.OutboxBatchSize,
		MaxRetries:    cfg.Kafka.OutboxMaxRetries,
		SentRetention: cfg.Kafka.OutboxRetention,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		relay.Run(ctx)
		close(done)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("worker shutting down")
	cancel()
	<-done

	return nil
}

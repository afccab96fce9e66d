package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/config"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/employee"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/messaging/kafka/consumer"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/notification"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer emails schedule notifications read from Kafka.
func RunConsumer(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

	sqlDB, gormDB, err := connection.ConnectPostgresWithRetry(cfg.Database)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sesClient, err := connection.NewSESClient(ctx, cfg.AWS)
	if err != nil {
		return err
	}

	mailer := notification.NewSESMailer(sesClient, cfg.AWS.SenderEmail, logger)
	dispatcher := notification.NewDispatcher(employee.NewDirectory(gormDB), mailer, logger)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          cfg.Kafka.NotificationTopic,
		GroupID:        cfg.Kafka.ConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	done := make(chan struct{})
	go func() {
		consumer.ConsumeScheduleNotifications(ctx, reader, dispatcher, logger)
		close(done)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("consumer shutting down")
	cancel()
	<-done

	return nil
}

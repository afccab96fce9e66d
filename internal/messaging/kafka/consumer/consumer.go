package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/events"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type EventDispatcher interface {
	Dispatch(ctx context.Context, event events.ScheduleEvent) error
}

// retryDelay is the pause before re-delivering a message whose dispatch failed.
const retryDelay = 5 * time.Second

// ConsumeScheduleNotifications emails schedule events until ctx is done.
// Malformed and undeliverable messages are committed and skipped; other
// failures leave the offset uncommitted and the message is retried.
func ConsumeScheduleNotifications(
	ctx context.Context,
	reader MessageReader,
	dispatcher EventDispatcher,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.schedule_notifications")
	log.Info("schedule notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("schedule notification consumer stopped")
				return
			}
			log.Error("fetch schedule notification failed", zap.Error(err))
			continue
		}

		if !handle(ctx, reader, dispatcher, msg, log) {
			select {
			case <-ctx.Done():
				log.Info("schedule notification consumer stopped")
				return
			case <-time.After(retryDelay):
			}
		}
	}
}

// handle returns false when the message should be retried.
func handle(ctx context.Context, reader MessageReader, dispatcher EventDispatcher, msg kafkago.Message, log *zap.Logger) bool {
	var event events.ScheduleEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode schedule event failed",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		commit(ctx, reader, msg, log)
		return true
	}

	if err := dispatcher.Dispatch(ctx, event); err != nil {
		if errors.Is(err, notification.ErrUndeliverable) {
			log.Warn("schedule event undeliverable, skipping",
				zap.String("event_type", event.EventType),
				zap.String("aggregate_id", event.AggregateID),
				zap.Error(err),
			)
			commit(ctx, reader, msg, log)
			return true
		}
		log.Error("dispatch schedule event failed",
			zap.String("request_id", event.RequestID),
			zap.String("event_type", event.EventType),
			zap.String("aggregate_id", event.AggregateID),
			zap.Error(err),
		)
		return false
	}

	commit(ctx, reader, msg, log)
	return true
}

func commit(ctx context.Context, reader MessageReader, msg kafkago.Message, log *zap.Logger) {
	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit schedule notification failed", zap.Int64("offset", msg.Offset), zap.Error(err))
	}
}

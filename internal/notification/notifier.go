package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/events"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/messaging/kafka"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier is a fire-and-forget sink. Implementations must not report
// failures to the caller; the scheduling write has already committed.
//
//go:generate mockgen -source=notifier.go -destination=mock/notifier_mock.go -package=mock
type Notifier interface {
	Notify(ctx context.Context, event events.ScheduleEvent)
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, events.ScheduleEvent) {}

// OutboxNotifier queues events in outbox_events; cmd/worker relays them to Kafka.
type OutboxNotifier struct {
	outbox kafka.OutboxRepository
	topic  string
	now    func() time.Time
	logger *zap.Logger
}

func NewOutboxNotifier(outbox kafka.OutboxRepository, topic string, logger ...*zap.Logger) *OutboxNotifier {
	l := zap.L().Named("notification.outbox")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.outbox")
	}
	if topic == "" {
		topic = events.ScheduleNotificationsTopic
	}
	return &OutboxNotifier{outbox: outbox, topic: topic, now: time.Now, logger: l}
}

func (n *OutboxNotifier) Notify(ctx context.Context, event events.ScheduleEvent) {
	if event.RequestID == "" {
		event.RequestID = contextutil.GetRequestID(ctx)
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = n.now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("marshal schedule event failed",
			zap.String("event_type", event.EventType),
			zap.Error(err),
		)
		return
	}

	outboxEvent := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		EventType:     event.EventType,
		Topic:         n.topic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := kafka.ValidateOutboxEvent(outboxEvent); err != nil {
		n.logger.Error("invalid outbox event", zap.String("event_type", event.EventType), zap.Error(err))
		return
	}

	if err := n.outbox.Create(ctx, outboxEvent); err != nil {
		n.logger.Warn("queue schedule notification failed",
			zap.String("request_id", event.RequestID),
			zap.String("event_type", event.EventType),
			zap.String("aggregate_id", event.AggregateID),
			zap.Error(err),
		)
		return
	}

	n.logger.Debug("schedule notification queued",
		zap.String("event_type", event.EventType),
		zap.String("aggregate_id", event.AggregateID),
	)
}

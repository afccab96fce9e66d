package producer

import (
	"context"
	"database/sql"
	"time"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/messaging/kafka"

	"go.uber.org/zap"
)

type RelayConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxRetries   int
	// SentRetention is how long sent rows are kept; zero disables purging.
	SentRetention time.Duration
}

// Relay moves outbox rows to Kafka.
type Relay struct {
	db     *sql.DB
	repo   kafka.OutboxRepository
	writer MessageWriter
	cfg    RelayConfig
	now    func() time.Time
	log    *zap.Logger
}

func NewRelay(db *sql.DB, repo kafka.OutboxRepository, writer MessageWriter, cfg RelayConfig, logger *zap.Logger) *Relay {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 10
	}
	return &Relay{
		db:     db,
		repo:   repo,
		writer: writer,
		cfg:    cfg,
		now:    time.Now,
		log:    logger.Named("kafka.producer.relay"),
	}
}

func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	r.log.Info("outbox relay started",
		zap.Duration("poll_interval", r.cfg.PollInterval),
		zap.Int("batch_size", r.cfg.BatchSize),
	)

	for {
		select {
		case <-ctx.Done():
			r.log.Info("outbox relay stopped")
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				r.log.Error("process outbox events failed", zap.Error(err))
			}
			r.purge(ctx)
		}
	}
}

// RunOnce relays one batch and returns how many rows were sent.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	events, err := r.repo.ClaimPending(ctx, tx, r.cfg.BatchSize)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	r.log.Debug("processing pending outbox events", zap.Int("count", len(events)))

	qtx := r.repo.WithTx(tx)
	sent := 0
	for _, event := range events {
		if err := publishEvent(ctx, r.writer, event); err != nil {
			r.log.Error("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.String("topic", event.Topic),
				zap.Int("retry_count", event.RetryCount),
				zap.Error(err),
			)
			if event.RetryCount+1 >= r.cfg.MaxRetries {
				r.log.Warn("outbox event moved to dead", zap.String("outbox_id", event.ID))
			}
			if err := qtx.MarkFailed(ctx, event.ID, err.Error(), r.cfg.MaxRetries); err != nil {
				return sent, err
			}
			continue
		}

		if err := qtx.MarkSent(ctx, event.ID); err != nil {
			return sent, err
		}
		sent++

		r.log.Info("outbox event sent",
			zap.String("outbox_id", event.ID),
			zap.String("request_id", event.RequestID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return sent, nil
}

func (r *Relay) purge(ctx context.Context) {
	if r.cfg.SentRetention <= 0 {
		return
	}
	n, err := r.repo.PurgeSent(ctx, r.now().Add(-r.cfg.SentRetention))
	if err != nil {
		r.log.Warn("purge sent outbox events failed", zap.Error(err))
		return
	}
	if n > 0 {
		r.log.Debug("purged sent outbox events", zap.Int64("count", n))
	}
}

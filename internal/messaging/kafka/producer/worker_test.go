package producer

import (
	"context"
	"errors"
	"testing"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/messaging/kafka"
	kafkaMock "github.com/DenTeeth/PDCMS-BE-sub005/internal/messaging/kafka/mock"

	"github.com/DATA-DOG/go-sqlmock"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeWriter struct {
	written []kafkago.Message
	failFor map[string]error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if err := w.failFor[string(m.Key)]; err != nil {
			return err
		}
		w.written = append(w.written, m)
	}
	return nil
}

func header(m kafkago.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestRelay_RunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes and marks each event in one transaction", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db, sqlMock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		writer := &fakeWriter{failFor: map[string]error{"REG000002": errors.New("broker down")}}
		relay := NewRelay(db, repo, writer, RelayConfig{BatchSize: 10, MaxRetries: 3}, zap.NewNop())

		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()
		repo.EXPECT().ClaimPending(ctx, gomock.Any(), 10).Return([]kafka.OutboxEvent{
			{ID: "o-1", RequestID: "req-1", AggregateID: "REG000001", EventType: "registration.created", Topic: "t", Payload: []byte(`{}`)},
			{ID: "o-2", AggregateID: "REG000002", EventType: "registration.created", Topic: "t", Payload: []byte(`{}`), RetryCount: 2},
		}, nil)
		repo.EXPECT().WithTx(gomock.Any()).Return(repo)
		repo.EXPECT().MarkSent(ctx, "o-1").Return(nil)
		repo.EXPECT().MarkFailed(ctx, "o-2", "broker down", 3).Return(nil)

		sent, err := relay.RunOnce(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, sent)
		require.Len(t, writer.written, 1)
		assert.Equal(t, "req-1", header(writer.written[0], "request_id"))
		assert.Equal(t, "registration.created", header(writer.written[0], "event_type"))
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("nothing due", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db, sqlMock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		relay := NewRelay(db, repo, &fakeWriter{}, RelayConfig{}, zap.NewNop())

		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()
		repo.EXPECT().ClaimPending(ctx, gomock.Any(), 50).Return(nil, nil)

		sent, err := relay.RunOnce(ctx)

		require.NoError(t, err)
		assert.Zero(t, sent)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestToMessage_OmitsEmptyRequestID(t *testing.T) {
	msg := toMessage(kafka.OutboxEvent{ID: "o-1", AggregateID: "a", EventType: "e", Topic: "t"})

	assert.Equal(t, "", header(msg, "request_id"))
	assert.Equal(t, "o-1", header(msg, "outbox_id"))
	assert.Equal(t, []byte("a"), msg.Key)
}

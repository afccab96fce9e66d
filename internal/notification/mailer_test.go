package notification_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/notification"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSES struct {
	calls int
	last  *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.calls++
	f.last = in
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESMailer_Send(t *testing.T) {
	client := &fakeSES{}
	m := notification.NewSESMailer(client, "no-reply@denteeth.vn", zap.NewNop())

	err := m.Send(context.Background(), "lan@clinic.vn", "Overtime request submitted", "body")

	require.NoError(t, err)
	require.NotNil(t, client.last)
	assert.Equal(t, "no-reply@denteeth.vn", aws.ToString(client.last.Source))
	assert.Equal(t, []string{"lan@clinic.vn"}, client.last.Destination.ToAddresses)
	assert.Equal(t, "Overtime request submitted", aws.ToString(client.last.Message.Subject.Data))
}

func TestSESMailer_OpensCircuitAfterFailures(t *testing.T) {
	client := &fakeSES{err: errors.New("throttled")}
	m := notification.NewSESMailer(client, "no-reply@denteeth.vn", zap.NewNop())

	for i := 0; i < 5; i++ {
		err := m.Send(context.Background(), "lan@clinic.vn", "s", "b")
		assert.EqualError(t, err, "throttled")
	}

	err := m.Send(context.Background(), "lan@clinic.vn", "s", "b")

	assert.ErrorIs(t, err, notification.ErrMailerUnavailable)
	assert.Equal(t, 5, client.calls)
}

package notification

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrMailerUnavailable is returned while the circuit is open.
var ErrMailerUnavailable = errors.New("mailer unavailable: circuit open")

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SESClient is the subset of *ses.Client used here.
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESMailer struct {
	client SESClient
	sender string
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

func NewSESMailer(client SESClient, sender string, logger *zap.Logger) *SESMailer {
	log := logger.Named("notification.ses")
	settings := gobreaker.Settings{
		Name:        "ses",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &SESMailer{
		client: client,
		sender: sender,
		cb:     gobreaker.NewCircuitBreaker(settings),
		logger: log,
	}
}

func (m *SESMailer) Send(ctx context.Context, to, subject, body string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	}

	_, err := m.cb.Execute(func() (interface{}, error) {
		return m.client.SendEmail(ctx, input)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrMailerUnavailable
	}
	return err
}

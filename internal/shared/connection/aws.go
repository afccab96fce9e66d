package connection

import (
	"context"
	"fmt"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"go.uber.org/zap"
)

// NewSESClient builds an SES client. A configured endpoint routes calls to
// LocalStack with static test credentials.
func NewSESClient(ctx context.Context, cfg config.AWSConfig) (*ses.Client, error) {
	log := zap.L().Named("connection.aws")

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.Endpoint != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("test", "test", ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	if cfg.Endpoint == "" {
		log.Info("ses client ready", zap.String("region", cfg.Region))
		return ses.NewFromConfig(awsCfg), nil
	}

	log.Info("ses client ready", zap.String("region", cfg.Region), zap.String("endpoint", cfg.Endpoint))
	return ses.NewFromConfig(awsCfg, func(o *ses.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
	}), nil
}

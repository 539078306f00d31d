package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/queueworks/sqsconsumer"
	"github.com/queueworks/sqsconsumer/config"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.QueueURL == "" {
		log.Fatal().Msg("QUEUE_URL must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS configuration")
	}

	client := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if cfg.AWSEndpoint != "" {
			o.BaseEndpoint = &cfg.AWSEndpoint
		}
	})

	opts := []sqsconsumer.Option{
		sqsconsumer.WithLogger(log.Logger),
		sqsconsumer.WithMaxMessages(cfg.MaxMessages),
		sqsconsumer.WithWaitTime(time.Duration(cfg.WaitTimeSeconds) * time.Second),
	}
	if cfg.ErrorQueueURL != "" {
		opts = append(opts, sqsconsumer.WithErrorQueue(cfg.ErrorQueueURL))
	}
	if cfg.VisibilityTimeoutSeconds > 0 {
		opts = append(opts, sqsconsumer.WithVisibilityTimeout(time.Duration(cfg.VisibilityTimeoutSeconds)*time.Second))
	}

	consumer := sqsconsumer.NewConsumer(client, cfg.QueueURL, logMessage, opts...)

	if err := consumer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Consumer stopped on transport failure")
	}
	log.Info().Msg("Consumer shut down cleanly")
}

// logMessage is a placeholder callback; swap in real business logic.
func logMessage(_ context.Context, msg sqsconsumer.Message) error {
	log.Info().Str("message_id", msg.MessageID).Str("body", msg.Body).Msg("Processing message")
	return nil
}

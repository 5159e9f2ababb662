package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/tourbooking/config"
	"github.com/Domenick1991/tourbooking/internal/email"
	"github.com/Domenick1991/tourbooking/internal/kafka"
	"github.com/Domenick1991/tourbooking/internal/logging"
	"github.com/Domenick1991/tourbooking/internal/service/notification"
	"github.com/Domenick1991/tourbooking/internal/tracing"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Development)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if len(cfg.Kafka.Brokers) == 0 {
		logger.Fatal("kafka brokers are not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(cfg.Tracing)
	if err != nil {
		logger.Fatal("init tracing", zap.Error(err))
	}
	defer shutdownTracing(context.Background())

	mailer, err := email.NewSMTPSender(cfg.Mail, logger)
	if err != nil {
		logger.Fatal("init mailer", zap.Error(err))
	}
	notifier := notification.NewNotifier(mailer, logger)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.PaymentEventsTopic, logger)
	defer consumer.Close()

	logger.Info("worker started", zap.String("topic", cfg.Kafka.PaymentEventsTopic))
	err = consumer.Consume(ctx, func(ctx context.Context, event kafka.PaymentEvent) error {
		if err := notifier.HandlePaymentEvent(ctx, event); err != nil {
			logger.Error("handle payment event", zap.String("event_id", event.ID), zap.Error(err))
		}
		return nil
	})
	if err != nil {
		logger.Error("consumer stopped", zap.Error(err))
		return
	}
	logger.Info("worker stopped")
}

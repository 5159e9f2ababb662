package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/tourbooking/api"
	"github.com/Domenick1991/tourbooking/config"
	"github.com/Domenick1991/tourbooking/internal/bootstrap"
	"github.com/Domenick1991/tourbooking/internal/cache"
	"github.com/Domenick1991/tourbooking/internal/email"
	"github.com/Domenick1991/tourbooking/internal/gateway"
	"github.com/Domenick1991/tourbooking/internal/invoice"
	"github.com/Domenick1991/tourbooking/internal/kafka"
	"github.com/Domenick1991/tourbooking/internal/logging"
	"github.com/Domenick1991/tourbooking/internal/repository"
	"github.com/Domenick1991/tourbooking/internal/service/payment"
	"github.com/Domenick1991/tourbooking/internal/storage"
	"github.com/Domenick1991/tourbooking/internal/tracing"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const invoiceIssuer = "Tour Booking"

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(cfg.Tracing)
	if err != nil {
		logger.Fatal("init tracing", zap.Error(err))
	}
	defer shutdownTracing(context.Background())

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	if cfg.Database.Migrate {
		if err := repository.Migrate(ctx, pool); err != nil {
			logger.Fatal("migrate schema", zap.Error(err))
		}
	}

	uploader, err := storage.NewCloudinaryUploader(cfg.Storage)
	if err != nil {
		logger.Fatal("init storage", zap.Error(err))
	}
	mailer, err := email.NewSMTPSender(cfg.Mail, logger)
	if err != nil {
		logger.Fatal("init mailer", zap.Error(err))
	}

	checks := map[string]bootstrap.HealthCheck{"postgres": pool.Ping}
	var opts []payment.PaymentServiceOption

	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Payment.InvoiceCacheTTL())
		defer redisCache.Close()
		opts = append(opts, payment.WithCache(redisCache, cfg.Payment.CallbackLockTTL()))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, logger)
		defer producer.Close()
		opts = append(opts, payment.WithEvents(producer, cfg.Kafka.PaymentEventsTopic))
		checks["kafka"] = producer.CheckConnection
	}

	paymentService := payment.NewPaymentService(
		repository.NewStore(pool),
		gateway.NewSSLCommerzClient(cfg.Gateway, logger),
		invoice.NewPDFRenderer(invoiceIssuer),
		uploader,
		mailer,
		logger,
		opts...,
	)

	if err := bootstrap.Run(ctx, cfg, bootstrap.Deps{
		Payments: api.NewPaymentHandler(paymentService, cfg.Payment),
		Checks:   checks,
		Logger:   logger,
	}); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

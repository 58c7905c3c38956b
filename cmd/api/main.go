package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/client"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/config"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/metrics"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/middleware"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/publisher"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/repository"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/server"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/service"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/worker"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}
	cfg.ResolveReturnURLs()
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	db, err := client.InitDBClient(&cfg.Database)
	if err != nil {
		logger.Error("database init failed", "error", err)
		os.Exit(1)
	}

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)
	callbackRepo := repository.NewCallbackRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	if cfg.Database.SeedProducts {
		if err := productRepo.Seed(context.Background()); err != nil {
			logger.Error("seed products failed", "error", err)
			os.Exit(1)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	orderMetrics := metrics.NewOrderMetrics(reg)

	var pub publisher.Publisher = publisher.NewLogPublisher(logger)
	if len(cfg.Kafka.Brokers) > 0 {
		pub = publisher.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		logger.Info("publishing order events to kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	orderService := service.NewOrderService(
		db,
		client.NewPayTRClient(&cfg.PayTR),
		orderRepo,
		productRepo,
		cartRepo,
		outboxRepo,
		callbackRepo,
		auditRepo,
		orderMetrics,
		service.OrderOptions{
			TTL:      cfg.Order.TTL,
			Currency: cfg.Order.Currency,
			Logger:   logger,
		},
	)
	cartService := service.NewCartService(cartRepo, productRepo)
	relay := service.NewOutboxRelay(outboxRepo, pub, orderMetrics, cfg.Worker.OutboxBatchSize, logger)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	tasks := worker.NewBackgroundTasks(orderService, relay, cfg.Worker, logger)
	tasks.StartAll(workerCtx)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(
		orderService,
		cartService,
		middleware.NewAuthenticator(&cfg.Auth),
		reg,
		logger,
		cfg.Log.Level,
	)

	logger.Info("Starting HTTP server", "addr", serverAddr, "environment", cfg.Environment.Name)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("Signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	stopWorkers()
	tasks.Wait()

	if err := pub.Close(); err != nil {
		logger.Error("publisher close error", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("shutdown complete")
}

func newLogger(cfg config.Log) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

package main

import (
	"context"
	"errors"
	"loan-engine/internal/config"
	"loan-engine/internal/domain/borrower"
	"loan-engine/internal/event"
	"loan-engine/internal/infrastructure/database/postgres"
	"loan-engine/internal/infrastructure/ledgersource"
	"loan-engine/internal/infrastructure/logging"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
)

func main() {
	cfg, logger := initializeConfigAndLogger()
	ctx, cancel := setupSignalHandling()
	defer cancel()

	dbpool := setupDatabase(ctx, cfg, logger)
	defer closeDatabase(dbpool, logger)

	rabbitConn := setupRabbitMQ(cfg, logger)
	defer closeRabbitMQ(rabbitConn, logger)

	scanner, err := ledgersource.New(cfg.Ledger, dbpool, logger)
	if err != nil {
		logger.Error("Failed to initialize ledger source", slog.Any("error", err))
		os.Exit(1)
	}
	scorer := borrower.NewScorer(scanner, postgres.NewBorrowerRepository(dbpool, logger), logger)
	scoringHandler := event.NewScoringHandler(scorer, logger)

	server := startMetricsServer(cfg, logger, cancel)

	consumer := setupConsumer(rabbitConn, cfg, scoringHandler, logger)
	startConsumer(ctx, consumer, logger)

	waitForShutdownSignal(ctx, consumer, logger)

	logger.Info("Shutting down metrics server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down metrics server", slog.Any("error", err))
	}
	logger.Info("Scoring worker shut down gracefully.")
}

func initializeConfigAndLogger() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := logging.NewLogger(cfg.Logger)
	logger.Info("Configuration loaded successfully")
	return cfg, logger
}

func setupSignalHandling() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func setupDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dbpool, err := postgres.NewConnectionPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Database connection established")
	return dbpool
}

func closeDatabase(dbpool *pgxpool.Pool, logger *slog.Logger) {
	logger.Info("Closing database connection pool...")
	dbpool.Close()
}

func setupRabbitMQ(cfg *config.Config, logger *slog.Logger) *amqp.Connection {
	rabbitConn, err := event.Dial(cfg.RabbitMQ, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", slog.Any("error", err))
		os.Exit(1)
	}
	return rabbitConn
}

func closeRabbitMQ(rabbitConn *amqp.Connection, logger *slog.Logger) {
	logger.Info("Closing RabbitMQ connection...")
	if err := rabbitConn.Close(); err != nil {
		logger.Error("Error closing RabbitMQ connection", slog.Any("error", err))
	}
}

// startMetricsServer exposes /metrics on cfg.Metrics.Port; a listen failure
// cancels the worker.
func startMetricsServer(cfg *config.Config, logger *slog.Logger, cancel context.CancelFunc) *http.Server {
	path := cfg.Metrics.Path
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Metrics.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("Setting up Prometheus metrics endpoint", "addr", server.Addr, "path", path)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start metrics server", slog.Any("error", err))
			cancel()
		}
	}()
	return server
}

func setupConsumer(rabbitConn *amqp.Connection, cfg *config.Config, scoringHandler *event.ScoringHandler, logger *slog.Logger) *event.Consumer {
	consumer, err := event.NewConsumer(
		rabbitConn,
		cfg.RabbitMQ.ExchangeName,
		cfg.RabbitMQ.QueueName,
		cfg.RabbitMQ.ConsumerTag,
		cfg.RabbitMQ.Prefetch,
		scoringHandler.HandleDelivery,
		logger,
	)
	if err != nil {
		logger.Error("Failed to create RabbitMQ consumer", slog.Any("error", err))
		os.Exit(1)
	}
	return consumer
}

func startConsumer(ctx context.Context, consumer *event.Consumer, logger *slog.Logger) {
	if err := consumer.Start(ctx); err != nil {
		logger.Error("Failed to start RabbitMQ consumer", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Consumer started successfully. Waiting for scoring tasks or shutdown signal...")
}

func waitForShutdownSignal(ctx context.Context, consumer *event.Consumer, logger *slog.Logger) {
	<-ctx.Done()
	logger.Info("Shutdown signal received. Initiating graceful shutdown...")
	consumer.Stop()
}

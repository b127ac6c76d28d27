package main

import (
	"context"
	"errors"
	"fmt"
	"loan-engine/internal/api"
	mw "loan-engine/internal/api/middleware"
	"loan-engine/internal/batch"
	"loan-engine/internal/config"
	"loan-engine/internal/domain/borrower"
	"loan-engine/internal/domain/loan"
	"loan-engine/internal/event"
	"loan-engine/internal/infrastructure/cache"
	"loan-engine/internal/infrastructure/database/postgres"
	"loan-engine/internal/infrastructure/ledgersource"
	"loan-engine/internal/infrastructure/logging"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	scoringModeInline   = "inline"
	scoringModeRabbitMQ = "rabbitmq"
)

// @title Loan Engine API
// @version 1.0
// @description Borrower registration, credit scoring, loan origination and EMI payments.

// @contact.name API Support
// @contact.email support@loan-engine.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, logger := initializeApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPool := initializeDatabase(cfg, logger)
	defer closeDatabase(dbPool, logger)

	rdb := initializeRedis(cfg, logger)
	if rdb != nil {
		defer closeRedis(rdb, logger)
	}

	borrowerRepo := postgres.NewBorrowerRepository(dbPool, logger)
	scanner, err := ledgersource.New(cfg.Ledger, dbPool, logger)
	if err != nil {
		logger.Error("Failed to initialize ledger source", "error", err)
		os.Exit(1)
	}
	scorer := borrower.NewScorer(scanner, borrowerRepo, logger)

	queue, stopQueue := initializeScoringQueue(ctx, cfg, scorer, logger)
	defer stopQueue()

	borrowerService, loanService := initializeServices(dbPool, borrowerRepo, queue, cfg, logger)

	backfillJob := batch.NewScoreBackfillJob(borrowerRepo, queue, cfg.Batch.ScoreBackfillLimit, logger)
	cronScheduler := startBatchJobs(cfg, logger, backfillJob)

	var rateLimiter *mw.RateLimiterMiddleware
	if cfg.Server.RateLimit.Enabled {
		rateLimiter = mw.NewRateLimiterMiddleware(ctx, cfg.Server.RateLimit, logger)
	}

	var idempotencyStore redis.Cmdable
	if rdb != nil {
		idempotencyStore = rdb
	}
	router := api.SetupRouter(rateLimiter, idempotencyStore, borrowerService, loanService, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	logger.Info("Application starting...", "config_source", viper.ConfigFileUsed())

	return cfg, logger
}

func initializeDatabase(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	if cfg.Database.Migrate {
		logger.Info("Applying database migrations...")
		if err := postgres.RunMigrations(cfg.Database.URL); err != nil {
			logger.Error("Failed to apply database migrations", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Initializing database connection pool...")
	dbPool, err := postgres.NewConnectionPool(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	return dbPool
}

func closeDatabase(dbPool *pgxpool.Pool, logger *slog.Logger) {
	logger.Info("Closing database connection pool...")
	dbPool.Close()
}

// initializeRedis returns nil when Redis is disabled or unreachable. The API
// then serves make-payment without Idempotency-Key support.
func initializeRedis(cfg *config.Config, logger *slog.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		logger.Info("Redis disabled by configuration")
		return nil
	}
	rdb, err := cache.OpenRedis(cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis unavailable, continuing without idempotency store", "error", err)
		return nil
	}
	return rdb
}

func closeRedis(rdb *redis.Client, logger *slog.Logger) {
	logger.Info("Closing Redis client...")
	if err := rdb.Close(); err != nil {
		logger.Error("Error closing Redis client", "error", err)
	}
}

// initializeScoringQueue returns the queue borrower registration enqueues on
// and a func that releases it.
func initializeScoringQueue(ctx context.Context, cfg *config.Config, scorer borrower.Scorer, logger *slog.Logger) (borrower.ScoringQueue, func()) {
	switch strings.ToLower(cfg.Scoring.Mode) {
	case scoringModeInline:
		logger.Info("Scoring tasks run in-process", "workers", cfg.Scoring.Workers)
		q := event.NewInlineQueue(scorer, cfg.Scoring.Workers, 0, logger)
		q.Start(ctx)
		return q, q.Stop
	case scoringModeRabbitMQ, "":
		conn, err := event.Dial(cfg.RabbitMQ, logger)
		if err != nil {
			logger.Error("Failed to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		publisher, err := event.NewScoringPublisher(conn, cfg.RabbitMQ.ExchangeName, logger)
		if err != nil {
			logger.Error("Failed to create scoring publisher", "error", err)
			_ = conn.Close()
			os.Exit(1)
		}
		return publisher, func() {
			logger.Info("Closing RabbitMQ connection...")
			if err := conn.Close(); err != nil {
				logger.Error("Error closing RabbitMQ connection", "error", err)
			}
		}
	default:
		logger.Error("Unknown scoring mode", "mode", cfg.Scoring.Mode)
		os.Exit(1)
		return nil, nil
	}
}

func initializeServices(
	dbPool *pgxpool.Pool,
	borrowerRepo borrower.Repository,
	queue borrower.ScoringQueue,
	cfg *config.Config,
	logger *slog.Logger,
) (borrower.Service, loan.LoanService) {
	logger.Info("Initializing application components...")
	borrowerService := borrower.NewService(borrowerRepo, queue, logger)
	loanRepo := postgres.NewLoanRepository(dbPool, logger)
	return borrowerService, loan.NewLoanService(loanRepo, borrowerService, cfg.Loan.PaymentRetries, logger)
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	var triggerReason string
	select {
	case sig := <-shutdownChan:
		triggerReason = "signal: " + sig.String()
		logger.Info("Shutdown signal received.", "signal", sig.String())
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		triggerReason = "server exited"
		logger.Info("Server goroutine finished before signal.")
	}

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}

	logger.Info("Application shutdown process complete.")
}

func startBatchJobs(cfg *config.Config, logger *slog.Logger, backfillJob *batch.ScoreBackfillJob) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	scheduleSpec := cfg.Batch.ScoreBackfillSchedule
	if scheduleSpec == "" {
		scheduleSpec = "*/15 * * * *"
		logger.Warn("Score backfill schedule not configured, using default", "schedule", scheduleSpec)
	}
	jobTimeout := cfg.Batch.ScoreBackfillTimeout
	if jobTimeout <= 0 {
		jobTimeout = 5 * time.Minute
	}

	jobID, err := c.AddJob(scheduleSpec, cron.FuncJob(func() {
		jobLogger := logger.With("job_name", "ScoreBackfill")
		jobLogger.Info("Cron triggered: Running score backfill job.")

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if runErr := backfillJob.Run(ctx); runErr != nil {
			jobLogger.Error("Score backfill job finished with error", slog.Any("error", runErr))
		} else {
			jobLogger.Info("Score backfill job finished successfully.")
		}
	}))
	if err != nil {
		logger.Error("Failed to schedule score backfill job", "schedule", scheduleSpec, slog.Any("error", err))
	} else {
		logger.Info("Scheduled score backfill job", "schedule", scheduleSpec, "job_id", jobID)
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}

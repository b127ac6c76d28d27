package api

import (
	_ "loan-engine/docs"
	"loan-engine/internal/api/handler"
	mw "loan-engine/internal/api/middleware"
	"loan-engine/internal/config"
	"loan-engine/internal/domain/borrower"
	"loan-engine/internal/domain/loan"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// SetupRouter wires the HTTP surface. A nil rdb disables Idempotency-Key
// handling on make-payment.
func SetupRouter(
	rateLimiter *mw.RateLimiterMiddleware,
	rdb redis.Cmdable,
	borrowerService borrower.Service,
	loanService loan.LoanService,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, rateLimiter, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupAuthRoutes(router, cfg, logger)
	setupAPIRoutes(router, rdb, borrowerService, loanService, cfg, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, rateLimiter *mw.RateLimiterMiddleware, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	if rateLimiter != nil {
		router.Use(rateLimiter.Middleware)
	}
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupAuthRoutes(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	authHandler := handler.NewAuthHandler(cfg.Server.Auth, logger)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})
}

func setupAPIRoutes(
	router *chi.Mux,
	rdb redis.Cmdable,
	borrowerService borrower.Service,
	loanService loan.LoanService,
	cfg *config.Config,
	logger *slog.Logger,
) {
	borrowerHandler := handler.NewBorrowerHandler(borrowerService, logger)
	loanHandler := handler.NewLoanHandler(loanService, logger)

	paymentMiddlewares := chi.Middlewares{}
	if rdb != nil {
		paymentMiddlewares = append(paymentMiddlewares, mw.Idempotency(rdb, cfg.Redis.IdempotencyTTL, logger))
	} else {
		logger.Warn("Redis disabled, Idempotency-Key headers will be ignored")
	}

	router.Route("/api", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))

		r.Post("/register-user", borrowerHandler.RegisterUser)
		r.Get("/borrowers/{borrowerID}", borrowerHandler.GetBorrower)

		r.Post("/apply-loan", loanHandler.ApplyLoan)
		r.With(paymentMiddlewares...).Post("/make-payment", loanHandler.MakePayment)
		r.Get("/get-statement", loanHandler.GetStatement)
		r.Get("/loans/{loanID}", loanHandler.GetLoan)
	})
}

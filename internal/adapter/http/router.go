package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/cashdesk/internal/adapter/http/handler"
	"github.com/iho/cashdesk/internal/adapter/http/middleware"
	"github.com/iho/cashdesk/internal/domain"
	"github.com/iho/cashdesk/internal/infrastructure/auth"
	"github.com/iho/cashdesk/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	CashierHandler     *handler.CashierHandler
	ShortfallHandler   *handler.ShortfallHandler
	TransactionHandler *handler.TransactionHandler
	HealthHandler      *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration

	// JWTManager enables operator authentication on /api/v1 when set.
	JWTManager  *auth.JWTManager
	RateLimiter *middleware.RateLimiter

	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	Logger         zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestContext)
	r.Use(middleware.Metrics)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))
		}

		// Idempotency runs after auth so keys are scoped per operator
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		// Previews never move money
		r.Route("/preview", func(r chi.Router) {
			r.Post("/breakdown", cfg.CashierHandler.PreviewBreakdown)
			r.Post("/autofill", cfg.CashierHandler.AutoFill)
			r.Post("/cash-payout", cfg.CashierHandler.PreviewCashPayout)
			r.Post("/expense", cfg.CashierHandler.PreviewExpense)
		})

		r.Group(func(r chi.Router) {
			if cfg.JWTManager != nil {
				r.Use(middleware.RequireRole(domain.Role.CanSubmit))
			}

			r.Post("/cash-payouts", cfg.CashierHandler.CashPayout)
			r.Post("/expenses", cfg.CashierHandler.Expense)
			r.Post("/deposits", cfg.CashierHandler.Deposit)
			r.Post("/chip-returns", cfg.CashierHandler.ChipReturn)
			r.Post("/shortfalls/{id}/resubmit", cfg.ShortfallHandler.Resubmit)
		})

		r.Group(func(r chi.Router) {
			if cfg.JWTManager != nil {
				r.Use(middleware.RequireRole(domain.Role.CanTopUpFloat))
			}

			r.Post("/float/top-ups", cfg.CashierHandler.FloatTopUp)
			r.Post("/shortfalls/{id}/top-up", cfg.ShortfallHandler.TopUp)
		})

		r.Group(func(r chi.Router) {
			if cfg.JWTManager != nil {
				r.Use(middleware.RequireRole(domain.Role.CanReverse))
			}

			r.Post("/transactions/{id}/reverse", cfg.TransactionHandler.Reverse)
		})

		r.Get("/shortfalls/{id}", cfg.ShortfallHandler.Get)
		r.Get("/transactions/{id}", cfg.TransactionHandler.Get)
		r.Get("/players/{id}/balance", cfg.TransactionHandler.PlayerBalance)
		r.Get("/players/{id}/transactions", cfg.TransactionHandler.PlayerHistory)
		r.Get("/wallets", cfg.TransactionHandler.Wallets)
	})

	return r
}

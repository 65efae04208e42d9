package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	httpAdapter "github.com/iho/cashdesk/internal/adapter/http"
	"github.com/iho/cashdesk/internal/adapter/http/handler"
	"github.com/iho/cashdesk/internal/adapter/http/middleware"
	"github.com/iho/cashdesk/internal/adapter/ledger/httpclient"
	"github.com/iho/cashdesk/internal/adapter/ledger/memory"
	postgresRepo "github.com/iho/cashdesk/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/cashdesk/internal/adapter/repository/redis"
	"github.com/iho/cashdesk/internal/domain"
	"github.com/iho/cashdesk/internal/infrastructure/auth"
	"github.com/iho/cashdesk/internal/infrastructure/config"
	"github.com/iho/cashdesk/internal/infrastructure/logger"
	"github.com/iho/cashdesk/internal/infrastructure/metrics"
	"github.com/iho/cashdesk/internal/infrastructure/postgres"
	"github.com/iho/cashdesk/internal/infrastructure/redis"
	"github.com/iho/cashdesk/internal/usecase"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal().Err(err).Msg("failed to read .env")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "cashdesk",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	m := metrics.New()

	ledger, err := newLedger(cfg, m, logger)
	if err != nil {
		return err
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	logger.Info().Msg("connected to redis")

	checks := map[string]handler.Check{
		"redis": func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	}

	// Intent journal
	var journal *usecase.Journal
	if cfg.JournalEnabled {
		pool, err := openJournal(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer pool.Close()

		journal = usecase.NewJournal(
			postgresRepo.NewTxManager(pool),
			postgresRepo.NewIntentRepository(pool),
			postgresRepo.NewAuditRepository(pool),
			m,
			logger,
		).WithRetrier(postgresRepo.NewRetrier(logger))
		checks["postgres"] = pool.Ping
	}

	handlers := newHandlers(cfg, ledger, journal, redisClient, m, logger)

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go sweepLimiters(ctx, rateLimiter, 10*time.Minute, logger)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		CashierHandler:     handlers.cashier,
		ShortfallHandler:   handlers.shortfall,
		TransactionHandler: handlers.transaction,
		HealthHandler:      handler.NewHealthHandler(checks),
		IdempotencyStore:   redisRepo.NewIdempotencyStore(redisClient),
		IdempotencyTTL:     cfg.IdempotencyTTL,
		JWTManager:         jwtManager,
		RateLimiter:        rateLimiter,
		MetricsHandler:     promhttp.Handler(),
		Logger:             logger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("port", cfg.HTTPPort).
			Str("ledger_mode", cfg.LedgerMode).
			Bool("auth", cfg.AuthEnabled).
			Bool("journal", cfg.JournalEnabled).
			Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}

// remoteLedger is what the use cases need from a ledger adapter.
type remoteLedger interface {
	usecase.RemoteLedger
	usecase.PlayerDirectory
}

func newLedger(cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) (remoteLedger, error) {
	switch cfg.LedgerMode {
	case config.LedgerModeHTTP:
		return httpclient.New(httpclient.Config{
			BaseURL:     cfg.LedgerBaseURL,
			APIKey:      cfg.LedgerAPIKey,
			Timeout:     cfg.LedgerTimeout,
			ReadRetries: cfg.LedgerReadRetries,
			Metrics:     m,
			Logger:      logger,
		}), nil
	case config.LedgerModeMemory:
		logger.Warn().Msg("using in-memory ledger; balances are lost on restart")
		return memory.New(demoSeed()...), nil
	default:
		return nil, fmt.Errorf("unknown ledger mode %q", cfg.LedgerMode)
	}
}

// demoSeed opens the in-memory ledger with a float and a few players.
func demoSeed() []memory.Option {
	return []memory.Option{
		memory.WithWallets(domain.WalletState{
			PrimaryFloatAvailable:  decimal.NewFromInt(200000),
			SecondaryWalletBalance: decimal.NewFromInt(25000),
		}),
		memory.WithPlayer(
			domain.Player{ID: "P-1001", Name: "Demo Regular", Phone: "9876543210"},
			memory.Account{ChipBalance: decimal.NewFromInt(15000), CanCashOut: true},
		),
		memory.WithPlayer(
			domain.Player{ID: "P-1002", Name: "Demo Credit", Phone: "9123456780"},
			memory.Account{
				ChipBalance:       decimal.NewFromInt(8000),
				OutstandingCredit: decimal.NewFromInt(3000),
				CanCashOut:        true,
			},
		),
		memory.WithPlayer(
			domain.Player{ID: "P-9001", Name: "House Player", Phone: "9000000001", IsHousePlayer: true},
			memory.Account{ChipBalance: decimal.NewFromInt(50000), CanCashOut: true},
		),
	}
}

func openJournal(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*pgxpool.Pool, error) {
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
		ConnTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info().Msg("connected to postgres")
	return pool, nil
}

type handlers struct {
	cashier     *handler.CashierHandler
	shortfall   *handler.ShortfallHandler
	transaction *handler.TransactionHandler
}

func newHandlers(
	cfg *config.Config,
	ledger remoteLedger,
	journal *usecase.Journal,
	redisClient *goredis.Client,
	m *metrics.Metrics,
	logger zerolog.Logger,
) handlers {
	idGen := postgresRepo.NewULIDGenerator()
	proposals := redisRepo.NewShortfallStore(redisClient)

	views := usecase.NewLedgerViewUseCase(ledger, redisRepo.NewCache(redisClient), cfg.BalanceCacheTTL, m, logger)
	cashier := usecase.NewCashierUseCase(ledger, ledger, views, journal, proposals, cfg.ShortfallProposalTTL, idGen, m, logger)
	shortfalls := usecase.NewShortfallUseCase(cashier, proposals, cfg.ShortfallProposalTTL, idGen, logger)
	reversals := usecase.NewReversalUseCase(ledger, views, journal, idGen, m, logger)

	return handlers{
		cashier:     handler.NewCashierHandler(cashier),
		shortfall:   handler.NewShortfallHandler(shortfalls),
		transaction: handler.NewTransactionHandler(views, reversals),
	}
}

// sweepLimiters drops terminals idle for a full interval.
func sweepLimiters(ctx context.Context, rl *middleware.RateLimiter, every time.Duration, logger zerolog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.Sweep(every); n > 0 {
				logger.Debug().Int("terminals", n).Msg("swept idle rate limiters")
			}
		}
	}
}

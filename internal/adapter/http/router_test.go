package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/cashdesk/internal/adapter/http/handler"
	apimiddleware "github.com/iho/cashdesk/internal/adapter/http/middleware"
	"github.com/iho/cashdesk/internal/domain"
	"github.com/iho/cashdesk/internal/infrastructure/auth"
	"github.com/iho/cashdesk/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header to be set")
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"target":"4100"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/preview/autofill", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
	if !store.updateCalled {
		t.Fatalf("expected successful response to be stored, got status %d", rec.Code)
	}
}

func TestNewRouter_AuthEnforcesRoles(t *testing.T) {
	jwtManager := auth.NewJWTManager("router-test-secret", time.Hour)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.JWTManager = jwtManager
	}))

	token := func(role domain.Role) string {
		tok, err := jwtManager.Generate(&domain.Operator{ID: "op-" + string(role), Role: role})
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		return tok
	}

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"missing token", http.MethodGet, "/api/v1/wallets", "", http.StatusUnauthorized},
		{"viewer reads wallets", http.MethodGet, "/api/v1/wallets", token(domain.RoleViewer), http.StatusOK},
		{"viewer cannot pay out", http.MethodPost, "/api/v1/cash-payouts", token(domain.RoleViewer), http.StatusForbidden},
		{"cashier cannot reverse", http.MethodPost, "/api/v1/transactions/tx-1/reverse", token(domain.RoleCashier), http.StatusForbidden},
		{"cashier cannot top up float", http.MethodPost, "/api/v1/float/top-ups", token(domain.RoleCashier), http.StatusForbidden},
		{"health stays public", http.MethodGet, "/health", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{}`))
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.MetricsHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		})
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "# metrics" {
		t.Fatalf("expected metrics handler to serve /metrics, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/preview/breakdown",
		"POST /api/v1/preview/autofill",
		"POST /api/v1/preview/cash-payout",
		"POST /api/v1/preview/expense",
		"POST /api/v1/cash-payouts",
		"POST /api/v1/expenses",
		"POST /api/v1/deposits",
		"POST /api/v1/chip-returns",
		"POST /api/v1/float/top-ups",
		"GET /api/v1/shortfalls/{id}",
		"POST /api/v1/shortfalls/{id}/top-up",
		"POST /api/v1/shortfalls/{id}/resubmit",
		"GET /api/v1/transactions/{id}",
		"POST /api/v1/transactions/{id}/reverse",
		"GET /api/v1/players/{id}/balance",
		"GET /api/v1/players/{id}/transactions",
		"GET /api/v1/wallets",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		HealthHandler:      handler.NewHealthHandler(nil),
		CashierHandler:     handler.NewCashierHandler(stubCashierService{}),
		ShortfallHandler:   handler.NewShortfallHandler(stubShortfallService{}),
		TransactionHandler: handler.NewTransactionHandler(stubLedgerViewService{}, stubReversalService{}),
		Logger:             zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubCashierService struct{}

func (stubCashierService) PreviewBreakdown(b domain.ChipBreakdown, declared decimal.Decimal) domain.BreakdownCheck {
	return domain.CheckBreakdown(b, declared)
}

func (stubCashierService) AutoFill(target decimal.Decimal) (domain.AutoFillResult, error) {
	return domain.AutoFill(target), nil
}

func (stubCashierService) PreviewCashPayout(ctx context.Context, input usecase.CashPayoutInput) (*usecase.CashPayoutPreview, error) {
	return nil, domain.ErrPlayerNotFound
}

func (stubCashierService) PreviewExpense(ctx context.Context, amount decimal.Decimal) *usecase.ExpensePreview {
	return &usecase.ExpensePreview{Wallets: &domain.WalletSnapshot{}}
}

func (stubCashierService) SubmitCashPayout(ctx context.Context, input usecase.CashPayoutInput) (*usecase.CashPayoutResult, error) {
	return nil, domain.ErrPlayerNotFound
}

func (stubCashierService) SubmitExpense(ctx context.Context, input usecase.ExpenseInput) (*usecase.ExpenseResult, error) {
	return nil, domain.ErrRemoteUnavailable
}

func (stubCashierService) SubmitDeposit(ctx context.Context, input usecase.DepositInput) (*domain.DepositReceipt, error) {
	return nil, domain.ErrRemoteUnavailable
}

func (stubCashierService) SubmitReturnChips(ctx context.Context, input usecase.ReturnChipsInput) (*domain.ReturnChipsReceipt, error) {
	return nil, domain.ErrRemoteUnavailable
}

func (stubCashierService) AddFloat(ctx context.Context, input usecase.FloatTopUpInput) (*domain.FloatTopUpReceipt, error) {
	return nil, domain.ErrRemoteUnavailable
}

type stubShortfallService struct{}

func (stubShortfallService) Get(ctx context.Context, id string) (*domain.ShortfallProposal, error) {
	return nil, domain.ErrProposalNotFound
}

func (stubShortfallService) ConfirmTopUp(ctx context.Context, id string, amount decimal.Decimal, note string) (*usecase.TopUpResult, error) {
	return nil, domain.ErrProposalNotFound
}

func (stubShortfallService) Resubmit(ctx context.Context, id string, confirmed bool) (*usecase.CashPayoutResult, error) {
	return nil, domain.ErrProposalNotFound
}

type stubReversalService struct{}

func (stubReversalService) Reverse(ctx context.Context, input usecase.ReverseInput) (*domain.ReversalReceipt, error) {
	return nil, domain.ErrTransactionNotFound
}

type stubLedgerViewService struct{}

func (stubLedgerViewService) ChipBalance(ctx context.Context, playerID string) (*domain.PlayerLedgerState, error) {
	return nil, domain.ErrPlayerNotFound
}

func (stubLedgerViewService) WalletState(ctx context.Context) *domain.WalletSnapshot {
	return &domain.WalletSnapshot{Known: true}
}

func (stubLedgerViewService) History(ctx context.Context, filter domain.TransactionFilter) *usecase.History {
	return &usecase.History{}
}

func (stubLedgerViewService) Transaction(ctx context.Context, id string) (*usecase.ClassifiedTransaction, error) {
	return nil, domain.ErrTransactionNotFound
}

type stubIdempotencyStore struct {
	checkCalled  bool
	updateCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.updateCalled = true
	return nil
}

func (s *stubIdempotencyStore) Release(ctx context.Context, key string) error {
	return nil
}

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashdesk/internal/adapter/http/middleware"
	"github.com/iho/cashdesk/internal/domain"
	"github.com/iho/cashdesk/internal/infrastructure/auth"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPreviewCommands(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
		wantErr  bool
	}{
		{
			name:     "breakdown matches",
			args:     []string{"preview", "breakdown", "--chips", "5000=2,500=3", "--declared", "11500"},
			contains: []string{"Total:      11500.00", "Difference: 0.00", "Breakdown OK"},
		},
		{
			name:     "breakdown mismatch",
			args:     []string{"preview", "breakdown", "--chips", "1000=1", "--declared", "1500"},
			contains: []string{"Difference: -500.00"},
			wantErr:  true,
		},
		{
			name:     "autofill skips the 1000 chip",
			args:     []string{"preview", "autofill", "--target", "16650"},
			contains: []string{"10000", "5000", "Remainder:  50.00"},
		},
		{
			name:    "autofill refuses targets above the operation limit",
			args:    []string{"preview", "autofill", "--target", "1000000000000000000000000"},
			wantErr: true,
		},
		{
			name:     "settle repays credit first",
			args:     []string{"preview", "settle", "--total", "6000", "--credit", "2000"},
			contains: []string{"Credit settled:    2000.00", "Cash payout:       4000.00", "Credit remaining:  0.00"},
		},
		{
			name:     "allocate drains secondary first",
			args:     []string{"preview", "allocate", "--amount", "1500", "--float", "5000", "--secondary", "1000"},
			contains: []string{"secondary", "1000.00", "primary", "500.00"},
		},
		{
			name:     "allocate reports shortfall",
			args:     []string{"preview", "allocate", "--amount", "9000", "--float", "5000", "--secondary", "1000"},
			contains: []string{"Shortfall: 3000.00"},
			wantErr:  true,
		},
		{
			name:    "negative amount rejected",
			args:    []string{"preview", "settle", "--total", "-1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestPayoutCommand(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/cash-payouts", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(middleware.IdempotencyKeyHeader))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"transaction_id":"tx-1"}`))
	}))
	defer srv.Close()

	out, err := execute(t, "--url", srv.URL, "--token", "tok",
		"payout", "--player", "P-1001", "--total", "5500", "--chips", "5000=1,500=1")
	require.NoError(t, err)

	assert.Contains(t, out, `"transaction_id": "tx-1"`)
	assert.Equal(t, "P-1001", got["player_id"])
	assert.Equal(t, "5500", got["total_value"])
	assert.Equal(t, map[string]any{"5000": float64(1), "500": float64(1)}, got["breakdown"])
}

func TestPayoutCommandRequiresPlayer(t *testing.T) {
	_, err := execute(t, "payout", "--total", "100")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--player or --phone")
}

func TestReverseCommandSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/transactions/tx-9/reverse", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"transaction already reversed"}`))
	}))
	defer srv.Close()

	_, err := execute(t, "--url", srv.URL, "reverse", "tx-9", "--reason", "duplicate_entry")
	require.Error(t, err)

	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Contains(t, err.Error(), "already reversed")
}

func TestBalanceCommandPaths(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		assert.Empty(t, r.Header.Get(middleware.IdempotencyKeyHeader))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := execute(t, "--url", srv.URL, "balance", "P-1001")
	require.NoError(t, err)
	_, err = execute(t, "--url", srv.URL, "balance")
	require.NoError(t, err)

	assert.Equal(t, []string{"/api/v1/players/P-1001/balance", "/api/v1/wallets"}, paths)
}

func TestHistoryCommandQuery(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/players/P-1002/transactions", r.URL.Path)
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"transactions":[],"summary":{"inflow":"0.00","outflow":"0.00","net":"0.00","count":0}}`))
	}))
	defer srv.Close()

	out, err := execute(t, "--url", srv.URL, "history", "P-1002", "--limit", "20", "--type", "cash_payout,settle_credit")
	require.NoError(t, err)

	assert.Equal(t, "limit=20&type=cash_payout%2Csettle_credit", query)
	assert.Contains(t, out, `"summary"`)
}

func TestTokenCommand(t *testing.T) {
	out, err := execute(t, "token", "--secret", "s3cret", "--operator", "op-7", "--role", "supervisor")
	require.NoError(t, err)

	claims, err := auth.NewJWTManager("s3cret", time.Hour).Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "op-7", claims.OperatorID)
	assert.Equal(t, domain.RoleSupervisor, claims.Role)

	_, err = execute(t, "token", "--secret", "s3cret", "--operator", "op-7", "--role", "janitor")
	assert.Error(t, err)
}

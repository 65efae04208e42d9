package dto

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/cashdesk/internal/domain"
	"github.com/iho/cashdesk/internal/usecase"
)

func TestCashPayoutRequest_ToUseCaseInput(t *testing.T) {
	tests := []struct {
		name      string
		request   *CashPayoutRequest
		want      usecase.CashPayoutInput
		expectErr error
	}{
		{
			name: "valid with breakdown",
			request: &CashPayoutRequest{
				PlayerFields:           PlayerFields{Phone: "9876543210"},
				Breakdown:              map[string]int64{"500": 2, "100": 1},
				TotalValue:             "1100",
				CEOPermissionConfirmed: true,
			},
			want: usecase.CashPayoutInput{
				Player:                 usecase.PlayerRef{Phone: "9876543210"},
				Breakdown:              domain.ChipBreakdown{domain.Denom500: 2, domain.Denom100: 1},
				TotalValue:             decimal.RequireFromString("1100"),
				CEOPermissionConfirmed: true,
			},
		},
		{
			name:      "invalid amount",
			request:   &CashPayoutRequest{PlayerFields: PlayerFields{PlayerID: "p-1"}, TotalValue: "abc"},
			expectErr: domain.ErrInvalidAmount,
		},
		{
			name:      "missing amount",
			request:   &CashPayoutRequest{PlayerFields: PlayerFields{PlayerID: "p-1"}},
			expectErr: domain.ErrInvalidAmount,
		},
		{
			name: "unknown denomination",
			request: &CashPayoutRequest{
				PlayerFields: PlayerFields{PlayerID: "p-1"},
				Breakdown:    map[string]int64{"250": 1},
				TotalValue:   "250",
			},
			expectErr: domain.ErrUnknownDenomination,
		},
		{
			name: "negative count",
			request: &CashPayoutRequest{
				PlayerFields: PlayerFields{PlayerID: "p-1"},
				Breakdown:    map[string]int64{"500": -1},
				TotalValue:   "500",
			},
			expectErr: domain.ErrNegativeChipCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.request.ToUseCaseInput()
			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Fatalf("expected %v, got %v", tt.expectErr, err)
				}
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("expected a validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Player != tt.want.Player || !got.TotalValue.Equal(tt.want.TotalValue) || got.CEOPermissionConfirmed != tt.want.CEOPermissionConfirmed {
				t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, tt.want)
			}
			if !got.Breakdown.Total().Equal(tt.want.Breakdown.Total()) {
				t.Fatalf("breakdown total %s, want %s", got.Breakdown.Total(), tt.want.Breakdown.Total())
			}
		})
	}
}

func TestDepositRequest_NormalizesKind(t *testing.T) {
	req := &DepositRequest{PlayerFields: PlayerFields{PlayerID: "p-1"}, Kind: " Chips ", Amount: "500"}

	got, err := req.ToUseCaseInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != domain.DepositChips {
		t.Fatalf("expected kind chips, got %q", got.Kind)
	}
}

func TestExpenseRequest_ToUseCaseInput(t *testing.T) {
	got, err := (&ExpenseRequest{Amount: "250.50", Description: "Tea", Category: "food"}).ToUseCaseInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Amount.Equal(decimal.RequireFromString("250.5")) || got.Category != "food" {
		t.Fatalf("unexpected input: %+v", got)
	}
}

func TestBreakdownPreviewRequest_Parse(t *testing.T) {
	b, declared, err := (&BreakdownPreviewRequest{
		Breakdown:      map[string]int64{"5000": 1},
		DeclaredAmount: "5000",
	}).Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.Total().Equal(declared) {
		t.Fatalf("expected totals to match, got %s vs %s", b.Total(), declared)
	}
}

func TestReverseRequest_ToUseCaseInput(t *testing.T) {
	got := (&ReverseRequest{Reason: " other ", Note: "typo"}).ToUseCaseInput("tx-1")

	want := usecase.ReverseInput{TransactionID: "tx-1", Reason: domain.ReasonOther, Note: "typo"}
	if got != want {
		t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, want)
	}
}

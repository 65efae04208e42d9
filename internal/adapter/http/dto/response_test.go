package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashdesk/internal/domain"
	"github.com/iho/cashdesk/internal/usecase"
)

func TestTransactionFromUseCase(t *testing.T) {
	now := time.Now()
	player := "p-1"
	reversedBy := "rev-1"
	tx := &domain.Transaction{
		ID:         "tx-1",
		Type:       domain.TxCashPayout,
		Amount:     decimal.RequireFromString("1500"),
		Breakdown:  domain.ChipBreakdown{domain.Denom1000: 1, domain.Denom500: 1, domain.Denom100: 0},
		PlayerID:   &player,
		WalletFrom: domain.WalletPrimary,
		Status:     domain.StatusReversed,
		ReversedBy: &reversedBy,
		CreatedAt:  now,
	}

	resp := TransactionFromUseCase(&usecase.ClassifiedTransaction{
		Transaction:    tx,
		Classification: domain.ClassifyTransaction(tx),
	})

	if resp.Amount != "1500.00" || resp.Status != "reversed" || resp.Direction != "outflow" {
		t.Fatalf("unexpected transaction response: %+v", resp)
	}
	if len(resp.Breakdown) != 2 || resp.Breakdown["1000"] != 1 {
		t.Fatalf("expected zero counts dropped, got %v", resp.Breakdown)
	}
	if resp.ReversedBy == nil || *resp.ReversedBy != reversedBy {
		t.Fatalf("expected reversed_by to be carried")
	}
}

func TestShortfallProposalFromDomain(t *testing.T) {
	p := &domain.ShortfallProposal{
		ID:            "sp-1",
		State:         domain.ProposalAwaitingTopUp,
		RequiredTopUp: decimal.RequireFromString("4000"),
		Payout: domain.CashPayoutIntent{
			PlayerID:   "p-1",
			TotalValue: decimal.RequireFromString("5000"),
			Settlement: domain.SettleCredit(decimal.RequireFromString("5000"), decimal.Zero),
		},
	}

	resp := ShortfallProposalFromDomain(p)
	if resp.RequiredTopUp != "4000.00" || resp.NetCashPayout != "5000.00" || resp.State != "awaiting_top_up" {
		t.Fatalf("unexpected proposal response: %+v", resp)
	}
}

func TestHistoryFromUseCase(t *testing.T) {
	h := &usecase.History{
		Entries: []usecase.ClassifiedTransaction{
			{Transaction: &domain.Transaction{ID: "a", Type: domain.TxAddFloat, Amount: decimal.NewFromInt(100)}},
		},
		Summary: domain.LedgerSummary{Inflow: decimal.NewFromInt(100), Outflow: decimal.Zero, Net: decimal.NewFromInt(100), Count: 1},
		Limit:   50,
		Known:   true,
	}

	resp := HistoryFromUseCase(h)
	if len(resp.Transactions) != 1 || resp.Summary.Net != "100.00" || !resp.Known {
		t.Fatalf("unexpected history response: %+v", resp)
	}
}

func TestAllocationFromDomain(t *testing.T) {
	a := domain.AllocateExpense(decimal.NewFromInt(1000), domain.WalletState{
		PrimaryFloatAvailable:  decimal.NewFromInt(5000),
		SecondaryWalletBalance: decimal.NewFromInt(400),
	})

	resp := AllocationFromDomain(a)
	if !resp.Valid || len(resp.Draws) != 2 {
		t.Fatalf("unexpected allocation response: %+v", resp)
	}
	if resp.Draws[0].Wallet != domain.WalletSecondary || resp.Draws[0].Amount != "400.00" {
		t.Fatalf("expected secondary wallet drawn first, got %+v", resp.Draws[0])
	}
}

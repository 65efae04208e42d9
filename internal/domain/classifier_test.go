package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		txType    TransactionType
		activity  ActivityType
		notes     string
		direction Direction
		label     string
	}{
		{name: "buy-in", txType: TxBuyIn, direction: DirectionInflow, label: "Buy-in"},
		{name: "credit settlement", txType: TxSettleCredit, direction: DirectionInflow, label: "Credit Settlement"},
		{name: "float added", txType: TxAddFloat, direction: DirectionInflow, label: "Float Added"},
		{name: "cash payout", txType: TxCashPayout, direction: DirectionOutflow, label: "Cash Payout"},
		{name: "credit issued", txType: TxCreditIssued, direction: DirectionOutflow, label: "Credit Issued"},
		{name: "chips returned", txType: TxReturnChips, direction: DirectionOutflow, label: "Chips Returned"},
		{name: "dealer tip on cash payout", txType: TxCashPayout, activity: ActivityDealerTip, direction: DirectionInflow, label: "Dealer Tip"},
		{name: "player expense on returned chips", txType: TxReturnChips, activity: ActivityPlayerExpense, direction: DirectionInflow, label: "Player Expense"},
		{name: "rakeback activity on buy-in", txType: TxBuyIn, activity: ActivityRakeback, direction: DirectionOutflow, label: "Rakeback"},
		{name: "rakeback type", txType: TxRakeback, direction: DirectionOutflow, label: "Rakeback"},
		{name: "club expense with category", txType: TxExpense, activity: ActivityClubExpense, notes: "[Food] tea for dealers", direction: DirectionOutflow, label: "Club Expense: Food"},
		{name: "club expense with prefix category", txType: TxExpense, notes: "Category: Maintenance - AC repair", direction: DirectionOutflow, label: "Club Expense: Maintenance"},
		{name: "club expense without category", txType: TxExpense, notes: "misc", direction: DirectionOutflow, label: "Club Expense"},
		{name: "unknown type", txType: TransactionType("chip_swap"), direction: DirectionNeutral, label: "Chip Swap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.txType, tt.activity, tt.notes)

			if c.Direction != tt.direction {
				t.Errorf("direction: expected %s, got %s", tt.direction, c.Direction)
			}
			if c.IsInflow != (tt.direction == DirectionInflow) {
				t.Errorf("IsInflow out of sync with direction %s", c.Direction)
			}
			if c.Label != tt.label {
				t.Errorf("label: expected %q, got %q", tt.label, c.Label)
			}
			if c.IconClass == "" {
				t.Errorf("expected an icon class")
			}
		})
	}
}

func TestClassify_EveryKnownTypeHasDirection(t *testing.T) {
	types := []TransactionType{
		TxBuyIn, TxSettleCredit, TxAddFloat, TxDepositCash, TxDepositChips, TxOpeningChips,
		TxRedeemStored, TxCashPayout, TxCreditIssued, TxReturnChips, TxExpense, TxRakeback,
	}
	for _, typ := range types {
		if c := Classify(typ, ActivityNone, ""); c.Direction == DirectionNeutral {
			t.Errorf("%s classified as neutral", typ)
		}
	}
}

func TestClassifyTransaction_Reversal(t *testing.T) {
	originalID := "tx-1"
	entry := &Transaction{ID: "tx-2", Type: TxCashPayout, Amount: decimal.NewFromInt(-500), ReversalOf: &originalID}

	c := ClassifyTransaction(entry)
	if c.Label != "Reversal: Cash Payout" {
		t.Fatalf("unexpected label %q", c.Label)
	}
	if c.Direction != DirectionOutflow {
		t.Fatalf("expected reversal entry to keep its type's direction, got %s", c.Direction)
	}
}

func TestSummarize(t *testing.T) {
	originalID := "tx-2"
	transactions := []*Transaction{
		{ID: "tx-1", Type: TxBuyIn, Amount: decimal.NewFromInt(10000)},
		{ID: "tx-2", Type: TxCashPayout, Amount: decimal.NewFromInt(3000), Status: StatusReversed},
		{ID: "tx-3", Type: TxCashPayout, Amount: decimal.NewFromInt(-3000), ReversalOf: &originalID},
		{ID: "tx-4", Type: TxExpense, Amount: decimal.NewFromInt(500), Notes: "[Food] snacks"},
		{ID: "tx-5", Type: TransactionType("adjustment"), Amount: decimal.NewFromInt(42)},
	}

	s := Summarize(transactions)

	if s.Count != 5 {
		t.Errorf("expected count 5, got %d", s.Count)
	}
	if !s.Inflow.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("expected inflow 10000, got %s", s.Inflow)
	}
	if !s.Outflow.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected reversed payout to net out leaving outflow 500, got %s", s.Outflow)
	}
	if !s.Net.Equal(decimal.NewFromInt(9500)) {
		t.Errorf("expected net 9500, got %s", s.Net)
	}
}

func TestExpenseNotesRoundTrip(t *testing.T) {
	notes := ExpenseNotes("Transport", "cab for staff")
	if notes != "[Transport] cab for staff" {
		t.Fatalf("unexpected notes %q", notes)
	}
	if got := ExpenseCategory(notes); got != "Transport" {
		t.Fatalf("expected Transport, got %q", got)
	}
	if got := ExpenseNotes("", " plain "); got != "plain" {
		t.Fatalf("expected uncategorized notes to be the description, got %q", got)
	}
}

package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newPayout() *Transaction {
	player := "player-1"
	return &Transaction{
		ID:         "tx-1",
		Type:       TxCashPayout,
		Amount:     decimal.NewFromInt(5000),
		Breakdown:  ChipBreakdown{Denom5000: 1},
		PlayerID:   &player,
		WalletFrom: WalletPrimary,
		WalletTo:   "player",
		Status:     StatusActive,
		CreatedAt:  time.Now().Add(-time.Hour),
	}
}

func TestTransaction_Reverse(t *testing.T) {
	original := newPayout()
	now := time.Now()

	transition, err := original.Reverse("tx-2", ReasonWrongAmount, "", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if original.Status != StatusActive || original.ReversedBy != nil {
		t.Fatalf("Reverse must not mutate the receiver")
	}

	locked := transition.Original
	if locked.Status != StatusReversed {
		t.Errorf("expected original locked as reversed, got %s", locked.Status)
	}
	if locked.ReversedBy == nil || *locked.ReversedBy != "tx-2" {
		t.Errorf("expected original to point at the entry")
	}

	entry := transition.Entry
	if entry.Type != original.Type {
		t.Errorf("expected entry type %s, got %s", original.Type, entry.Type)
	}
	if !entry.Amount.Equal(decimal.NewFromInt(-5000)) {
		t.Errorf("expected negated amount, got %s", entry.Amount)
	}
	if entry.WalletFrom != original.WalletFrom || entry.WalletTo != original.WalletTo {
		t.Errorf("expected original wallets kept, got %s -> %s", entry.WalletFrom, entry.WalletTo)
	}
	if entry.ReversalOf == nil || *entry.ReversalOf != "tx-1" {
		t.Errorf("expected entry to reference the original")
	}
	if !entry.CreatedAt.Equal(now) {
		t.Errorf("expected entry created at %v", now)
	}
	if !entry.Amount.Add(original.Amount).IsZero() {
		t.Errorf("expected pair to net to zero")
	}
}

func TestTransaction_ReverseRejections(t *testing.T) {
	t.Run("already reversed", func(t *testing.T) {
		tx := newPayout()
		tx.Status = StatusReversed

		_, err := tx.Reverse("tx-2", ReasonDuplicateEntry, "", time.Now())
		if !errors.Is(err, ErrTransactionAlreadyReversed) {
			t.Fatalf("expected ErrTransactionAlreadyReversed, got %v", err)
		}
	})

	t.Run("compensating entry", func(t *testing.T) {
		tx := newPayout()
		ref := "tx-0"
		tx.ReversalOf = &ref

		_, err := tx.Reverse("tx-2", ReasonDuplicateEntry, "", time.Now())
		if !errors.Is(err, ErrTransactionAlreadyReversed) {
			t.Fatalf("expected ErrTransactionAlreadyReversed, got %v", err)
		}
	})

	t.Run("missing reason", func(t *testing.T) {
		_, err := newPayout().Reverse("tx-2", "", "", time.Now())
		if !errors.Is(err, ErrReversalReasonRequired) {
			t.Fatalf("expected ErrReversalReasonRequired, got %v", err)
		}
	})
}

func TestValidateReversalReason(t *testing.T) {
	tests := []struct {
		reason    ReversalReason
		note      string
		expectErr error
	}{
		{reason: ReasonWrongPlayer},
		{reason: ReasonCustomerDispute, note: "player disputes count"},
		{reason: ReasonOther, note: "cage miscount"},
		{reason: ReasonOther, note: "  ", expectErr: ErrNoteRequired},
		{reason: "", expectErr: ErrReversalReasonRequired},
		{reason: "because", expectErr: ErrInvalidReversalReason},
	}

	for _, tt := range tests {
		err := ValidateReversalReason(tt.reason, tt.note)
		if tt.expectErr == nil {
			if err != nil {
				t.Errorf("%q: unexpected error %v", tt.reason, err)
			}
			continue
		}
		if !errors.Is(err, tt.expectErr) {
			t.Errorf("%q: expected %v, got %v", tt.reason, tt.expectErr, err)
		}
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%q: expected a validation error", tt.reason)
		}
	}

	for _, r := range ReversalReasons() {
		if r.Label() == "" {
			t.Errorf("reason %s has no label", r)
		}
	}
}

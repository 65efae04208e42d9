package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of value movement a record describes.
type TransactionType string

const (
	TxBuyIn        TransactionType = "buy_in"
	TxSettleCredit TransactionType = "settle_credit"
	TxAddFloat     TransactionType = "add_float"
	TxDepositCash  TransactionType = "deposit_cash"
	TxDepositChips TransactionType = "deposit_chips"
	TxOpeningChips TransactionType = "opening_chips"
	TxRedeemStored TransactionType = "redeem_stored"
	TxCashPayout   TransactionType = "cash_payout"
	TxCreditIssued TransactionType = "credit_issued"
	TxReturnChips  TransactionType = "return_chips"
	TxExpense      TransactionType = "expense"
	TxRakeback     TransactionType = "rakeback"
)

// ActivityType refines a transaction with what actually happened at the table.
type ActivityType string

const (
	ActivityNone          ActivityType = ""
	ActivityDealerTip     ActivityType = "dealer_tip"
	ActivityPlayerExpense ActivityType = "player_expense"
	ActivityClubExpense   ActivityType = "club_expense"
	ActivityRakeback      ActivityType = "rakeback"
)

// TransactionStatus is the lifecycle state of a committed record.
type TransactionStatus string

const (
	StatusActive   TransactionStatus = "active"
	StatusReversed TransactionStatus = "reversed"
)

// Transaction is an immutable-once-committed record of value movement.
type Transaction struct {
	ID           string
	Type         TransactionType
	ActivityType ActivityType
	Amount       decimal.Decimal
	Breakdown    ChipBreakdown
	PlayerID     *string
	WalletFrom   string
	WalletTo     string
	Notes        string
	Status       TransactionStatus
	Edited       bool
	ReversalOf   *string
	ReversedBy   *string
	CreatedAt    time.Time
}

// IsReversed reports whether the record has been locked by a reversal.
func (t *Transaction) IsReversed() bool {
	return t.Status == StatusReversed
}

// IsReversal reports whether the record is itself a compensating entry.
func (t *Transaction) IsReversal() bool {
	return t.ReversalOf != nil
}

// CanReverse returns nil if the record may be reversed.
func (t *Transaction) CanReverse() error {
	if t.IsReversed() {
		return ErrTransactionAlreadyReversed
	}
	if t.IsReversal() {
		return fmt.Errorf("%w: compensating entries cannot be reversed", ErrTransactionAlreadyReversed)
	}
	return nil
}

// ReversalReason is drawn from a fixed taxonomy.
type ReversalReason string

const (
	ReasonWrongAmount     ReversalReason = "wrong_amount"
	ReasonWrongPlayer     ReversalReason = "wrong_player"
	ReasonDuplicateEntry  ReversalReason = "duplicate_entry"
	ReasonWrongType       ReversalReason = "wrong_transaction_type"
	ReasonCustomerDispute ReversalReason = "customer_dispute"
	ReasonOther           ReversalReason = "other"
)

var reversalReasons = map[ReversalReason]string{
	ReasonWrongAmount:     "Wrong amount entered",
	ReasonWrongPlayer:     "Entered against wrong player",
	ReasonDuplicateEntry:  "Duplicate entry",
	ReasonWrongType:       "Wrong transaction type",
	ReasonCustomerDispute: "Customer dispute",
	ReasonOther:           "Other",
}

// ReversalReasons returns the taxonomy in display order.
func ReversalReasons() []ReversalReason {
	return []ReversalReason{
		ReasonWrongAmount, ReasonWrongPlayer, ReasonDuplicateEntry,
		ReasonWrongType, ReasonCustomerDispute, ReasonOther,
	}
}

// Label returns the operator-facing description.
func (r ReversalReason) Label() string {
	return reversalReasons[r]
}

// ValidateReversalReason checks the reason against the taxonomy. The catch-all
// reason needs a note explaining it.
func ValidateReversalReason(reason ReversalReason, note string) error {
	if strings.TrimSpace(string(reason)) == "" {
		return NewValidationError("reason", ErrReversalReasonRequired)
	}
	if _, ok := reversalReasons[reason]; !ok {
		return NewValidationError("reason", fmt.Errorf("%w: %s", ErrInvalidReversalReason, reason))
	}
	if reason == ReasonOther && strings.TrimSpace(note) == "" {
		return NewValidationError("note", ErrNoteRequired)
	}
	return nil
}

// ReversalTransition is the outcome of reversing a record: the locked original
// and its compensating entry. The caller decides how to persist both.
type ReversalTransition struct {
	Original *Transaction
	Entry    *Transaction
}

// Reverse builds the transition for t without mutating it. The entry keeps
// the original type and wallets, negates the amount and points back at the
// original.
func (t *Transaction) Reverse(entryID string, reason ReversalReason, note string, now time.Time) (*ReversalTransition, error) {
	if err := t.CanReverse(); err != nil {
		return nil, err
	}
	if err := ValidateReversalReason(reason, note); err != nil {
		return nil, err
	}

	locked := *t
	locked.Status = StatusReversed
	locked.ReversedBy = &entryID

	originalID := t.ID
	notes := fmt.Sprintf("Reversal of %s: %s", t.ID, reason.Label())
	if strings.TrimSpace(note) != "" {
		notes += " - " + strings.TrimSpace(note)
	}

	entry := &Transaction{
		ID:           entryID,
		Type:         t.Type,
		ActivityType: t.ActivityType,
		Amount:       t.Amount.Neg(),
		Breakdown:    t.Breakdown,
		PlayerID:     t.PlayerID,
		WalletFrom:   t.WalletFrom,
		WalletTo:     t.WalletTo,
		Notes:        notes,
		Status:       StatusActive,
		ReversalOf:   &originalID,
		CreatedAt:    now,
	}

	return &ReversalTransition{Original: &locked, Entry: entry}, nil
}

// TransactionFilter narrows history reads.
type TransactionFilter struct {
	PlayerID string
	Types    []TransactionType
	Since    *time.Time
	Limit    int
	Offset   int
}

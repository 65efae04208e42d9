package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operation names a cashier operation submitted to the remote ledger.
type Operation string

const (
	OpCashPayout  Operation = "cash_payout"
	OpExpense     Operation = "expense"
	OpDeposit     Operation = "deposit"
	OpReturnChips Operation = "return_chips"
	OpAddFloat    Operation = "add_float"
	OpReversal    Operation = "reversal"
)

// CashPayoutIntent asks the ledger to take back chips, settle credit and pay cash.
type CashPayoutIntent struct {
	IntentID               string
	PlayerID               string
	Breakdown              ChipBreakdown
	TotalValue             decimal.Decimal
	CEOPermissionConfirmed bool
	Settlement             CreditSettlement
}

// CashPayoutReceipt is the ledger's confirmation of a committed payout.
type CashPayoutReceipt struct {
	TransactionID string
	CreditSettled decimal.Decimal
	NetCashPaid   decimal.Decimal
}

// ExpenseIntent funds a house expense.
type ExpenseIntent struct {
	IntentID    string
	Amount      decimal.Decimal
	Description string
	Category    string
}

// Notes is the free-text note recorded on the expense transaction.
func (i ExpenseIntent) Notes() string {
	return ExpenseNotes(i.Category, i.Description)
}

// ExpenseReceipt reports how the ledger split the expense across wallets.
type ExpenseReceipt struct {
	TransactionID string
	SecondaryDraw decimal.Decimal
	PrimaryDraw   decimal.Decimal
}

// DepositKind is what a player deposits.
type DepositKind string

const (
	DepositChips DepositKind = "chips"
	DepositCash  DepositKind = "cash"
)

// IsValid reports whether k is a known deposit kind.
func (k DepositKind) IsValid() bool {
	return k == DepositChips || k == DepositCash
}

// DepositIntent banks chips or cash on a player's account.
type DepositIntent struct {
	IntentID  string
	PlayerID  string
	Kind      DepositKind
	Amount    decimal.Decimal
	Breakdown ChipBreakdown
}

// DepositReceipt carries the player's new stored balance.
type DepositReceipt struct {
	TransactionID    string
	NewStoredBalance decimal.Decimal
}

// ReturnChipsIntent hands chips back to the cage without a cash payout.
type ReturnChipsIntent struct {
	IntentID  string
	PlayerID  string
	Amount    decimal.Decimal
	Breakdown ChipBreakdown
}

// ReturnChipsReceipt confirms a chip return.
type ReturnChipsReceipt struct {
	TransactionID  string
	RemainingChips decimal.Decimal
}

// FloatTopUpIntent adds cash to the operational float.
type FloatTopUpIntent struct {
	IntentID string
	Amount   decimal.Decimal
	Note     string
}

// FloatTopUpReceipt carries the new float figure.
type FloatTopUpReceipt struct {
	TransactionID     string
	NewFloatAvailable decimal.Decimal
}

// ReversalIntent requests a compensating entry for a committed transaction.
type ReversalIntent struct {
	IntentID      string
	TransactionID string
	Reason        ReversalReason
	Note          string
}

// ReversalReceipt is the ledger's confirmed reversal.
type ReversalReceipt struct {
	OriginalID      string
	OriginalStatus  TransactionStatus
	ReversalEntryID string
}

// IntentStatus tracks a journaled intent.
type IntentStatus string

const (
	IntentPending   IntentStatus = "pending"
	IntentCommitted IntentStatus = "committed"
	IntentRejected  IntentStatus = "rejected"
	IntentFailed    IntentStatus = "failed"
)

// IntentRecord is the local journal row for one submission.
type IntentRecord struct {
	ID           string
	Operation    Operation
	OperatorID   string
	PlayerID     string
	Amount       decimal.Decimal
	Payload      JSON
	Status       IntentStatus
	RemoteRef    string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package httpclient

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashdesk/internal/domain"
)

// Error codes returned by the remote ledger.
const (
	codeInsufficientCash  = "INSUFFICIENT_CASH"
	codeInsufficientChips = "INSUFFICIENT_CHIPS"
	codeInsufficientFunds = "INSUFFICIENT_FUNDS"
	codeAlreadyReversed   = "ALREADY_REVERSED"
	codePlayerNotFound    = "PLAYER_NOT_FOUND"
)

type errorBody struct {
	Code           string           `json:"code"`
	Message        string           `json:"message"`
	Error          string           `json:"error"`
	RequiredAmount *decimal.Decimal `json:"required_amount,omitempty"`
	Requested      *decimal.Decimal `json:"requested,omitempty"`
	Available      *decimal.Decimal `json:"available,omitempty"`
}

type balanceWire struct {
	PlayerID          string          `json:"player_id"`
	ChipBalance       decimal.Decimal `json:"chip_balance"`
	StoredChips       decimal.Decimal `json:"stored_chips"`
	OutstandingCredit decimal.Decimal `json:"outstanding_credit"`
	CanCashOut        bool            `json:"can_cash_out"`
}

type walletsWire struct {
	PrimaryFloatAvailable  decimal.Decimal `json:"primary_float_available"`
	SecondaryWalletBalance decimal.Decimal `json:"secondary_wallet_balance"`
}

type playerWire struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	IsHousePlayer bool   `json:"is_house_player"`
}

type cashPayoutWire struct {
	IntentID               string           `json:"intent_id"`
	PlayerID               string           `json:"player_id"`
	ChipsBreakdown         map[string]int64 `json:"chips_breakdown,omitempty"`
	TotalValue             decimal.Decimal  `json:"total_value"`
	CEOPermissionConfirmed bool             `json:"ceo_permission_confirmed"`
}

type cashPayoutReceiptWire struct {
	TransactionID string          `json:"transaction_id"`
	CreditSettled decimal.Decimal `json:"credit_settled"`
	NetCashPaid   decimal.Decimal `json:"net_cash_paid"`
}

type expenseWire struct {
	IntentID    string          `json:"intent_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Notes       string          `json:"notes"`
}

type expenseReceiptWire struct {
	TransactionID string          `json:"transaction_id"`
	SecondaryDraw decimal.Decimal `json:"secondary_draw"`
	PrimaryDraw   decimal.Decimal `json:"primary_draw"`
}

type depositWire struct {
	IntentID       string           `json:"intent_id"`
	PlayerID       string           `json:"player_id"`
	Kind           string           `json:"kind"`
	Amount         decimal.Decimal  `json:"amount"`
	ChipsBreakdown map[string]int64 `json:"chips_breakdown,omitempty"`
}

type depositReceiptWire struct {
	TransactionID    string          `json:"transaction_id"`
	NewStoredBalance decimal.Decimal `json:"new_stored_balance"`
}

type returnChipsWire struct {
	IntentID       string           `json:"intent_id"`
	PlayerID       string           `json:"player_id"`
	Amount         decimal.Decimal  `json:"amount"`
	ChipsBreakdown map[string]int64 `json:"chips_breakdown,omitempty"`
}

type returnChipsReceiptWire struct {
	TransactionID  string          `json:"transaction_id"`
	RemainingChips decimal.Decimal `json:"remaining_chips"`
}

type floatWire struct {
	IntentID string          `json:"intent_id"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note"`
}

type floatReceiptWire struct {
	TransactionID     string          `json:"transaction_id"`
	NewFloatAvailable decimal.Decimal `json:"new_float_available"`
}

type reversalWire struct {
	IntentID string `json:"intent_id"`
	Reason   string `json:"reason"`
	Note     string `json:"note,omitempty"`
}

type reversalReceiptWire struct {
	OriginalID      string `json:"original_id"`
	OriginalStatus  string `json:"original_status"`
	ReversalEntryID string `json:"reversal_entry_id"`
}

type transactionWire struct {
	ID             string           `json:"id"`
	Type           string           `json:"type"`
	ActivityType   string           `json:"activity_type,omitempty"`
	Amount         decimal.Decimal  `json:"amount"`
	ChipsBreakdown map[string]int64 `json:"chips_breakdown,omitempty"`
	PlayerID       *string          `json:"player_id,omitempty"`
	WalletFrom     string           `json:"wallet_from,omitempty"`
	WalletTo       string           `json:"wallet_to,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	Status         string           `json:"status"`
	IsEdited       bool             `json:"is_edited"`
	ReversalOf     *string          `json:"reversal_of,omitempty"`
	ReversedBy     *string          `json:"reversed_by,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

type transactionListWire struct {
	Transactions []transactionWire `json:"transactions"`
}

func (w transactionWire) toDomain() (*domain.Transaction, error) {
	breakdown, err := domain.ParseChipBreakdown(w.ChipsBreakdown)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", w.ID, err)
	}

	status := domain.TransactionStatus(w.Status)
	if status == "" {
		status = domain.StatusActive
	}

	return &domain.Transaction{
		ID:           w.ID,
		Type:         domain.TransactionType(w.Type),
		ActivityType: domain.ActivityType(w.ActivityType),
		Amount:       w.Amount,
		Breakdown:    breakdown,
		PlayerID:     w.PlayerID,
		WalletFrom:   w.WalletFrom,
		WalletTo:     w.WalletTo,
		Notes:        w.Notes,
		Status:       status,
		Edited:       w.IsEdited,
		ReversalOf:   w.ReversalOf,
		ReversedBy:   w.ReversedBy,
		CreatedAt:    w.CreatedAt,
	}, nil
}

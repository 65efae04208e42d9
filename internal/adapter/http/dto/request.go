package dto

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/cashdesk/internal/domain"
	"github.com/iho/cashdesk/internal/usecase"
)

// parseAmount parses a decimal string amount from a request field.
func parseAmount(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, domain.NewValidationError(field, domain.ErrInvalidAmount)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domain.NewValidationError(field, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, raw))
	}
	return amount, nil
}

// PlayerFields identify a player by id or phone.
type PlayerFields struct {
	PlayerID string `json:"player_id,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

func (p PlayerFields) ref() usecase.PlayerRef {
	return usecase.PlayerRef{ID: p.PlayerID, Phone: p.Phone}
}

// BreakdownPreviewRequest reconciles chip counts against a declared amount.
type BreakdownPreviewRequest struct {
	Breakdown      map[string]int64 `json:"breakdown"`
	DeclaredAmount string           `json:"declared_amount"`
}

// Parse converts the request to domain values.
func (r *BreakdownPreviewRequest) Parse() (domain.ChipBreakdown, decimal.Decimal, error) {
	breakdown, err := domain.ParseChipBreakdown(r.Breakdown)
	if err != nil {
		return nil, decimal.Zero, err
	}
	declared, err := parseAmount("declared_amount", r.DeclaredAmount)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return breakdown, declared, nil
}

// AutoFillRequest asks for the greedy breakdown of a target amount.
type AutoFillRequest struct {
	Target string `json:"target"`
}

// ExpensePreviewRequest asks for the wallet cascade of an expense.
type ExpensePreviewRequest struct {
	Amount string `json:"amount"`
}

// CashPayoutRequest represents a request to pay a player out in cash.
type CashPayoutRequest struct {
	PlayerFields
	Breakdown              map[string]int64 `json:"breakdown,omitempty"`
	TotalValue             string           `json:"total_value"`
	CEOPermissionConfirmed bool             `json:"ceo_permission_confirmed"`
}

// ToUseCaseInput converts to use case input.
func (r *CashPayoutRequest) ToUseCaseInput() (usecase.CashPayoutInput, error) {
	breakdown, err := domain.ParseChipBreakdown(r.Breakdown)
	if err != nil {
		return usecase.CashPayoutInput{}, err
	}
	total, err := parseAmount("total_value", r.TotalValue)
	if err != nil {
		return usecase.CashPayoutInput{}, err
	}
	return usecase.CashPayoutInput{
		Player:                 r.ref(),
		Breakdown:              breakdown,
		TotalValue:             total,
		CEOPermissionConfirmed: r.CEOPermissionConfirmed,
	}, nil
}

// ExpenseRequest represents a house expense.
type ExpenseRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ExpenseRequest) ToUseCaseInput() (usecase.ExpenseInput, error) {
	amount, err := parseAmount("amount", r.Amount)
	if err != nil {
		return usecase.ExpenseInput{}, err
	}
	return usecase.ExpenseInput{
		Amount:      amount,
		Description: r.Description,
		Category:    r.Category,
	}, nil
}

// DepositRequest banks chips or cash for a player.
type DepositRequest struct {
	PlayerFields
	Kind      string           `json:"kind"`
	Amount    string           `json:"amount"`
	Breakdown map[string]int64 `json:"breakdown,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *DepositRequest) ToUseCaseInput() (usecase.DepositInput, error) {
	breakdown, err := domain.ParseChipBreakdown(r.Breakdown)
	if err != nil {
		return usecase.DepositInput{}, err
	}
	amount, err := parseAmount("amount", r.Amount)
	if err != nil {
		return usecase.DepositInput{}, err
	}
	return usecase.DepositInput{
		Player:    r.ref(),
		Kind:      domain.DepositKind(strings.ToLower(strings.TrimSpace(r.Kind))),
		Amount:    amount,
		Breakdown: breakdown,
	}, nil
}

// ChipReturnRequest hands chips back without a cash payout.
type ChipReturnRequest struct {
	PlayerFields
	Amount    string           `json:"amount"`
	Breakdown map[string]int64 `json:"breakdown,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ChipReturnRequest) ToUseCaseInput() (usecase.ReturnChipsInput, error) {
	breakdown, err := domain.ParseChipBreakdown(r.Breakdown)
	if err != nil {
		return usecase.ReturnChipsInput{}, err
	}
	amount, err := parseAmount("amount", r.Amount)
	if err != nil {
		return usecase.ReturnChipsInput{}, err
	}
	return usecase.ReturnChipsInput{
		Player:    r.ref(),
		Amount:    amount,
		Breakdown: breakdown,
	}, nil
}

// TopUpRequest adds cash to the float, directly or for a shortfall proposal.
type TopUpRequest struct {
	Amount string `json:"amount"`
	Note   string `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *TopUpRequest) ToUseCaseInput() (usecase.FloatTopUpInput, error) {
	amount, err := parseAmount("amount", r.Amount)
	if err != nil {
		return usecase.FloatTopUpInput{}, err
	}
	return usecase.FloatTopUpInput{Amount: amount, Note: r.Note}, nil
}

// ResubmitRequest re-confirms a rearmed payout.
type ResubmitRequest struct {
	Confirmed bool `json:"confirmed"`
}

// ReverseRequest represents a request to reverse a committed transaction.
type ReverseRequest struct {
	Reason string `json:"reason"`
	Note   string `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ReverseRequest) ToUseCaseInput(transactionID string) usecase.ReverseInput {
	return usecase.ReverseInput{
		TransactionID: transactionID,
		Reason:        domain.ReversalReason(strings.TrimSpace(r.Reason)),
		Note:          r.Note,
	}
}

package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrValidation is matched by every local, pre-submission validation failure.
	ErrValidation = errors.New("validation failed")

	// Input errors
	ErrInvalidAmount               = errors.New("amount must be positive")
	ErrInvalidPhone                = errors.New("invalid phone number")
	ErrPlayerRequired              = errors.New("player id or phone is required")
	ErrDescriptionRequired         = errors.New("description is required")
	ErrNoteRequired                = errors.New("note is required")
	ErrNegativeChipCount           = errors.New("chip count cannot be negative")
	ErrUnknownDenomination         = errors.New("unknown chip denomination")
	ErrBreakdownMismatch           = errors.New("chip breakdown does not match declared amount")
	ErrInvalidDepositKind          = errors.New("deposit kind must be chips or cash")
	ErrHousePlayerApprovalRequired = errors.New("house player payout requires CEO permission confirmation")
	ErrReversalReasonRequired      = errors.New("reversal reason is required")
	ErrInvalidReversalReason       = errors.New("unknown reversal reason")
	ErrConfirmationRequired        = errors.New("operator confirmation is required")
	ErrTransactionIDRequired       = errors.New("transaction id is required")

	// Ledger errors
	ErrInsufficientFloat          = errors.New("insufficient cash in float")
	ErrInsufficientChips          = errors.New("insufficient chips")
	ErrInsufficientWalletFunds    = errors.New("insufficient wallet funds")
	ErrTransactionNotFound        = errors.New("transaction not found")
	ErrTransactionAlreadyReversed = errors.New("transaction already reversed")
	ErrPlayerNotFound             = errors.New("player not found")
	ErrRemoteUnavailable          = errors.New("remote ledger unavailable")
	ErrRemoteRejected             = errors.New("remote ledger rejected the request")

	// Journal errors
	ErrIntentNotFound = errors.New("intent not found")

	// Shortfall proposal errors
	ErrProposalNotFound    = errors.New("shortfall proposal not found")
	ErrProposalNotRearmed  = errors.New("shortfall proposal has not been topped up")
	ErrProposalAlreadyUsed = errors.New("shortfall proposal already topped up")
	ErrTopUpBelowRequired  = errors.New("top-up amount is below the required amount")
)

// ValidationError is a local validation failure tied to an input field.
type ValidationError struct {
	Field string
	Err   error
}

// NewValidationError wraps err as a validation failure on field.
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

// InsufficientFloatError is the remote ledger's authoritative signal that the
// float cannot cover a cash payout.
type InsufficientFloatError struct {
	RequiredAmount decimal.Decimal
	Message        string
}

func (e *InsufficientFloatError) Error() string {
	return fmt.Sprintf("%v: required %s", ErrInsufficientFloat, e.RequiredAmount.StringFixed(2))
}

func (e *InsufficientFloatError) Unwrap() error {
	return ErrInsufficientFloat
}

// InsufficientChipsError is returned when a request exceeds the player's chips.
type InsufficientChipsError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientChipsError) Error() string {
	return fmt.Sprintf("%v: requested %s, available %s",
		ErrInsufficientChips, e.Requested.StringFixed(2), e.Available.StringFixed(2))
}

func (e *InsufficientChipsError) Unwrap() error {
	return ErrInsufficientChips
}

// WalletShortfallError reports a funding requirement the wallets cannot cover.
type WalletShortfallError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
	Shortfall decimal.Decimal
}

func (e *WalletShortfallError) Error() string {
	return fmt.Sprintf("%v: requested %s, available %s, short by %s",
		ErrInsufficientWalletFunds,
		e.Requested.StringFixed(2), e.Available.StringFixed(2), e.Shortfall.StringFixed(2))
}

func (e *WalletShortfallError) Unwrap() error {
	return ErrInsufficientWalletFunds
}

// RemoteError is a transport or server failure talking to the remote ledger.
type RemoteError struct {
	Operation  string
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: remote ledger returned status %d: %v", e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *RemoteError) Unwrap() []error {
	return []error{ErrRemoteUnavailable, e.Err}
}

package domain

import "github.com/shopspring/decimal"

// Player is the slice of the player profile the cashier engine needs.
type Player struct {
	ID            string
	Name          string
	Phone         string
	IsHousePlayer bool
}

// PlayerLedgerState is a player's position with the house.
type PlayerLedgerState struct {
	PlayerID          string
	ChipBalance       decimal.Decimal
	StoredChips       decimal.Decimal
	OutstandingCredit decimal.Decimal
	CanCashOut        bool

	// Known is false when the remote read failed and no cached value existed;
	// the figures are then zeroed defaults.
	Known bool
	// Stale is true when the figures come from the balance cache.
	Stale bool
}

// UnknownPlayerState is the zeroed default served when a balance read fails.
func UnknownPlayerState(playerID string) *PlayerLedgerState {
	return &PlayerLedgerState{
		PlayerID:          playerID,
		ChipBalance:       decimal.Zero,
		StoredChips:       decimal.Zero,
		OutstandingCredit: decimal.Zero,
	}
}

// CheckChips rejects amount when the chip balance is known and too small.
// An unknown balance defers the check to the remote ledger.
func (s *PlayerLedgerState) CheckChips(amount decimal.Decimal) error {
	if s == nil || !s.Known {
		return nil
	}
	if amount.GreaterThan(s.ChipBalance) {
		return &InsufficientChipsError{Requested: amount, Available: s.ChipBalance}
	}
	return nil
}

// WalletSnapshot is a wallet state read that may have degraded.
type WalletSnapshot struct {
	WalletState
	Known bool
	Stale bool
}

package domain

import "github.com/shopspring/decimal"

// Wallet names.
const (
	WalletSecondary = "secondary"
	WalletPrimary   = "primary_float"
)

// WalletState is the per-shift view of cashier funds.
type WalletState struct {
	PrimaryFloatAvailable  decimal.Decimal
	SecondaryWalletBalance decimal.Decimal
}

// TotalAvailable is the sum of both wallets.
func (w WalletState) TotalAvailable() decimal.Decimal {
	return w.SecondaryWalletBalance.Add(w.PrimaryFloatAvailable)
}

// FundingOrder returns the wallets in draw order: secondary first, then float.
func (w WalletState) FundingOrder() []WalletBalance {
	return []WalletBalance{
		{Name: WalletSecondary, Available: w.SecondaryWalletBalance},
		{Name: WalletPrimary, Available: w.PrimaryFloatAvailable},
	}
}

// WalletBalance is one funding source in a cascade.
type WalletBalance struct {
	Name      string
	Available decimal.Decimal
}

// WalletDraw is the amount taken from one wallet.
type WalletDraw struct {
	Wallet string
	Amount decimal.Decimal
}

// Allocation is the result of cascading a funding requirement across wallets.
type Allocation struct {
	Requested      decimal.Decimal
	Draws          []WalletDraw
	TotalAvailable decimal.Decimal
	Shortfall      decimal.Decimal
	IsValid        bool
}

// Allocate draws amount from wallets in order. Every wallet but the last gives
// at most its balance; the last wallet takes whatever remains, so the draws
// always sum to amount. IsValid is false when the wallets together cannot cover it.
func Allocate(amount decimal.Decimal, wallets []WalletBalance) Allocation {
	requested := nonNegative(amount)
	remaining := requested
	total := decimal.Zero
	draws := make([]WalletDraw, len(wallets))

	for i, w := range wallets {
		available := nonNegative(w.Available)
		total = total.Add(available)

		take := decimal.Min(remaining, available)
		if i == len(wallets)-1 {
			take = remaining
		}
		draws[i] = WalletDraw{Wallet: w.Name, Amount: take}
		remaining = remaining.Sub(take)
	}

	return Allocation{
		Requested:      requested,
		Draws:          draws,
		TotalAvailable: total,
		Shortfall:      nonNegative(requested.Sub(total)),
		IsValid:        requested.LessThanOrEqual(total),
	}
}

// Draw returns the amount drawn from the named wallet.
func (a Allocation) Draw(wallet string) decimal.Decimal {
	for _, d := range a.Draws {
		if d.Wallet == wallet {
			return d.Amount
		}
	}
	return decimal.Zero
}

// FromSecondary is the secondary wallet draw.
func (a Allocation) FromSecondary() decimal.Decimal {
	return a.Draw(WalletSecondary)
}

// FromPrimary is the primary float draw.
func (a Allocation) FromPrimary() decimal.Decimal {
	return a.Draw(WalletPrimary)
}

// Err returns a WalletShortfallError when the allocation cannot be funded.
func (a Allocation) Err() error {
	if a.IsValid {
		return nil
	}
	return &WalletShortfallError{
		Requested: a.Requested,
		Available: a.TotalAvailable,
		Shortfall: a.Shortfall,
	}
}

// AllocateExpense funds an expense from the secondary wallet, then the float.
func AllocateExpense(amount decimal.Decimal, wallets WalletState) Allocation {
	return Allocate(amount, wallets.FundingOrder())
}

// FloatWarning is a non-blocking notice that a cash payout exceeds the
// locally known float. The remote ledger decides.
type FloatWarning struct {
	PayoutAmount   decimal.Decimal
	FloatAvailable decimal.Decimal
	Shortfall      decimal.Decimal
}

// CheckFloat returns a warning when payout exceeds the known float, nil otherwise.
func CheckFloat(payout decimal.Decimal, wallets WalletState) *FloatWarning {
	if payout.LessThanOrEqual(wallets.PrimaryFloatAvailable) {
		return nil
	}
	return &FloatWarning{
		PayoutAmount:   payout,
		FloatAvailable: wallets.PrimaryFloatAvailable,
		Shortfall:      payout.Sub(wallets.PrimaryFloatAvailable),
	}
}

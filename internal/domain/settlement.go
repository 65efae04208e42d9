package domain

import "github.com/shopspring/decimal"

// CreditSettlement splits returned chip value between credit repayment and cash.
type CreditSettlement struct {
	TotalChipValue       decimal.Decimal
	OutstandingCredit    decimal.Decimal
	CreditToSettle       decimal.Decimal
	NetCashPayout        decimal.Decimal
	CreditRemainingAfter decimal.Decimal
}

// SettleCredit applies returned chip value to outstanding credit first; only
// the excess is paid out as cash. Negative inputs are treated as zero.
func SettleCredit(totalChipValue, outstandingCredit decimal.Decimal) CreditSettlement {
	value := nonNegative(totalChipValue)
	credit := nonNegative(outstandingCredit)

	return CreditSettlement{
		TotalChipValue:       value,
		OutstandingCredit:    credit,
		CreditToSettle:       decimal.Min(value, credit),
		NetCashPayout:        nonNegative(value.Sub(credit)),
		CreditRemainingAfter: nonNegative(credit.Sub(value)),
	}
}

// IsNoOp reports whether nothing is being returned.
func (s CreditSettlement) IsNoOp() bool {
	return s.TotalChipValue.IsZero()
}

// SettlesCredit reports whether any credit is repaid.
func (s CreditSettlement) SettlesCredit() bool {
	return s.CreditToSettle.IsPositive()
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// Denomination is a chip face value in rupees.
type Denomination int64

// Chip denominations in circulation.
const (
	Denom100   Denomination = 100
	Denom500   Denomination = 500
	Denom1000  Denomination = 1000
	Denom5000  Denomination = 5000
	Denom10000 Denomination = 10000
)

// Denominations lists every accepted denomination, smallest first.
var Denominations = []Denomination{Denom100, Denom500, Denom1000, Denom5000, Denom10000}

// AutoFillDenominations is the largest-first order used by AutoFill.
// The 1000 chip is not stocked at the cage and is never auto-filled.
var AutoFillDenominations = []Denomination{Denom10000, Denom5000, Denom500, Denom100}

// IsValid reports whether d is an accepted denomination.
func (d Denomination) IsValid() bool {
	for _, known := range Denominations {
		if d == known {
			return true
		}
	}
	return false
}

// Value returns the rupee value of a single chip.
func (d Denomination) Value() decimal.Decimal {
	return decimal.NewFromInt(int64(d))
}

func (d Denomination) String() string {
	return strconv.FormatInt(int64(d), 10)
}

// ChipBreakdown maps a denomination to a physical chip count.
type ChipBreakdown map[Denomination]int64

// ParseChipBreakdown converts wire input keyed by denomination strings.
// Negative counts and unknown denominations are rejected.
func ParseChipBreakdown(raw map[string]int64) (ChipBreakdown, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	breakdown := make(ChipBreakdown, len(raw))
	for key, count := range raw {
		value, err := strconv.ParseInt(key, 10, 64)
		if err != nil || !Denomination(value).IsValid() {
			return nil, NewValidationError("breakdown", fmt.Errorf("%w: %s", ErrUnknownDenomination, key))
		}
		if count < 0 {
			return nil, NewValidationError("breakdown", fmt.Errorf("%w: %d x %s", ErrNegativeChipCount, count, key))
		}
		breakdown[Denomination(value)] = count
	}

	return breakdown, nil
}

// Normalized returns a copy with every known denomination present and
// negative counts clamped to zero.
func (b ChipBreakdown) Normalized() ChipBreakdown {
	out := make(ChipBreakdown, len(Denominations))
	for _, d := range Denominations {
		count := b[d]
		if count < 0 {
			count = 0
		}
		out[d] = count
	}
	return out
}

// Total returns the sum of count x denomination. Negative counts count as zero.
func (b ChipBreakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for d, count := range b {
		if count <= 0 {
			continue
		}
		total = total.Add(d.Value().Mul(decimal.NewFromInt(count)))
	}
	return total
}

// ChipCount returns the total number of physical chips.
func (b ChipBreakdown) ChipCount() int64 {
	var n int64
	for _, count := range b {
		if count > 0 {
			n += count
		}
	}
	return n
}

// IsEmpty reports whether the breakdown carries no chips.
func (b ChipBreakdown) IsEmpty() bool {
	return b.ChipCount() == 0
}

// Wire returns the breakdown keyed by denomination strings, omitting zeros.
func (b ChipBreakdown) Wire() map[string]int64 {
	if b.IsEmpty() {
		return nil
	}
	out := make(map[string]int64, len(b))
	for d, count := range b {
		if count > 0 {
			out[d.String()] = count
		}
	}
	return out
}

// Lines returns the non-zero denominations, largest first.
func (b ChipBreakdown) Lines() []Denomination {
	var lines []Denomination
	for d, count := range b {
		if count > 0 {
			lines = append(lines, d)
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i] > lines[j] })
	return lines
}

// BreakdownCheck is the result of reconciling a breakdown with a declared amount.
type BreakdownCheck struct {
	Total      decimal.Decimal
	Declared   decimal.Decimal
	Difference decimal.Decimal // Total - Declared
	Valid      bool
}

// CheckBreakdown reconciles the chip counts against the declared amount.
func CheckBreakdown(b ChipBreakdown, declared decimal.Decimal) BreakdownCheck {
	total := b.Normalized().Total()
	diff := total.Sub(declared)
	return BreakdownCheck{
		Total:      total,
		Declared:   declared,
		Difference: diff,
		Valid:      diff.IsZero(),
	}
}

// VerifyBreakdown returns a validation error when a supplied breakdown does not
// add up to the declared amount. An omitted breakdown leaves the declared
// amount authoritative.
func VerifyBreakdown(b ChipBreakdown, declared decimal.Decimal) error {
	if b == nil {
		return nil
	}
	check := CheckBreakdown(b, declared)
	if !check.Valid {
		return NewValidationError("breakdown", fmt.Errorf("%w: counted %s, declared %s",
			ErrBreakdownMismatch, check.Total.StringFixed(2), declared.StringFixed(2)))
	}
	return nil
}

var maxChipCount = decimal.NewFromInt(math.MaxInt64)

// AutoFillResult is the canonical greedy breakdown for a target amount.
type AutoFillResult struct {
	Breakdown ChipBreakdown
	Remainder decimal.Decimal
}

// AutoFill fills target greedily from the largest denomination down. The
// result is one canonical answer; other breakdowns may sum to the same total.
// Any amount below the smallest denomination is returned as Remainder. A
// count never exceeds the int64 range; what does not fit carries down and
// ends up in Remainder, so Breakdown.Total() plus Remainder is always target.
func AutoFill(target decimal.Decimal) AutoFillResult {
	breakdown := make(ChipBreakdown, len(AutoFillDenominations))
	remaining := target
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	for _, d := range AutoFillDenominations {
		count := remaining.Div(d.Value()).Floor()
		if count.GreaterThan(maxChipCount) {
			count = maxChipCount
		}
		breakdown[d] = count.IntPart()
		remaining = remaining.Sub(count.Mul(d.Value()))
	}

	return AutoFillResult{Breakdown: breakdown, Remainder: remaining}
}

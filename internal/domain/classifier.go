package domain

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Direction is the semantic flow of a record from the cashier's point of view.
type Direction string

const (
	DirectionInflow  Direction = "inflow"
	DirectionOutflow Direction = "outflow"
	DirectionNeutral Direction = "neutral"
)

// Icon classes used by the ledger views.
const (
	IconInflow  = "icon-arrow-down-left text-success"
	IconOutflow = "icon-arrow-up-right text-danger"
	IconNeutral = "icon-dot text-muted"
)

// Classification is the display and direction metadata for one record.
type Classification struct {
	Label     string
	Direction Direction
	IsInflow  bool
	IconClass string
}

var baseDirections = map[TransactionType]Direction{
	TxBuyIn:        DirectionInflow,
	TxSettleCredit: DirectionInflow,
	TxAddFloat:     DirectionInflow,
	TxDepositCash:  DirectionInflow,
	TxDepositChips: DirectionInflow,
	TxOpeningChips: DirectionInflow,
	TxRedeemStored: DirectionInflow,
	TxCashPayout:   DirectionOutflow,
	TxCreditIssued: DirectionOutflow,
	TxReturnChips:  DirectionOutflow,
	TxExpense:      DirectionOutflow,
	TxRakeback:     DirectionOutflow,
}

var typeLabels = map[TransactionType]string{
	TxBuyIn:        "Buy-in",
	TxSettleCredit: "Credit Settlement",
	TxAddFloat:     "Float Added",
	TxDepositCash:  "Cash Deposit",
	TxDepositChips: "Chip Deposit",
	TxOpeningChips: "Opening Chips",
	TxRedeemStored: "Stored Chips Redeemed",
	TxCashPayout:   "Cash Payout",
	TxCreditIssued: "Credit Issued",
	TxReturnChips:  "Chips Returned",
	TxExpense:      "Club Expense",
	TxRakeback:     "Rakeback",
}

var activityLabels = map[ActivityType]string{
	ActivityDealerTip:     "Dealer Tip",
	ActivityPlayerExpense: "Player Expense",
	ActivityRakeback:      "Rakeback",
}

// Classify maps a (type, activity) pair to its direction and label. notes is
// only read for club expenses, whose label carries the expense category.
func Classify(txType TransactionType, activity ActivityType, notes string) Classification {
	direction, known := baseDirections[txType]
	if !known {
		direction = DirectionNeutral
	}

	// chips come back to the cage even though cash leaves
	if activity == ActivityDealerTip || activity == ActivityPlayerExpense {
		direction = DirectionInflow
	}
	if activity == ActivityRakeback || txType == TxRakeback {
		direction = DirectionOutflow
	}

	label, ok := typeLabels[txType]
	if !ok {
		label = Humanize(string(txType))
	}
	if override, ok := activityLabels[activity]; ok {
		label = override
	}
	if activity == ActivityClubExpense || (txType == TxExpense && activity == ActivityNone) {
		label = typeLabels[TxExpense]
		if category := ExpenseCategory(notes); category != "" {
			label += ": " + category
		}
	}

	return Classification{
		Label:     label,
		Direction: direction,
		IsInflow:  direction == DirectionInflow,
		IconClass: iconFor(direction),
	}
}

// ClassifyTransaction classifies a committed record, marking compensating entries.
func ClassifyTransaction(t *Transaction) Classification {
	c := Classify(t.Type, t.ActivityType, t.Notes)
	if t.IsReversal() {
		c.Label = "Reversal: " + c.Label
	}
	return c
}

func iconFor(d Direction) string {
	switch d {
	case DirectionInflow:
		return IconInflow
	case DirectionOutflow:
		return IconOutflow
	default:
		return IconNeutral
	}
}

var (
	bracketCategory = regexp.MustCompile(`^\s*\[([^\]]+)\]`)
	prefixCategory  = regexp.MustCompile(`(?i)^\s*category\s*:\s*([^|\-\n]+)`)
)

// ExpenseCategory extracts the category from expense notes written as
// "[Category] text" or "Category: name - text".
func ExpenseCategory(notes string) string {
	if m := bracketCategory.FindStringSubmatch(notes); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := prefixCategory.FindStringSubmatch(notes); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// ExpenseNotes formats an expense description so ExpenseCategory can read it back.
func ExpenseNotes(category, description string) string {
	category = strings.TrimSpace(category)
	description = strings.TrimSpace(description)
	if category == "" {
		return description
	}
	return "[" + category + "] " + description
}

// Humanize turns "some_kind" into "Some Kind".
func Humanize(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// LedgerSummary totals a set of records by direction.
type LedgerSummary struct {
	Inflow  decimal.Decimal
	Outflow decimal.Decimal
	Net     decimal.Decimal
	Count   int
}

// Summarize totals records through the classifier. Compensating entries carry
// negated amounts, so a reversed pair nets to zero.
func Summarize(transactions []*Transaction) LedgerSummary {
	summary := LedgerSummary{
		Inflow:  decimal.Zero,
		Outflow: decimal.Zero,
	}
	for _, t := range transactions {
		summary.Count++
		switch ClassifyTransaction(t).Direction {
		case DirectionInflow:
			summary.Inflow = summary.Inflow.Add(t.Amount)
		case DirectionOutflow:
			summary.Outflow = summary.Outflow.Add(t.Amount)
		}
	}
	summary.Net = summary.Inflow.Sub(summary.Outflow)
	return summary
}

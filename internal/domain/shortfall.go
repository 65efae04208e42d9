package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProposalState is where a float-shortfall proposal stands.
type ProposalState string

const (
	ProposalAwaitingTopUp ProposalState = "awaiting_top_up"
	ProposalRearmed       ProposalState = "rearmed"
)

// ShortfallProposal pairs a rejected payout with the top-up needed to retry it.
type ShortfallProposal struct {
	ID                 string
	State              ProposalState
	RequiredTopUp      decimal.Decimal
	Payout             CashPayoutIntent
	OperatorID         string
	Message            string
	TopUpTransactionID string
	// ResubmitIntentID is fixed when the proposal is rearmed so that repeated
	// resubmissions of one proposal collapse to a single remote effect.
	ResubmitIntentID string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsRearmed reports whether the float was topped up and the payout may be resubmitted.
func (p *ShortfallProposal) IsRearmed() bool {
	return p.State == ProposalRearmed
}

// ShortfallProposalError is returned when a payout was rejected for
// insufficient float. It carries the proposal the operator acts on.
type ShortfallProposalError struct {
	Proposal *ShortfallProposal
	Err      error
}

func (e *ShortfallProposalError) Error() string {
	return e.Err.Error()
}

func (e *ShortfallProposalError) Unwrap() error {
	return e.Err
}

var (
	requiredAmountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)required\D{0,20}?([0-9][0-9,]*(?:\.[0-9]+)?)`),
		regexp.MustCompile(`(?i)short(?:fall)?\s*(?:of|by)?\D{0,20}?([0-9][0-9,]*(?:\.[0-9]+)?)`),
		regexp.MustCompile(`(?i)(?:add|top[\s-]?up)\D{0,20}?([0-9][0-9,]*(?:\.[0-9]+)?)`),
	}
	anyAmount = regexp.MustCompile(`[0-9][0-9,]*(?:\.[0-9]+)?`)
)

// ParseRequiredAmount extracts the top-up amount from a free-text rejection such
// as "Insufficient cash. Required: ₹12,500". A message with a single number is
// read as that amount. ok is false when no positive amount can be found.
func ParseRequiredAmount(message string) (decimal.Decimal, bool) {
	for _, pattern := range requiredAmountPatterns {
		if m := pattern.FindStringSubmatch(message); m != nil {
			if amount, ok := parseAmount(m[1]); ok {
				return amount, true
			}
		}
	}

	matches := anyAmount.FindAllString(message, -1)
	if len(matches) == 1 {
		return parseAmount(matches[0])
	}
	return decimal.Zero, false
}

func parseAmount(s string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, false
	}
	return amount, true
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/cashdesk/internal/domain"
)

// ShortfallUseCase drives a float-shortfall proposal: top up the float, then
// let the operator resubmit the original payout. Nothing is retried on its own.
type ShortfallUseCase struct {
	cashier   *CashierUseCase
	proposals ShortfallStore
	ttl       time.Duration
	idGen     IDGenerator
	logger    zerolog.Logger
}

// NewShortfallUseCase creates a new ShortfallUseCase.
func NewShortfallUseCase(
	cashier *CashierUseCase,
	proposals ShortfallStore,
	ttl time.Duration,
	idGen IDGenerator,
	logger zerolog.Logger,
) *ShortfallUseCase {
	if ttl <= 0 {
		ttl = DefaultShortfallProposalTTL
	}
	return &ShortfallUseCase{
		cashier:   cashier,
		proposals: proposals,
		ttl:       ttl,
		idGen:     idGen,
		logger:    logger.With().Str("component", "shortfall").Logger(),
	}
}

// Get returns a stored proposal.
func (uc *ShortfallUseCase) Get(ctx context.Context, id string) (*domain.ShortfallProposal, error) {
	return uc.proposals.Get(ctx, id)
}

// TopUpResult is a proposal after its float top-up committed.
type TopUpResult struct {
	Proposal *domain.ShortfallProposal
	Receipt  *domain.FloatTopUpReceipt
}

// ConfirmTopUp adds at least the required amount to the float. Only a
// committed top-up rearms the proposal.
func (uc *ShortfallUseCase) ConfirmTopUp(ctx context.Context, id string, amount decimal.Decimal, note string) (*TopUpResult, error) {
	proposal, err := uc.proposals.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if proposal.IsRearmed() {
		return nil, domain.ErrProposalAlreadyUsed
	}

	if err := domain.ValidateAmount("amount", amount); err != nil {
		return nil, err
	}
	if amount.LessThan(proposal.RequiredTopUp) {
		return nil, domain.NewValidationError("amount", domain.ErrTopUpBelowRequired)
	}

	if strings.TrimSpace(note) == "" {
		note = "Float top-up for payout " + proposal.Payout.IntentID
	}

	receipt, err := uc.cashier.AddFloat(ctx, FloatTopUpInput{Amount: amount, Note: note})
	if err != nil {
		return nil, err
	}

	proposal.State = domain.ProposalRearmed
	proposal.TopUpTransactionID = receipt.TransactionID
	proposal.ResubmitIntentID = uc.idGen.Generate()
	proposal.UpdatedAt = time.Now().UTC()

	if err := uc.proposals.Save(ctx, proposal, uc.ttl); err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("proposal_id", proposal.ID).
		Str("top_up_transaction_id", receipt.TransactionID).
		Msg("float topped up, payout rearmed")

	return &TopUpResult{Proposal: proposal, Receipt: receipt}, nil
}

// Resubmit sends the original payout again after the operator re-confirms.
// The proposal is consumed on commit; a second shortfall replaces it with a
// fresh proposal.
func (uc *ShortfallUseCase) Resubmit(ctx context.Context, id string, confirmed bool) (*CashPayoutResult, error) {
	if !confirmed {
		return nil, domain.NewValidationError("confirmed", domain.ErrConfirmationRequired)
	}
	if err := requireRole(ctx, domain.Role.CanSubmit); err != nil {
		return nil, err
	}

	proposal, err := uc.proposals.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !proposal.IsRearmed() {
		return nil, domain.ErrProposalNotRearmed
	}

	intent := proposal.Payout
	intent.IntentID = proposal.ResubmitIntentID
	intent.Settlement = domain.CreditSettlement{}

	result, err := uc.cashier.submitPayout(ctx, intent, domain.AuditActionPayoutSubmit)
	if err != nil {
		var shortfall *domain.ShortfallProposalError
		if errors.As(err, &shortfall) {
			uc.consume(ctx, proposal.ID)
		}
		return nil, err
	}

	uc.consume(ctx, proposal.ID)
	return result, nil
}

func (uc *ShortfallUseCase) consume(ctx context.Context, id string) {
	if err := uc.proposals.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrProposalNotFound) {
		uc.logger.Warn().Err(err).Str("proposal_id", id).Msg("failed to consume shortfall proposal")
	}
}

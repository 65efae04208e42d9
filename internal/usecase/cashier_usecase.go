package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/cashdesk/internal/domain"
	"github.com/iho/cashdesk/internal/infrastructure/metrics"
)

// CashierUseCase previews and submits cashier operations.
type CashierUseCase struct {
	ledger      RemoteLedger
	players     PlayerDirectory
	views       *LedgerViewUseCase
	proposals   ShortfallStore
	proposalTTL time.Duration
	submitter   *submitter
	logger      zerolog.Logger
}

// NewCashierUseCase creates a new CashierUseCase. journal and proposals may be nil.
func NewCashierUseCase(
	ledger RemoteLedger,
	players PlayerDirectory,
	views *LedgerViewUseCase,
	journal *Journal,
	proposals ShortfallStore,
	proposalTTL time.Duration,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *CashierUseCase {
	if proposalTTL <= 0 {
		proposalTTL = DefaultShortfallProposalTTL
	}
	logger = logger.With().Str("component", "cashier").Logger()
	return &CashierUseCase{
		ledger:      ledger,
		players:     players,
		views:       views,
		proposals:   proposals,
		proposalTTL: proposalTTL,
		submitter: &submitter{
			journal: journal,
			idGen:   idGen,
			metrics: metrics,
			logger:  logger,
		},
		logger: logger,
	}
}

// PlayerRef identifies a player by id or by phone number.
type PlayerRef struct {
	ID    string
	Phone string
}

func (uc *CashierUseCase) resolvePlayer(ctx context.Context, ref PlayerRef) (*domain.Player, error) {
	if id := strings.TrimSpace(ref.ID); id != "" {
		return uc.players.GetPlayer(ctx, id)
	}

	if strings.TrimSpace(ref.Phone) == "" {
		return nil, domain.NewValidationError("player", domain.ErrPlayerRequired)
	}

	phone, err := domain.ValidatePhone(ref.Phone)
	if err != nil {
		return nil, err
	}
	return uc.players.LookupByPhone(ctx, phone)
}

// PreviewBreakdown reconciles chip counts against a declared amount.
func (uc *CashierUseCase) PreviewBreakdown(breakdown domain.ChipBreakdown, declared decimal.Decimal) domain.BreakdownCheck {
	return domain.CheckBreakdown(breakdown, declared)
}

// AutoFill proposes the canonical greedy breakdown for target. The target is
// held to the same bounds as any desk operation.
func (uc *CashierUseCase) AutoFill(target decimal.Decimal) (domain.AutoFillResult, error) {
	if err := domain.ValidateAmount("target", target); err != nil {
		return domain.AutoFillResult{}, err
	}
	return domain.AutoFill(target), nil
}

// CashPayoutInput is a cash payout request from the desk.
type CashPayoutInput struct {
	Player                 PlayerRef
	Breakdown              domain.ChipBreakdown
	TotalValue             decimal.Decimal
	CEOPermissionConfirmed bool
}

// CashPayoutPreview is the locally computed split for a cash payout.
type CashPayoutPreview struct {
	Player            *domain.Player
	PlayerState       *domain.PlayerLedgerState
	Breakdown         *domain.BreakdownCheck
	Settlement        domain.CreditSettlement
	Wallets           *domain.WalletSnapshot
	FloatWarning      *domain.FloatWarning
	InsufficientChips *domain.InsufficientChipsError
	RequiresApproval  bool
}

// PreviewCashPayout computes the credit settlement and warnings for a payout
// without submitting it. A breakdown mismatch is reported, not returned.
func (uc *CashierUseCase) PreviewCashPayout(ctx context.Context, input CashPayoutInput) (*CashPayoutPreview, error) {
	player, err := uc.resolvePlayer(ctx, input.Player)
	if err != nil {
		return nil, err
	}

	state, err := uc.views.ChipBalance(ctx, player.ID)
	if err != nil {
		return nil, err
	}
	wallets := uc.views.WalletState(ctx)

	settlement := domain.SettleCredit(input.TotalValue, state.OutstandingCredit)
	preview := &CashPayoutPreview{
		Player:           player,
		PlayerState:      state,
		Settlement:       settlement,
		Wallets:          wallets,
		RequiresApproval: player.IsHousePlayer,
	}

	if input.Breakdown != nil {
		check := domain.CheckBreakdown(input.Breakdown, input.TotalValue)
		preview.Breakdown = &check
	}
	if wallets.Known {
		preview.FloatWarning = domain.CheckFloat(settlement.NetCashPayout, wallets.WalletState)
	}

	var chipsErr *domain.InsufficientChipsError
	if errors.As(state.CheckChips(input.TotalValue), &chipsErr) {
		preview.InsufficientChips = chipsErr
	}

	return preview, nil
}

// CashPayoutResult is a committed payout.
type CashPayoutResult struct {
	Receipt      *domain.CashPayoutReceipt
	Settlement   domain.CreditSettlement
	FloatWarning *domain.FloatWarning
}

// SubmitCashPayout validates and submits a cash payout. An insufficient-float
// rejection returns a *domain.ShortfallProposalError carrying the top-up proposal.
func (uc *CashierUseCase) SubmitCashPayout(ctx context.Context, input CashPayoutInput) (*CashPayoutResult, error) {
	if err := requireRole(ctx, domain.Role.CanSubmit); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount("total_value", input.TotalValue); err != nil {
		return nil, err
	}
	if err := domain.VerifyBreakdown(input.Breakdown, input.TotalValue); err != nil {
		return nil, err
	}

	player, err := uc.resolvePlayer(ctx, input.Player)
	if err != nil {
		return nil, err
	}
	if player.IsHousePlayer && !input.CEOPermissionConfirmed {
		return nil, domain.NewValidationError("ceo_permission_confirmed", domain.ErrHousePlayerApprovalRequired)
	}

	intent := domain.CashPayoutIntent{
		IntentID:               uc.submitter.idGen.Generate(),
		PlayerID:               player.ID,
		Breakdown:              input.Breakdown,
		TotalValue:             input.TotalValue,
		CEOPermissionConfirmed: input.CEOPermissionConfirmed,
	}

	action := domain.AuditActionPayoutSubmit
	if player.IsHousePlayer {
		action = domain.AuditActionHousePlayerPayout
	}

	return uc.submitPayout(ctx, intent, action)
}

// submitPayout settles credit against a fresh balance read and submits intent.
func (uc *CashierUseCase) submitPayout(ctx context.Context, intent domain.CashPayoutIntent, action domain.AuditAction) (*CashPayoutResult, error) {
	state, err := uc.views.ChipBalance(ctx, intent.PlayerID)
	if err != nil {
		return nil, err
	}
	if err := state.CheckChips(intent.TotalValue); err != nil {
		return nil, err
	}

	intent.Settlement = domain.SettleCredit(intent.TotalValue, state.OutstandingCredit)

	// a local float shortfall only warns; the remote ledger decides
	wallets := uc.views.WalletState(ctx)
	var warning *domain.FloatWarning
	if wallets.Known {
		warning = domain.CheckFloat(intent.Settlement.NetCashPayout, wallets.WalletState)
	}
	if warning != nil {
		uc.logger.Warn().
			Str("intent_id", intent.IntentID).
			Str("net_cash", warning.PayoutAmount.StringFixed(2)).
			Str("float", warning.FloatAvailable.StringFixed(2)).
			Msg("payout exceeds locally known float")
	}

	receipt, err := submit(ctx, uc.submitter, submission{
		op:       domain.OpCashPayout,
		action:   action,
		intentID: intent.IntentID,
		playerID: intent.PlayerID,
		amount:   intent.TotalValue,
		payload:  intent,
	}, func(ctx context.Context) (*domain.CashPayoutReceipt, error) {
		return uc.ledger.SubmitCashPayout(ctx, intent)
	}, func(r *domain.CashPayoutReceipt) string {
		return r.TransactionID
	})
	if err != nil {
		var floatErr *domain.InsufficientFloatError
		if errors.As(err, &floatErr) {
			return nil, uc.proposeTopUp(ctx, intent, floatErr, wallets)
		}
		return nil, err
	}

	uc.submitter.metrics.ObserveCreditSettled(receipt.CreditSettled)
	uc.views.Invalidate(ctx, intent.PlayerID)

	return &CashPayoutResult{
		Receipt:      receipt,
		Settlement:   intent.Settlement,
		FloatWarning: warning,
	}, nil
}

// proposeTopUp turns an insufficient-float rejection into a stored proposal.
func (uc *CashierUseCase) proposeTopUp(
	ctx context.Context,
	intent domain.CashPayoutIntent,
	floatErr *domain.InsufficientFloatError,
	wallets *domain.WalletSnapshot,
) error {
	uc.submitter.metrics.IncFloatShortfall()

	now := time.Now().UTC()
	proposal := &domain.ShortfallProposal{
		ID:            uc.submitter.idGen.Generate(),
		State:         domain.ProposalAwaitingTopUp,
		RequiredTopUp: requiredTopUp(floatErr, intent.Settlement.NetCashPayout, wallets),
		Payout:        intent,
		OperatorID:    domain.OperatorID(ctx),
		Message:       floatErr.Message,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if uc.proposals != nil {
		if err := uc.proposals.Save(ctx, proposal, uc.proposalTTL); err != nil {
			uc.logger.Error().Err(err).Str("proposal_id", proposal.ID).Msg("failed to store shortfall proposal")
		}
	}

	uc.logger.Info().
		Str("proposal_id", proposal.ID).
		Str("intent_id", intent.IntentID).
		Str("required_top_up", proposal.RequiredTopUp.StringFixed(2)).
		Msg("float shortfall, top-up proposed")

	return &domain.ShortfallProposalError{Proposal: proposal, Err: floatErr}
}

// requiredTopUp prefers the ledger's figure, then one parsed from its message,
// then the local shortfall against the known float, then the whole net cash.
func requiredTopUp(floatErr *domain.InsufficientFloatError, netCash decimal.Decimal, wallets *domain.WalletSnapshot) decimal.Decimal {
	if floatErr.RequiredAmount.IsPositive() {
		return floatErr.RequiredAmount
	}
	if amount, ok := domain.ParseRequiredAmount(floatErr.Message); ok {
		return amount
	}
	if wallets != nil && wallets.Known {
		if shortfall := netCash.Sub(wallets.PrimaryFloatAvailable); shortfall.IsPositive() {
			return shortfall
		}
	}
	return netCash
}

// ExpenseInput is a house expense request.
type ExpenseInput struct {
	Amount      decimal.Decimal
	Description string
	Category    string
}

// ExpensePreview is the wallet cascade for an expense.
type ExpensePreview struct {
	Allocation domain.Allocation
	Wallets    *domain.WalletSnapshot
}

// PreviewExpense allocates amount across the secondary wallet and the float.
func (uc *CashierUseCase) PreviewExpense(ctx context.Context, amount decimal.Decimal) *ExpensePreview {
	wallets := uc.views.WalletState(ctx)
	return &ExpensePreview{
		Allocation: domain.AllocateExpense(amount, wallets.WalletState),
		Wallets:    wallets,
	}
}

// ExpenseResult is a committed expense.
type ExpenseResult struct {
	Receipt    *domain.ExpenseReceipt
	Allocation domain.Allocation
}

// SubmitExpense funds an expense secondary-wallet first. An allocation the
// known wallets cannot cover is never submitted.
func (uc *CashierUseCase) SubmitExpense(ctx context.Context, input ExpenseInput) (*ExpenseResult, error) {
	if err := requireRole(ctx, domain.Role.CanSubmit); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount("amount", input.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	preview := uc.PreviewExpense(ctx, input.Amount)
	if preview.Wallets.Known {
		if err := preview.Allocation.Err(); err != nil {
			return nil, err
		}
	}

	intent := domain.ExpenseIntent{
		IntentID:    uc.submitter.idGen.Generate(),
		Amount:      input.Amount,
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
	}

	receipt, err := submit(ctx, uc.submitter, submission{
		op:       domain.OpExpense,
		action:   domain.AuditActionExpenseSubmit,
		intentID: intent.IntentID,
		amount:   intent.Amount,
		payload:  intent,
	}, func(ctx context.Context) (*domain.ExpenseReceipt, error) {
		return uc.ledger.SubmitExpense(ctx, intent)
	}, func(r *domain.ExpenseReceipt) string {
		return r.TransactionID
	})
	if err != nil {
		return nil, err
	}

	uc.views.Invalidate(ctx, "")
	return &ExpenseResult{Receipt: receipt, Allocation: preview.Allocation}, nil
}

// DepositInput banks chips or cash for a player.
type DepositInput struct {
	Player    PlayerRef
	Kind      domain.DepositKind
	Amount    decimal.Decimal
	Breakdown domain.ChipBreakdown
}

// SubmitDeposit submits a chip or cash deposit.
func (uc *CashierUseCase) SubmitDeposit(ctx context.Context, input DepositInput) (*domain.DepositReceipt, error) {
	if err := requireRole(ctx, domain.Role.CanSubmit); err != nil {
		return nil, err
	}
	if !input.Kind.IsValid() {
		return nil, domain.NewValidationError("kind", domain.ErrInvalidDepositKind)
	}
	if err := domain.ValidateAmount("amount", input.Amount); err != nil {
		return nil, err
	}
	if err := domain.VerifyBreakdown(input.Breakdown, input.Amount); err != nil {
		return nil, err
	}

	player, err := uc.resolvePlayer(ctx, input.Player)
	if err != nil {
		return nil, err
	}

	intent := domain.DepositIntent{
		IntentID:  uc.submitter.idGen.Generate(),
		PlayerID:  player.ID,
		Kind:      input.Kind,
		Amount:    input.Amount,
		Breakdown: input.Breakdown,
	}

	receipt, err := submit(ctx, uc.submitter, submission{
		op:       domain.OpDeposit,
		action:   domain.AuditActionDepositSubmit,
		intentID: intent.IntentID,
		playerID: intent.PlayerID,
		amount:   intent.Amount,
		payload:  intent,
	}, func(ctx context.Context) (*domain.DepositReceipt, error) {
		return uc.ledger.SubmitDeposit(ctx, intent)
	}, func(r *domain.DepositReceipt) string {
		return r.TransactionID
	})
	if err != nil {
		return nil, err
	}

	uc.views.Invalidate(ctx, player.ID)
	return receipt, nil
}

// ReturnChipsInput hands chips back to the cage.
type ReturnChipsInput struct {
	Player    PlayerRef
	Amount    decimal.Decimal
	Breakdown domain.ChipBreakdown
}

// SubmitReturnChips submits a chip return. A return above a known chip
// balance is rejected before submission.
func (uc *CashierUseCase) SubmitReturnChips(ctx context.Context, input ReturnChipsInput) (*domain.ReturnChipsReceipt, error) {
	if err := requireRole(ctx, domain.Role.CanSubmit); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount("amount", input.Amount); err != nil {
		return nil, err
	}
	if err := domain.VerifyBreakdown(input.Breakdown, input.Amount); err != nil {
		return nil, err
	}

	player, err := uc.resolvePlayer(ctx, input.Player)
	if err != nil {
		return nil, err
	}

	state, err := uc.views.ChipBalance(ctx, player.ID)
	if err != nil {
		return nil, err
	}
	if err := state.CheckChips(input.Amount); err != nil {
		return nil, err
	}

	intent := domain.ReturnChipsIntent{
		IntentID:  uc.submitter.idGen.Generate(),
		PlayerID:  player.ID,
		Amount:    input.Amount,
		Breakdown: input.Breakdown,
	}

	receipt, err := submit(ctx, uc.submitter, submission{
		op:       domain.OpReturnChips,
		action:   domain.AuditActionReturnSubmit,
		intentID: intent.IntentID,
		playerID: intent.PlayerID,
		amount:   intent.Amount,
		payload:  intent,
	}, func(ctx context.Context) (*domain.ReturnChipsReceipt, error) {
		return uc.ledger.SubmitReturnChips(ctx, intent)
	}, func(r *domain.ReturnChipsReceipt) string {
		return r.TransactionID
	})
	if err != nil {
		return nil, err
	}

	uc.views.Invalidate(ctx, player.ID)
	return receipt, nil
}

// FloatTopUpInput adds cash to the float.
type FloatTopUpInput struct {
	Amount decimal.Decimal
	Note   string
}

// AddFloat submits a float top-up.
func (uc *CashierUseCase) AddFloat(ctx context.Context, input FloatTopUpInput) (*domain.FloatTopUpReceipt, error) {
	if err := requireRole(ctx, domain.Role.CanTopUpFloat); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount("amount", input.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateNote(input.Note); err != nil {
		return nil, err
	}

	intent := domain.FloatTopUpIntent{
		IntentID: uc.submitter.idGen.Generate(),
		Amount:   input.Amount,
		Note:     strings.TrimSpace(input.Note),
	}

	receipt, err := submit(ctx, uc.submitter, submission{
		op:       domain.OpAddFloat,
		action:   domain.AuditActionFloatTopUp,
		intentID: intent.IntentID,
		amount:   intent.Amount,
		payload:  intent,
	}, func(ctx context.Context) (*domain.FloatTopUpReceipt, error) {
		return uc.ledger.AddFloat(ctx, intent)
	}, func(r *domain.FloatTopUpReceipt) string {
		return r.TransactionID
	})
	if err != nil {
		return nil, err
	}

	uc.submitter.metrics.IncFloatTopUp()
	uc.views.Invalidate(ctx, "")
	return receipt, nil
}

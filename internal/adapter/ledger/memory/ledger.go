// Package memory is an in-process ledger store for local runs and flow tests.
// It enforces the same rules the remote ledger does and deduplicates
// submissions by intent id.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/iho/cashdesk/internal/domain"
)

// Account seeds a player's position.
type Account struct {
	ChipBalance       decimal.Decimal
	StoredChips       decimal.Decimal
	OutstandingCredit decimal.Decimal
	CanCashOut        bool
}

// effect is the balance change a transaction made; a reversal applies its negation.
type effect struct {
	playerID  string
	chips     decimal.Decimal
	stored    decimal.Decimal
	credit    decimal.Decimal
	float     decimal.Decimal
	secondary decimal.Decimal
}

func (e effect) neg() effect {
	return effect{
		playerID:  e.playerID,
		chips:     e.chips.Neg(),
		stored:    e.stored.Neg(),
		credit:    e.credit.Neg(),
		float:     e.float.Neg(),
		secondary: e.secondary.Neg(),
	}
}

// Ledger implements usecase.RemoteLedger and usecase.PlayerDirectory in memory.
type Ledger struct {
	mu       sync.Mutex
	players  map[string]*domain.Player
	accounts map[string]*Account
	wallets  domain.WalletState
	txs      []*domain.Transaction
	byID     map[string]*domain.Transaction
	effects  map[string]effect
	receipts map[string]any
	now      func() time.Time
	newID    func() string
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithPlayer registers a player and their opening position.
func WithPlayer(p domain.Player, acct Account) Option {
	return func(l *Ledger) {
		player := p
		account := acct
		l.players[p.ID] = &player
		l.accounts[p.ID] = &account
	}
}

// WithWallets sets the opening wallet balances.
func WithWallets(w domain.WalletState) Option {
	return func(l *Ledger) {
		l.wallets = w
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// New creates an empty in-memory ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		players:  make(map[string]*domain.Player),
		accounts: make(map[string]*Account),
		byID:     make(map[string]*domain.Transaction),
		effects:  make(map[string]effect),
		receipts: make(map[string]any),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return ulid.Make().String() },
		wallets: domain.WalletState{
			PrimaryFloatAvailable:  decimal.Zero,
			SecondaryWalletBalance: decimal.Zero,
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FetchChipBalance returns a player's position.
func (l *Ledger) FetchChipBalance(ctx context.Context, playerID string) (*domain.PlayerLedgerState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acct, ok := l.accounts[playerID]
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}

	return &domain.PlayerLedgerState{
		PlayerID:          playerID,
		ChipBalance:       acct.ChipBalance,
		StoredChips:       acct.StoredChips,
		OutstandingCredit: acct.OutstandingCredit,
		CanCashOut:        acct.CanCashOut,
		Known:             true,
	}, nil
}

// FetchWalletState returns the wallet balances.
func (l *Ledger) FetchWalletState(ctx context.Context) (*domain.WalletState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.wallets
	return &w, nil
}

// SubmitCashPayout takes back chips, settles credit first and pays the rest in cash.
func (l *Ledger) SubmitCashPayout(ctx context.Context, intent domain.CashPayoutIntent) (*domain.CashPayoutReceipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r, ok, err := replay[*domain.CashPayoutReceipt](l, intent.IntentID); ok || err != nil {
		return r, err
	}

	player, acct, err := l.player(intent.PlayerID)
	if err != nil {
		return nil, err
	}
	if player.IsHousePlayer && !intent.CEOPermissionConfirmed {
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteRejected, domain.ErrHousePlayerApprovalRequired)
	}
	if err := positive(intent.TotalValue); err != nil {
		return nil, err
	}
	if !intent.Breakdown.IsEmpty() && !intent.Breakdown.Total().Equal(intent.TotalValue) {
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteRejected, domain.ErrBreakdownMismatch)
	}
	if intent.TotalValue.GreaterThan(acct.ChipBalance) {
		return nil, &domain.InsufficientChipsError{Requested: intent.TotalValue, Available: acct.ChipBalance}
	}

	settlement := domain.SettleCredit(intent.TotalValue, acct.OutstandingCredit)
	if settlement.NetCashPayout.GreaterThan(l.wallets.PrimaryFloatAvailable) {
		required := settlement.NetCashPayout.Sub(l.wallets.PrimaryFloatAvailable)
		return nil, &domain.InsufficientFloatError{
			RequiredAmount: required,
			Message:        "Insufficient cash. Required: " + required.StringFixed(2),
		}
	}

	// The payout is one record; its effect covers the chips, the settled
	// credit and the cash.
	tx := &domain.Transaction{
		Type:       domain.TxCashPayout,
		Amount:     settlement.NetCashPayout,
		Breakdown:  intent.Breakdown.Normalized(),
		PlayerID:   &player.ID,
		WalletFrom: domain.WalletPrimary,
		CreatedAt:  l.now(),
	}
	if settlement.CreditToSettle.IsPositive() {
		tx.Notes = "Credit settled from chip return: " + settlement.CreditToSettle.StringFixed(2)
	}
	if settlement.NetCashPayout.IsZero() {
		tx.Type = domain.TxSettleCredit
		tx.Amount = settlement.CreditToSettle
		tx.WalletFrom = ""
	}

	receiptTx := l.record(tx, effect{
		playerID: player.ID,
		chips:    intent.TotalValue.Neg(),
		credit:   settlement.CreditToSettle.Neg(),
		float:    settlement.NetCashPayout.Neg(),
	})

	receipt := &domain.CashPayoutReceipt{
		TransactionID: receiptTx,
		CreditSettled: settlement.CreditToSettle,
		NetCashPaid:   settlement.NetCashPayout,
	}
	l.receipts[intent.IntentID] = receipt
	return receipt, nil
}

// SubmitExpense draws the secondary wallet first, then the float.
func (l *Ledger) SubmitExpense(ctx context.Context, intent domain.ExpenseIntent) (*domain.ExpenseReceipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r, ok, err := replay[*domain.ExpenseReceipt](l, intent.IntentID); ok || err != nil {
		return r, err
	}
	if err := positive(intent.Amount); err != nil {
		return nil, err
	}

	allocation := domain.AllocateExpense(intent.Amount, l.wallets)
	if err := allocation.Err(); err != nil {
		return nil, err
	}

	id := l.record(&domain.Transaction{
		Type:         domain.TxExpense,
		ActivityType: domain.ActivityClubExpense,
		Amount:       intent.Amount,
		WalletFrom:   domain.WalletSecondary,
		Notes:        intent.Notes(),
		CreatedAt:    l.now(),
	}, effect{
		secondary: allocation.FromSecondary().Neg(),
		float:     allocation.FromPrimary().Neg(),
	})

	receipt := &domain.ExpenseReceipt{
		TransactionID: id,
		SecondaryDraw: allocation.FromSecondary(),
		PrimaryDraw:   allocation.FromPrimary(),
	}
	l.receipts[intent.IntentID] = receipt
	return receipt, nil
}

// SubmitDeposit banks chips or cash as stored balance. Deposited cash is
// collected into the secondary wallet.
func (l *Ledger) SubmitDeposit(ctx context.Context, intent domain.DepositIntent) (*domain.DepositReceipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r, ok, err := replay[*domain.DepositReceipt](l, intent.IntentID); ok || err != nil {
		return r, err
	}

	player, acct, err := l.player(intent.PlayerID)
	if err != nil {
		return nil, err
	}
	if err := positive(intent.Amount); err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		Amount:    intent.Amount,
		PlayerID:  &player.ID,
		CreatedAt: l.now(),
	}
	eff := effect{playerID: player.ID, stored: intent.Amount}

	switch intent.Kind {
	case domain.DepositChips:
		if intent.Amount.GreaterThan(acct.ChipBalance) {
			return nil, &domain.InsufficientChipsError{Requested: intent.Amount, Available: acct.ChipBalance}
		}
		tx.Type = domain.TxDepositChips
		tx.Breakdown = intent.Breakdown.Normalized()
		eff.chips = intent.Amount.Neg()
	case domain.DepositCash:
		tx.Type = domain.TxDepositCash
		tx.WalletTo = domain.WalletSecondary
		eff.secondary = intent.Amount
	default:
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteRejected, domain.ErrInvalidDepositKind)
	}

	id := l.record(tx, eff)

	receipt := &domain.DepositReceipt{
		TransactionID:    id,
		NewStoredBalance: acct.StoredChips,
	}
	l.receipts[intent.IntentID] = receipt
	return receipt, nil
}

// SubmitReturnChips takes chips back without paying cash.
func (l *Ledger) SubmitReturnChips(ctx context.Context, intent domain.ReturnChipsIntent) (*domain.ReturnChipsReceipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r, ok, err := replay[*domain.ReturnChipsReceipt](l, intent.IntentID); ok || err != nil {
		return r, err
	}

	player, acct, err := l.player(intent.PlayerID)
	if err != nil {
		return nil, err
	}
	if err := positive(intent.Amount); err != nil {
		return nil, err
	}
	if intent.Amount.GreaterThan(acct.ChipBalance) {
		return nil, &domain.InsufficientChipsError{Requested: intent.Amount, Available: acct.ChipBalance}
	}

	id := l.record(&domain.Transaction{
		Type:      domain.TxReturnChips,
		Amount:    intent.Amount,
		Breakdown: intent.Breakdown.Normalized(),
		PlayerID:  &player.ID,
		CreatedAt: l.now(),
	}, effect{playerID: player.ID, chips: intent.Amount.Neg()})

	receipt := &domain.ReturnChipsReceipt{
		TransactionID:  id,
		RemainingChips: acct.ChipBalance,
	}
	l.receipts[intent.IntentID] = receipt
	return receipt, nil
}

// AddFloat adds cash to the primary float.
func (l *Ledger) AddFloat(ctx context.Context, intent domain.FloatTopUpIntent) (*domain.FloatTopUpReceipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r, ok, err := replay[*domain.FloatTopUpReceipt](l, intent.IntentID); ok || err != nil {
		return r, err
	}
	if err := positive(intent.Amount); err != nil {
		return nil, err
	}

	id := l.record(&domain.Transaction{
		Type:      domain.TxAddFloat,
		Amount:    intent.Amount,
		WalletTo:  domain.WalletPrimary,
		Notes:     intent.Note,
		CreatedAt: l.now(),
	}, effect{float: intent.Amount})

	receipt := &domain.FloatTopUpReceipt{
		TransactionID:     id,
		NewFloatAvailable: l.wallets.PrimaryFloatAvailable,
	}
	l.receipts[intent.IntentID] = receipt
	return receipt, nil
}

// ReverseTransaction locks the original and records its compensating entry
// in one step. The original's balance effect is undone, unless undoing it
// would drive a wallet or the player's position below zero.
func (l *Ledger) ReverseTransaction(ctx context.Context, intent domain.ReversalIntent) (*domain.ReversalReceipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r, ok, err := replay[*domain.ReversalReceipt](l, intent.IntentID); ok || err != nil {
		return r, err
	}

	original, ok := l.byID[intent.TransactionID]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}

	transition, err := original.Reverse(l.newID(), intent.Reason, intent.Note, l.now())
	if err != nil {
		return nil, err
	}

	undo := l.effects[original.ID].neg()
	if err := l.check(undo); err != nil {
		return nil, err
	}

	*original = *transition.Original
	l.append(transition.Entry, undo)

	receipt := &domain.ReversalReceipt{
		OriginalID:      original.ID,
		OriginalStatus:  original.Status,
		ReversalEntryID: transition.Entry.ID,
	}
	l.receipts[intent.IntentID] = receipt
	return receipt, nil
}

// GetTransaction returns a copy of one record.
func (l *Ledger) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, ok := l.byID[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

// ListTransactions returns matching records, newest first.
func (l *Ledger) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	types := make(map[domain.TransactionType]bool, len(filter.Types))
	for _, t := range filter.Types {
		types[t] = true
	}

	var out []*domain.Transaction
	for i := len(l.txs) - 1; i >= 0; i-- {
		tx := l.txs[i]
		if filter.PlayerID != "" && (tx.PlayerID == nil || *tx.PlayerID != filter.PlayerID) {
			continue
		}
		if len(types) > 0 && !types[tx.Type] {
			continue
		}
		if filter.Since != nil && tx.CreatedAt.Before(*filter.Since) {
			continue
		}
		cp := *tx
		out = append(out, &cp)
	}

	limit, offset := domain.ValidatePagination(filter.Limit, filter.Offset)
	if offset >= len(out) {
		return []*domain.Transaction{}, nil
	}
	end := min(offset+limit, len(out))
	return out[offset:end], nil
}

// GetPlayer returns a player profile.
func (l *Ledger) GetPlayer(ctx context.Context, id string) (*domain.Player, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.players[id]
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}
	cp := *p
	return &cp, nil
}

// LookupByPhone finds a player by mobile number.
func (l *Ledger) LookupByPhone(ctx context.Context, phone string) (*domain.Player, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	want := domain.NormalizePhone(phone)
	ids := make([]string, 0, len(l.players))
	for id := range l.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if domain.NormalizePhone(l.players[id].Phone) == want {
			cp := *l.players[id]
			return &cp, nil
		}
	}
	return nil, domain.ErrPlayerNotFound
}

func (l *Ledger) player(id string) (*domain.Player, *Account, error) {
	p, ok := l.players[id]
	if !ok {
		return nil, nil, domain.ErrPlayerNotFound
	}
	return p, l.accounts[id], nil
}

// record assigns an id, applies the effect and stores the transaction.
func (l *Ledger) record(tx *domain.Transaction, eff effect) string {
	tx.ID = l.newID()
	tx.Status = domain.StatusActive
	l.append(tx, eff)
	return tx.ID
}

func (l *Ledger) append(tx *domain.Transaction, eff effect) {
	l.apply(eff)
	l.txs = append(l.txs, tx)
	l.byID[tx.ID] = tx
	l.effects[tx.ID] = eff
}

// check reports whether applying e keeps every balance it touches non-negative.
func (l *Ledger) check(e effect) error {
	if float := l.wallets.PrimaryFloatAvailable.Add(e.float); float.IsNegative() {
		required := float.Neg()
		return &domain.InsufficientFloatError{
			RequiredAmount: required,
			Message:        "Insufficient cash. Required: " + required.StringFixed(2),
		}
	}
	if secondary := l.wallets.SecondaryWalletBalance.Add(e.secondary); secondary.IsNegative() {
		return &domain.WalletShortfallError{
			Requested: e.secondary.Neg(),
			Available: l.wallets.SecondaryWalletBalance,
			Shortfall: secondary.Neg(),
		}
	}

	acct, ok := l.accounts[e.playerID]
	if !ok {
		return nil
	}
	if acct.ChipBalance.Add(e.chips).IsNegative() {
		return &domain.InsufficientChipsError{Requested: e.chips.Neg(), Available: acct.ChipBalance}
	}
	if acct.StoredChips.Add(e.stored).IsNegative() {
		return fmt.Errorf("%w: stored balance %s cannot cover %s",
			domain.ErrRemoteRejected, acct.StoredChips.StringFixed(2), e.stored.Neg().StringFixed(2))
	}
	if acct.OutstandingCredit.Add(e.credit).IsNegative() {
		return fmt.Errorf("%w: outstanding credit %s cannot absorb %s",
			domain.ErrRemoteRejected, acct.OutstandingCredit.StringFixed(2), e.credit.Neg().StringFixed(2))
	}
	return nil
}

func (l *Ledger) apply(e effect) {
	if acct, ok := l.accounts[e.playerID]; ok {
		acct.ChipBalance = acct.ChipBalance.Add(e.chips)
		acct.StoredChips = acct.StoredChips.Add(e.stored)
		acct.OutstandingCredit = acct.OutstandingCredit.Add(e.credit)
	}
	l.wallets.PrimaryFloatAvailable = l.wallets.PrimaryFloatAvailable.Add(e.float)
	l.wallets.SecondaryWalletBalance = l.wallets.SecondaryWalletBalance.Add(e.secondary)
}

// replay returns the stored receipt for an intent id that was already committed.
func replay[R any](l *Ledger, intentID string) (R, bool, error) {
	var zero R
	if intentID == "" {
		return zero, false, fmt.Errorf("%w: missing intent id", domain.ErrRemoteRejected)
	}
	stored, ok := l.receipts[intentID]
	if !ok {
		return zero, false, nil
	}
	r, ok := stored.(R)
	if !ok {
		return zero, false, fmt.Errorf("%w: intent %s was used for another operation", domain.ErrRemoteRejected, intentID)
	}
	return r, true, nil
}

func positive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %v", domain.ErrRemoteRejected, domain.ErrInvalidAmount)
	}
	return nil
}

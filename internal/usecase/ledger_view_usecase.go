package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/cashdesk/internal/domain"
	"github.com/iho/cashdesk/internal/infrastructure/metrics"
)

const (
	readChipBalance = "chip_balance"
	readWallets     = "wallets"
	readHistory     = "history"

	walletsCacheKey = "balance:wallets"
)

func playerCacheKey(playerID string) string {
	return "balance:player:" + playerID
}

// LedgerViewUseCase serves the read side. Remote read failures degrade to the
// last cached figure or to a zeroed default; they are logged, never returned.
type LedgerViewUseCase struct {
	ledger   RemoteLedger
	cache    Cache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewLedgerViewUseCase creates a LedgerViewUseCase. cache may be nil.
func NewLedgerViewUseCase(
	ledger RemoteLedger,
	cache Cache,
	cacheTTL time.Duration,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *LedgerViewUseCase {
	if cacheTTL <= 0 {
		cacheTTL = DefaultBalanceCacheTTL
	}
	return &LedgerViewUseCase{
		ledger:   ledger,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  metrics,
		logger:   logger.With().Str("component", "ledger_view").Logger(),
	}
}

type cachedPlayerState struct {
	ChipBalance       decimal.Decimal `json:"chip_balance"`
	StoredChips       decimal.Decimal `json:"stored_chips"`
	OutstandingCredit decimal.Decimal `json:"outstanding_credit"`
	CanCashOut        bool            `json:"can_cash_out"`
}

type cachedWalletState struct {
	PrimaryFloatAvailable  decimal.Decimal `json:"primary_float_available"`
	SecondaryWalletBalance decimal.Decimal `json:"secondary_wallet_balance"`
}

// ChipBalance returns the player's ledger position. Only a missing player is
// reported as an error.
func (uc *LedgerViewUseCase) ChipBalance(ctx context.Context, playerID string) (*domain.PlayerLedgerState, error) {
	if playerID == "" {
		return nil, domain.NewValidationError("player_id", domain.ErrPlayerRequired)
	}

	state, err := uc.ledger.FetchChipBalance(ctx, playerID)
	if err == nil {
		state.PlayerID = playerID
		state.Known = true
		state.Stale = false
		uc.store(ctx, playerCacheKey(playerID), cachedPlayerState{
			ChipBalance:       state.ChipBalance,
			StoredChips:       state.StoredChips,
			OutstandingCredit: state.OutstandingCredit,
			CanCashOut:        state.CanCashOut,
		})
		return state, nil
	}

	if errors.Is(err, domain.ErrPlayerNotFound) {
		return nil, err
	}

	uc.degraded(readChipBalance, err, playerID)

	var cached cachedPlayerState
	if uc.load(ctx, playerCacheKey(playerID), &cached) {
		return &domain.PlayerLedgerState{
			PlayerID:          playerID,
			ChipBalance:       cached.ChipBalance,
			StoredChips:       cached.StoredChips,
			OutstandingCredit: cached.OutstandingCredit,
			CanCashOut:        cached.CanCashOut,
			Known:             true,
			Stale:             true,
		}, nil
	}

	return domain.UnknownPlayerState(playerID), nil
}

// WalletState returns the float and secondary wallet figures.
func (uc *LedgerViewUseCase) WalletState(ctx context.Context) *domain.WalletSnapshot {
	state, err := uc.ledger.FetchWalletState(ctx)
	if err == nil {
		uc.store(ctx, walletsCacheKey, cachedWalletState{
			PrimaryFloatAvailable:  state.PrimaryFloatAvailable,
			SecondaryWalletBalance: state.SecondaryWalletBalance,
		})
		return &domain.WalletSnapshot{WalletState: *state, Known: true}
	}

	uc.degraded(readWallets, err, "")

	var cached cachedWalletState
	if uc.load(ctx, walletsCacheKey, &cached) {
		return &domain.WalletSnapshot{
			WalletState: domain.WalletState{
				PrimaryFloatAvailable:  cached.PrimaryFloatAvailable,
				SecondaryWalletBalance: cached.SecondaryWalletBalance,
			},
			Known: true,
			Stale: true,
		}
	}

	return &domain.WalletSnapshot{
		WalletState: domain.WalletState{
			PrimaryFloatAvailable:  decimal.Zero,
			SecondaryWalletBalance: decimal.Zero,
		},
	}
}

// ClassifiedTransaction is a committed record with its display classification.
type ClassifiedTransaction struct {
	Transaction    *domain.Transaction
	Classification domain.Classification
}

// History is a page of classified records and their totals.
type History struct {
	Entries []ClassifiedTransaction
	Summary domain.LedgerSummary
	Limit   int
	Offset  int
	// Known is false when the remote read failed and the page is an empty default.
	Known bool
}

// History lists committed records for a player, newest first.
func (uc *LedgerViewUseCase) History(ctx context.Context, filter domain.TransactionFilter) *History {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)

	page := &History{
		Entries: []ClassifiedTransaction{},
		Summary: domain.Summarize(nil),
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}

	transactions, err := uc.ledger.ListTransactions(ctx, filter)
	if err != nil {
		uc.degraded(readHistory, err, filter.PlayerID)
		return page
	}

	page.Known = true
	page.Summary = domain.Summarize(transactions)
	for _, t := range transactions {
		page.Entries = append(page.Entries, ClassifiedTransaction{
			Transaction:    t,
			Classification: domain.ClassifyTransaction(t),
		})
	}

	return page
}

// Transaction returns one committed record. Unlike list reads, a failure here
// is returned to the caller.
func (uc *LedgerViewUseCase) Transaction(ctx context.Context, id string) (*ClassifiedTransaction, error) {
	t, err := uc.ledger.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ClassifiedTransaction{Transaction: t, Classification: domain.ClassifyTransaction(t)}, nil
}

// Invalidate drops cached figures after a committed mutation.
func (uc *LedgerViewUseCase) Invalidate(ctx context.Context, playerID string) {
	if uc.cache == nil {
		return
	}
	keys := []string{walletsCacheKey}
	if playerID != "" {
		keys = append(keys, playerCacheKey(playerID))
	}
	for _, key := range keys {
		if err := uc.cache.Delete(ctx, key); err != nil {
			uc.logger.Debug().Err(err).Str("key", key).Msg("cache invalidation failed")
		}
	}
}

func (uc *LedgerViewUseCase) degraded(read string, err error, playerID string) {
	uc.metrics.IncDegradedRead(read)
	event := uc.logger.Warn().Err(err).Str("read", read)
	if playerID != "" {
		event = event.Str("player_id", playerID)
	}
	event.Msg("remote read failed, serving degraded view")
}

func (uc *LedgerViewUseCase) store(ctx context.Context, key string, v any) {
	if uc.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, key, data, uc.cacheTTL); err != nil {
		uc.logger.Debug().Err(err).Str("key", key).Msg("balance cache write failed")
	}
}

func (uc *LedgerViewUseCase) load(ctx context.Context, key string, v any) bool {
	if uc.cache == nil {
		return false
	}
	data, err := uc.cache.Get(ctx, key)
	if err != nil || data == nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

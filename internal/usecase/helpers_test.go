package usecase_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/cashdesk/internal/domain"
	"github.com/iho/cashdesk/internal/usecase"
	"github.com/iho/cashdesk/internal/usecase/mocks"
)

type fixture struct {
	ledger    *mocks.MockRemoteLedger
	players   *mocks.MockPlayerDirectory
	intents   *mocks.MockIntentRepository
	audit     *mocks.MockAuditRepository
	proposals *mocks.MockShortfallStore
	cache     *mocks.MockCache

	views      *usecase.LedgerViewUseCase
	cashier    *usecase.CashierUseCase
	shortfalls *usecase.ShortfallUseCase
	reversals  *usecase.ReversalUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	logger := zerolog.Nop()

	f := &fixture{
		ledger: mocks.NewMockRemoteLedger(ctrl),
		players: mocks.NewMockPlayerDirectory(
			&domain.Player{ID: "p-1", Name: "Asha", Phone: "9876543210"},
			&domain.Player{ID: "house-1", Name: "House", Phone: "9000000001", IsHousePlayer: true},
		),
		intents:   mocks.NewMockIntentRepository(),
		audit:     mocks.NewMockAuditRepository(),
		proposals: mocks.NewMockShortfallStore(),
		cache:     mocks.NewMockCache(),
	}

	idGen := mocks.NewMockIDGenerator()
	journal := usecase.NewJournal(mocks.NewMockTransactionManager(), f.intents, f.audit, nil, logger)

	f.views = usecase.NewLedgerViewUseCase(f.ledger, f.cache, 0, nil, logger)
	f.cashier = usecase.NewCashierUseCase(f.ledger, f.players, f.views, journal, f.proposals, 0, idGen, nil, logger)
	f.shortfalls = usecase.NewShortfallUseCase(f.cashier, f.proposals, 0, idGen, logger)
	f.reversals = usecase.NewReversalUseCase(f.ledger, f.views, journal, idGen, nil, logger)

	return f
}

func (f *fixture) expectBalance(playerID string, chips, credit int64) {
	f.ledger.EXPECT().FetchChipBalance(gomock.Any(), playerID).Return(&domain.PlayerLedgerState{
		ChipBalance:       decimal.NewFromInt(chips),
		OutstandingCredit: decimal.NewFromInt(credit),
		CanCashOut:        true,
	}, nil).AnyTimes()
}

func (f *fixture) expectWallets(primary, secondary int64) {
	f.ledger.EXPECT().FetchWalletState(gomock.Any()).Return(&domain.WalletState{
		PrimaryFloatAvailable:  decimal.NewFromInt(primary),
		SecondaryWalletBalance: decimal.NewFromInt(secondary),
	}, nil).AnyTimes()
}

func (f *fixture) journalStatus(t *testing.T) domain.IntentStatus {
	t.Helper()
	records := f.intents.Records()
	if len(records) != 1 {
		t.Fatalf("expected 1 journaled intent, got %d", len(records))
	}
	return records[0].Status
}

func remoteDown(op string) error {
	return &domain.RemoteError{Operation: op, Err: errConnRefused}
}

type constError string

func (e constError) Error() string { return string(e) }

const errConnRefused = constError("connection refused")

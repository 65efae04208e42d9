package handler

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/cashdesk/internal/domain"
	"github.com/iho/cashdesk/internal/usecase"
)

type cashierServiceStub struct {
	previewPayoutFn func(ctx context.Context, input usecase.CashPayoutInput) (*usecase.CashPayoutPreview, error)
	payoutFn        func(ctx context.Context, input usecase.CashPayoutInput) (*usecase.CashPayoutResult, error)
	expenseFn       func(ctx context.Context, input usecase.ExpenseInput) (*usecase.ExpenseResult, error)
	depositFn       func(ctx context.Context, input usecase.DepositInput) (*domain.DepositReceipt, error)
	returnFn        func(ctx context.Context, input usecase.ReturnChipsInput) (*domain.ReturnChipsReceipt, error)
	addFloatFn      func(ctx context.Context, input usecase.FloatTopUpInput) (*domain.FloatTopUpReceipt, error)
	wallets         domain.WalletState
}

func (s *cashierServiceStub) PreviewBreakdown(b domain.ChipBreakdown, declared decimal.Decimal) domain.BreakdownCheck {
	return domain.CheckBreakdown(b, declared)
}

func (s *cashierServiceStub) AutoFill(target decimal.Decimal) (domain.AutoFillResult, error) {
	return domain.AutoFill(target), nil
}

func (s *cashierServiceStub) PreviewCashPayout(ctx context.Context, input usecase.CashPayoutInput) (*usecase.CashPayoutPreview, error) {
	return s.previewPayoutFn(ctx, input)
}

func (s *cashierServiceStub) PreviewExpense(ctx context.Context, amount decimal.Decimal) *usecase.ExpensePreview {
	return &usecase.ExpensePreview{
		Allocation: domain.AllocateExpense(amount, s.wallets),
		Wallets:    &domain.WalletSnapshot{WalletState: s.wallets, Known: true},
	}
}

func (s *cashierServiceStub) SubmitCashPayout(ctx context.Context, input usecase.CashPayoutInput) (*usecase.CashPayoutResult, error) {
	return s.payoutFn(ctx, input)
}

func (s *cashierServiceStub) SubmitExpense(ctx context.Context, input usecase.ExpenseInput) (*usecase.ExpenseResult, error) {
	return s.expenseFn(ctx, input)
}

func (s *cashierServiceStub) SubmitDeposit(ctx context.Context, input usecase.DepositInput) (*domain.DepositReceipt, error) {
	return s.depositFn(ctx, input)
}

func (s *cashierServiceStub) SubmitReturnChips(ctx context.Context, input usecase.ReturnChipsInput) (*domain.ReturnChipsReceipt, error) {
	return s.returnFn(ctx, input)
}

func (s *cashierServiceStub) AddFloat(ctx context.Context, input usecase.FloatTopUpInput) (*domain.FloatTopUpReceipt, error) {
	return s.addFloatFn(ctx, input)
}

type shortfallServiceStub struct {
	getFn      func(ctx context.Context, id string) (*domain.ShortfallProposal, error)
	topUpFn    func(ctx context.Context, id string, amount decimal.Decimal, note string) (*usecase.TopUpResult, error)
	resubmitFn func(ctx context.Context, id string, confirmed bool) (*usecase.CashPayoutResult, error)
}

func (s *shortfallServiceStub) Get(ctx context.Context, id string) (*domain.ShortfallProposal, error) {
	return s.getFn(ctx, id)
}

func (s *shortfallServiceStub) ConfirmTopUp(ctx context.Context, id string, amount decimal.Decimal, note string) (*usecase.TopUpResult, error) {
	return s.topUpFn(ctx, id, amount, note)
}

func (s *shortfallServiceStub) Resubmit(ctx context.Context, id string, confirmed bool) (*usecase.CashPayoutResult, error) {
	return s.resubmitFn(ctx, id, confirmed)
}

type reversalServiceStub struct {
	reverseFn func(ctx context.Context, input usecase.ReverseInput) (*domain.ReversalReceipt, error)
}

func (s *reversalServiceStub) Reverse(ctx context.Context, input usecase.ReverseInput) (*domain.ReversalReceipt, error) {
	return s.reverseFn(ctx, input)
}

type viewServiceStub struct {
	balanceFn     func(ctx context.Context, playerID string) (*domain.PlayerLedgerState, error)
	historyFn     func(ctx context.Context, filter domain.TransactionFilter) *usecase.History
	transactionFn func(ctx context.Context, id string) (*usecase.ClassifiedTransaction, error)
	wallets       *domain.WalletSnapshot
}

func (s *viewServiceStub) ChipBalance(ctx context.Context, playerID string) (*domain.PlayerLedgerState, error) {
	return s.balanceFn(ctx, playerID)
}

func (s *viewServiceStub) WalletState(ctx context.Context) *domain.WalletSnapshot {
	return s.wallets
}

func (s *viewServiceStub) History(ctx context.Context, filter domain.TransactionFilter) *usecase.History {
	return s.historyFn(ctx, filter)
}

func (s *viewServiceStub) Transaction(ctx context.Context, id string) (*usecase.ClassifiedTransaction, error) {
	return s.transactionFn(ctx, id)
}

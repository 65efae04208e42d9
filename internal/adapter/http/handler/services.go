package handler

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/cashdesk/internal/domain"
	"github.com/iho/cashdesk/internal/usecase"
)

// CashierService is implemented by *usecase.CashierUseCase.
type CashierService interface {
	PreviewBreakdown(breakdown domain.ChipBreakdown, declared decimal.Decimal) domain.BreakdownCheck
	AutoFill(target decimal.Decimal) (domain.AutoFillResult, error)
	PreviewCashPayout(ctx context.Context, input usecase.CashPayoutInput) (*usecase.CashPayoutPreview, error)
	PreviewExpense(ctx context.Context, amount decimal.Decimal) *usecase.ExpensePreview
	SubmitCashPayout(ctx context.Context, input usecase.CashPayoutInput) (*usecase.CashPayoutResult, error)
	SubmitExpense(ctx context.Context, input usecase.ExpenseInput) (*usecase.ExpenseResult, error)
	SubmitDeposit(ctx context.Context, input usecase.DepositInput) (*domain.DepositReceipt, error)
	SubmitReturnChips(ctx context.Context, input usecase.ReturnChipsInput) (*domain.ReturnChipsReceipt, error)
	AddFloat(ctx context.Context, input usecase.FloatTopUpInput) (*domain.FloatTopUpReceipt, error)
}

// ShortfallService is implemented by *usecase.ShortfallUseCase.
type ShortfallService interface {
	Get(ctx context.Context, id string) (*domain.ShortfallProposal, error)
	ConfirmTopUp(ctx context.Context, id string, amount decimal.Decimal, note string) (*usecase.TopUpResult, error)
	Resubmit(ctx context.Context, id string, confirmed bool) (*usecase.CashPayoutResult, error)
}

// ReversalService is implemented by *usecase.ReversalUseCase.
type ReversalService interface {
	Reverse(ctx context.Context, input usecase.ReverseInput) (*domain.ReversalReceipt, error)
}

// LedgerViewService is implemented by *usecase.LedgerViewUseCase.
type LedgerViewService interface {
	ChipBalance(ctx context.Context, playerID string) (*domain.PlayerLedgerState, error)
	WalletState(ctx context.Context) *domain.WalletSnapshot
	History(ctx context.Context, filter domain.TransactionFilter) *usecase.History
	Transaction(ctx context.Context, id string) (*usecase.ClassifiedTransaction, error)
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashdesk/internal/domain"
	"github.com/iho/cashdesk/internal/usecase"
)

// money renders an amount with two decimal places.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// BreakdownCheckResponse reconciles chip counts against a declared amount.
type BreakdownCheckResponse struct {
	Breakdown  map[string]int64 `json:"breakdown"`
	Total      string           `json:"total"`
	Declared   string           `json:"declared"`
	Difference string           `json:"difference"`
	Valid      bool             `json:"valid"`
}

// BreakdownCheckFromDomain converts a breakdown check to response.
func BreakdownCheckFromDomain(b domain.ChipBreakdown, c domain.BreakdownCheck) *BreakdownCheckResponse {
	return &BreakdownCheckResponse{
		Breakdown:  b.Normalized().Wire(),
		Total:      money(c.Total),
		Declared:   money(c.Declared),
		Difference: money(c.Difference),
		Valid:      c.Valid,
	}
}

// AutoFillResponse is the greedy breakdown for a target.
type AutoFillResponse struct {
	Breakdown map[string]int64 `json:"breakdown"`
	Total     string           `json:"total"`
	Remainder string           `json:"remainder"`
}

// AutoFillFromDomain converts an auto-fill result to response.
func AutoFillFromDomain(r domain.AutoFillResult) *AutoFillResponse {
	return &AutoFillResponse{
		Breakdown: r.Breakdown.Wire(),
		Total:     money(r.Breakdown.Total()),
		Remainder: money(r.Remainder),
	}
}

// SettlementResponse is a credit settlement split.
type SettlementResponse struct {
	TotalChipValue       string `json:"total_chip_value"`
	OutstandingCredit    string `json:"outstanding_credit"`
	CreditToSettle       string `json:"credit_to_settle"`
	NetCashPayout        string `json:"net_cash_payout"`
	CreditRemainingAfter string `json:"credit_remaining_after"`
}

// SettlementFromDomain converts a settlement to response.
func SettlementFromDomain(s domain.CreditSettlement) SettlementResponse {
	return SettlementResponse{
		TotalChipValue:       money(s.TotalChipValue),
		OutstandingCredit:    money(s.OutstandingCredit),
		CreditToSettle:       money(s.CreditToSettle),
		NetCashPayout:        money(s.NetCashPayout),
		CreditRemainingAfter: money(s.CreditRemainingAfter),
	}
}

// WalletsResponse is the cashier's wallet view.
type WalletsResponse struct {
	PrimaryFloatAvailable  string `json:"primary_float_available"`
	SecondaryWalletBalance string `json:"secondary_wallet_balance"`
	TotalAvailable         string `json:"total_available"`
	Known                  bool   `json:"known"`
	Stale                  bool   `json:"stale"`
}

// WalletsFromDomain converts a wallet snapshot to response.
func WalletsFromDomain(w *domain.WalletSnapshot) *WalletsResponse {
	return &WalletsResponse{
		PrimaryFloatAvailable:  money(w.PrimaryFloatAvailable),
		SecondaryWalletBalance: money(w.SecondaryWalletBalance),
		TotalAvailable:         money(w.TotalAvailable()),
		Known:                  w.Known,
		Stale:                  w.Stale,
	}
}

// PlayerBalanceResponse is a player's position with the house.
type PlayerBalanceResponse struct {
	PlayerID          string `json:"player_id"`
	ChipBalance       string `json:"chip_balance"`
	StoredChips       string `json:"stored_chips"`
	OutstandingCredit string `json:"outstanding_credit"`
	CanCashOut        bool   `json:"can_cash_out"`
	Known             bool   `json:"known"`
	Stale             bool   `json:"stale"`
}

// PlayerBalanceFromDomain converts a player state to response.
func PlayerBalanceFromDomain(s *domain.PlayerLedgerState) *PlayerBalanceResponse {
	return &PlayerBalanceResponse{
		PlayerID:          s.PlayerID,
		ChipBalance:       money(s.ChipBalance),
		StoredChips:       money(s.StoredChips),
		OutstandingCredit: money(s.OutstandingCredit),
		CanCashOut:        s.CanCashOut,
		Known:             s.Known,
		Stale:             s.Stale,
	}
}

// FloatWarningResponse warns that a payout exceeds the known float.
type FloatWarningResponse struct {
	PayoutAmount   string `json:"payout_amount"`
	FloatAvailable string `json:"float_available"`
	Shortfall      string `json:"shortfall"`
}

func floatWarningFromDomain(w *domain.FloatWarning) *FloatWarningResponse {
	if w == nil {
		return nil
	}
	return &FloatWarningResponse{
		PayoutAmount:   money(w.PayoutAmount),
		FloatAvailable: money(w.FloatAvailable),
		Shortfall:      money(w.Shortfall),
	}
}

// CashPayoutPreviewResponse is everything the operator sees before confirming.
type CashPayoutPreviewResponse struct {
	Player            PlayerResponse          `json:"player"`
	Balance           *PlayerBalanceResponse  `json:"balance"`
	Breakdown         *BreakdownCheckResponse `json:"breakdown,omitempty"`
	Settlement        SettlementResponse      `json:"settlement"`
	Wallets           *WalletsResponse        `json:"wallets"`
	FloatWarning      *FloatWarningResponse   `json:"float_warning,omitempty"`
	InsufficientChips bool                    `json:"insufficient_chips"`
	RequiresApproval  bool                    `json:"requires_approval"`
}

// PlayerResponse is the player profile slice shown to the operator.
type PlayerResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	IsHousePlayer bool   `json:"is_house_player"`
}

// CashPayoutPreviewFromUseCase converts a payout preview to response.
func CashPayoutPreviewFromUseCase(p *usecase.CashPayoutPreview, breakdown domain.ChipBreakdown) *CashPayoutPreviewResponse {
	resp := &CashPayoutPreviewResponse{
		Player: PlayerResponse{
			ID:            p.Player.ID,
			Name:          p.Player.Name,
			IsHousePlayer: p.Player.IsHousePlayer,
		},
		Balance:           PlayerBalanceFromDomain(p.PlayerState),
		Settlement:        SettlementFromDomain(p.Settlement),
		Wallets:           WalletsFromDomain(p.Wallets),
		FloatWarning:      floatWarningFromDomain(p.FloatWarning),
		InsufficientChips: p.InsufficientChips != nil,
		RequiresApproval:  p.RequiresApproval,
	}
	if p.Breakdown != nil {
		resp.Breakdown = BreakdownCheckFromDomain(breakdown, *p.Breakdown)
	}
	return resp
}

// CashPayoutResponse is a committed payout.
type CashPayoutResponse struct {
	TransactionID string                `json:"transaction_id"`
	CreditSettled string                `json:"credit_settled"`
	NetCashPaid   string                `json:"net_cash_paid"`
	Settlement    SettlementResponse    `json:"settlement"`
	FloatWarning  *FloatWarningResponse `json:"float_warning,omitempty"`
}

// CashPayoutFromUseCase converts a payout result to response.
func CashPayoutFromUseCase(r *usecase.CashPayoutResult) *CashPayoutResponse {
	return &CashPayoutResponse{
		TransactionID: r.Receipt.TransactionID,
		CreditSettled: money(r.Receipt.CreditSettled),
		NetCashPaid:   money(r.Receipt.NetCashPaid),
		Settlement:    SettlementFromDomain(r.Settlement),
		FloatWarning:  floatWarningFromDomain(r.FloatWarning),
	}
}

// WalletDrawResponse is the amount taken from one wallet.
type WalletDrawResponse struct {
	Wallet string `json:"wallet"`
	Amount string `json:"amount"`
}

// AllocationResponse is a wallet cascade.
type AllocationResponse struct {
	Requested      string               `json:"requested"`
	Draws          []WalletDrawResponse `json:"draws"`
	TotalAvailable string               `json:"total_available"`
	Shortfall      string               `json:"shortfall"`
	Valid          bool                 `json:"valid"`
}

// AllocationFromDomain converts an allocation to response.
func AllocationFromDomain(a domain.Allocation) AllocationResponse {
	draws := make([]WalletDrawResponse, len(a.Draws))
	for i, d := range a.Draws {
		draws[i] = WalletDrawResponse{Wallet: d.Wallet, Amount: money(d.Amount)}
	}
	return AllocationResponse{
		Requested:      money(a.Requested),
		Draws:          draws,
		TotalAvailable: money(a.TotalAvailable),
		Shortfall:      money(a.Shortfall),
		Valid:          a.IsValid,
	}
}

// ExpensePreviewResponse is the cascade for a prospective expense.
type ExpensePreviewResponse struct {
	Allocation AllocationResponse `json:"allocation"`
	Wallets    *WalletsResponse   `json:"wallets"`
}

// ExpensePreviewFromUseCase converts an expense preview to response.
func ExpensePreviewFromUseCase(p *usecase.ExpensePreview) *ExpensePreviewResponse {
	return &ExpensePreviewResponse{
		Allocation: AllocationFromDomain(p.Allocation),
		Wallets:    WalletsFromDomain(p.Wallets),
	}
}

// ExpenseResponse is a committed expense.
type ExpenseResponse struct {
	TransactionID string `json:"transaction_id"`
	SecondaryDraw string `json:"secondary_draw"`
	PrimaryDraw   string `json:"primary_draw"`
}

// ExpenseFromUseCase converts an expense result to response.
func ExpenseFromUseCase(r *usecase.ExpenseResult) *ExpenseResponse {
	return &ExpenseResponse{
		TransactionID: r.Receipt.TransactionID,
		SecondaryDraw: money(r.Receipt.SecondaryDraw),
		PrimaryDraw:   money(r.Receipt.PrimaryDraw),
	}
}

// DepositResponse is a committed deposit.
type DepositResponse struct {
	TransactionID    string `json:"transaction_id"`
	NewStoredBalance string `json:"new_stored_balance"`
}

// DepositFromDomain converts a deposit receipt to response.
func DepositFromDomain(r *domain.DepositReceipt) *DepositResponse {
	return &DepositResponse{TransactionID: r.TransactionID, NewStoredBalance: money(r.NewStoredBalance)}
}

// ChipReturnResponse is a committed chip return.
type ChipReturnResponse struct {
	TransactionID  string `json:"transaction_id"`
	RemainingChips string `json:"remaining_chips"`
}

// ChipReturnFromDomain converts a chip return receipt to response.
func ChipReturnFromDomain(r *domain.ReturnChipsReceipt) *ChipReturnResponse {
	return &ChipReturnResponse{TransactionID: r.TransactionID, RemainingChips: money(r.RemainingChips)}
}

// FloatTopUpResponse is a committed float top-up.
type FloatTopUpResponse struct {
	TransactionID     string `json:"transaction_id"`
	NewFloatAvailable string `json:"new_float_available"`
}

// FloatTopUpFromDomain converts a top-up receipt to response.
func FloatTopUpFromDomain(r *domain.FloatTopUpReceipt) *FloatTopUpResponse {
	return &FloatTopUpResponse{TransactionID: r.TransactionID, NewFloatAvailable: money(r.NewFloatAvailable)}
}

// ShortfallProposalResponse is a float-shortfall proposal.
type ShortfallProposalResponse struct {
	ID                 string    `json:"id"`
	State              string    `json:"state"`
	RequiredTopUp      string    `json:"required_top_up"`
	PlayerID           string    `json:"player_id"`
	TotalValue         string    `json:"total_value"`
	NetCashPayout      string    `json:"net_cash_payout"`
	Message            string    `json:"message,omitempty"`
	TopUpTransactionID string    `json:"top_up_transaction_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ShortfallProposalFromDomain converts a proposal to response.
func ShortfallProposalFromDomain(p *domain.ShortfallProposal) *ShortfallProposalResponse {
	return &ShortfallProposalResponse{
		ID:                 p.ID,
		State:              string(p.State),
		RequiredTopUp:      money(p.RequiredTopUp),
		PlayerID:           p.Payout.PlayerID,
		TotalValue:         money(p.Payout.TotalValue),
		NetCashPayout:      money(p.Payout.Settlement.NetCashPayout),
		Message:            p.Message,
		TopUpTransactionID: p.TopUpTransactionID,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// TopUpResultResponse is a rearmed proposal and its top-up.
type TopUpResultResponse struct {
	Proposal *ShortfallProposalResponse `json:"proposal"`
	TopUp    *FloatTopUpResponse        `json:"top_up"`
}

// TopUpResultFromUseCase converts a top-up result to response.
func TopUpResultFromUseCase(r *usecase.TopUpResult) *TopUpResultResponse {
	return &TopUpResultResponse{
		Proposal: ShortfallProposalFromDomain(r.Proposal),
		TopUp:    FloatTopUpFromDomain(r.Receipt),
	}
}

// ReversalResponse is a committed reversal.
type ReversalResponse struct {
	OriginalID      string `json:"original_id"`
	OriginalStatus  string `json:"original_status"`
	ReversalEntryID string `json:"reversal_entry_id"`
}

// ReversalFromDomain converts a reversal receipt to response.
func ReversalFromDomain(r *domain.ReversalReceipt) *ReversalResponse {
	return &ReversalResponse{
		OriginalID:      r.OriginalID,
		OriginalStatus:  string(r.OriginalStatus),
		ReversalEntryID: r.ReversalEntryID,
	}
}

// TransactionResponse is a committed record with its classification.
type TransactionResponse struct {
	ID           string           `json:"id"`
	Type         string           `json:"type"`
	ActivityType string           `json:"activity_type,omitempty"`
	Amount       string           `json:"amount"`
	Breakdown    map[string]int64 `json:"breakdown,omitempty"`
	PlayerID     *string          `json:"player_id,omitempty"`
	WalletFrom   string           `json:"wallet_from,omitempty"`
	WalletTo     string           `json:"wallet_to,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	Status       string           `json:"status"`
	Edited       bool             `json:"edited"`
	ReversalOf   *string          `json:"reversal_of,omitempty"`
	ReversedBy   *string          `json:"reversed_by,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`

	Label     string `json:"label"`
	Direction string `json:"direction"`
	IsInflow  bool   `json:"is_inflow"`
	IconClass string `json:"icon_class"`
}

// TransactionFromUseCase converts a classified transaction to response.
func TransactionFromUseCase(ct *usecase.ClassifiedTransaction) *TransactionResponse {
	t := ct.Transaction
	resp := &TransactionResponse{
		ID:           t.ID,
		Type:         string(t.Type),
		ActivityType: string(t.ActivityType),
		Amount:       money(t.Amount),
		PlayerID:     t.PlayerID,
		WalletFrom:   t.WalletFrom,
		WalletTo:     t.WalletTo,
		Notes:        t.Notes,
		Status:       string(t.Status),
		Edited:       t.Edited,
		ReversalOf:   t.ReversalOf,
		ReversedBy:   t.ReversedBy,
		CreatedAt:    t.CreatedAt,
		Label:        ct.Classification.Label,
		Direction:    string(ct.Classification.Direction),
		IsInflow:     ct.Classification.IsInflow,
		IconClass:    ct.Classification.IconClass,
	}
	if !t.Breakdown.IsEmpty() {
		resp.Breakdown = t.Breakdown.Wire()
	}
	return resp
}

// SummaryResponse totals a page of records.
type SummaryResponse struct {
	Inflow  string `json:"inflow"`
	Outflow string `json:"outflow"`
	Net     string `json:"net"`
	Count   int    `json:"count"`
}

// HistoryResponse is a page of classified records.
type HistoryResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Summary      SummaryResponse        `json:"summary"`
	Limit        int                    `json:"limit"`
	Offset       int                    `json:"offset"`
	Known        bool                   `json:"known"`
}

// HistoryFromUseCase converts a history page to response.
func HistoryFromUseCase(h *usecase.History) *HistoryResponse {
	txs := make([]*TransactionResponse, len(h.Entries))
	for i := range h.Entries {
		txs[i] = TransactionFromUseCase(&h.Entries[i])
	}
	return &HistoryResponse{
		Transactions: txs,
		Summary: SummaryResponse{
			Inflow:  money(h.Summary.Inflow),
			Outflow: money(h.Summary.Outflow),
			Net:     money(h.Summary.Net),
			Count:   h.Summary.Count,
		},
		Limit:  h.Limit,
		Offset: h.Offset,
		Known:  h.Known,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error    string                     `json:"error"`
	Message  string                     `json:"message,omitempty"`
	Field    string                     `json:"field,omitempty"`
	Proposal *ShortfallProposalResponse `json:"proposal,omitempty"`
}

package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/iho/cashdesk/internal/adapter/http/dto"
	"github.com/iho/cashdesk/internal/domain"
)

// CashierHandler handles cashier previews and submissions.
type CashierHandler struct {
	cashier CashierService
}

// NewCashierHandler creates a new CashierHandler.
func NewCashierHandler(cashier CashierService) *CashierHandler {
	return &CashierHandler{cashier: cashier}
}

// PreviewBreakdown reconciles chip counts against a declared amount.
func (h *CashierHandler) PreviewBreakdown(w http.ResponseWriter, r *http.Request) {
	var req dto.BreakdownPreviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	breakdown, declared, err := req.Parse()
	if err != nil {
		writeDomainError(w, "invalid breakdown", err)
		return
	}

	check := h.cashier.PreviewBreakdown(breakdown, declared)
	writeJSON(w, http.StatusOK, dto.BreakdownCheckFromDomain(breakdown, check))
}

// AutoFill returns the greedy breakdown for a target amount.
func (h *CashierHandler) AutoFill(w http.ResponseWriter, r *http.Request) {
	var req dto.AutoFillRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	target, err := decimal.NewFromString(req.Target)
	if err != nil {
		writeDomainError(w, "invalid target", domain.NewValidationError("target", domain.ErrInvalidAmount))
		return
	}
	if err := domain.ValidateAmount("target", target); err != nil {
		writeDomainError(w, "invalid target", err)
		return
	}

	result, err := h.cashier.AutoFill(target)
	if err != nil {
		writeDomainError(w, "invalid target", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AutoFillFromDomain(result))
}

// PreviewCashPayout shows the settlement and warnings for a payout.
func (h *CashierHandler) PreviewCashPayout(w http.ResponseWriter, r *http.Request) {
	var req dto.CashPayoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid payout", err)
		return
	}

	preview, err := h.cashier.PreviewCashPayout(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to preview payout", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CashPayoutPreviewFromUseCase(preview, input.Breakdown))
}

// PreviewExpense shows how an expense would be funded.
func (h *CashierHandler) PreviewExpense(w http.ResponseWriter, r *http.Request) {
	var req dto.ExpensePreviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeDomainError(w, "invalid amount", domain.NewValidationError("amount", domain.ErrInvalidAmount))
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpensePreviewFromUseCase(h.cashier.PreviewExpense(r.Context(), amount)))
}

// CashPayout submits a cash payout. An insufficient-float rejection returns
// 409 with the top-up proposal.
func (h *CashierHandler) CashPayout(w http.ResponseWriter, r *http.Request) {
	var req dto.CashPayoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid payout", err)
		return
	}

	result, err := h.cashier.SubmitCashPayout(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to submit payout", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CashPayoutFromUseCase(result))
}

// Expense submits a house expense.
func (h *CashierHandler) Expense(w http.ResponseWriter, r *http.Request) {
	var req dto.ExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid expense", err)
		return
	}

	result, err := h.cashier.SubmitExpense(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to submit expense", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ExpenseFromUseCase(result))
}

// Deposit banks chips or cash for a player.
func (h *CashierHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid deposit", err)
		return
	}

	receipt, err := h.cashier.SubmitDeposit(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to submit deposit", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.DepositFromDomain(receipt))
}

// ChipReturn takes chips back without a cash payout.
func (h *CashierHandler) ChipReturn(w http.ResponseWriter, r *http.Request) {
	var req dto.ChipReturnRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid chip return", err)
		return
	}

	receipt, err := h.cashier.SubmitReturnChips(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to submit chip return", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ChipReturnFromDomain(receipt))
}

// FloatTopUp adds cash to the float.
func (h *CashierHandler) FloatTopUp(w http.ResponseWriter, r *http.Request) {
	var req dto.TopUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid top-up", err)
		return
	}

	receipt, err := h.cashier.AddFloat(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to top up float", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.FloatTopUpFromDomain(receipt))
}

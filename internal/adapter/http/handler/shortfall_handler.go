package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashdesk/internal/adapter/http/dto"
)

// ShortfallHandler drives float-shortfall proposals.
type ShortfallHandler struct {
	shortfalls ShortfallService
}

// NewShortfallHandler creates a new ShortfallHandler.
func NewShortfallHandler(shortfalls ShortfallService) *ShortfallHandler {
	return &ShortfallHandler{shortfalls: shortfalls}
}

// Get returns a stored proposal.
func (h *ShortfallHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing proposal ID", "")
		return
	}

	proposal, err := h.shortfalls.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get proposal", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ShortfallProposalFromDomain(proposal))
}

// TopUp adds at least the required amount to the float and rearms the payout.
func (h *ShortfallHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing proposal ID", "")
		return
	}

	var req dto.TopUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid top-up", err)
		return
	}

	result, err := h.shortfalls.ConfirmTopUp(r.Context(), id, input.Amount, input.Note)
	if err != nil {
		writeDomainError(w, "failed to top up float", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TopUpResultFromUseCase(result))
}

// Resubmit sends the rearmed payout again.
func (h *ShortfallHandler) Resubmit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing proposal ID", "")
		return
	}

	var req dto.ResubmitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.shortfalls.Resubmit(r.Context(), id, req.Confirmed)
	if err != nil {
		writeDomainError(w, "failed to resubmit payout", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CashPayoutFromUseCase(result))
}

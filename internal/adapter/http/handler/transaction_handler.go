package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashdesk/internal/adapter/http/dto"
	"github.com/iho/cashdesk/internal/domain"
)

// TransactionHandler serves the ledger read side and reversals.
type TransactionHandler struct {
	views     LedgerViewService
	reversals ReversalService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(views LedgerViewService, reversals ReversalService) *TransactionHandler {
	return &TransactionHandler{views: views, reversals: reversals}
}

// Get returns one classified transaction.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	tx, err := h.views.Transaction(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromUseCase(tx))
}

// Reverse requests a compensating entry for a transaction.
func (h *TransactionHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	var req dto.ReverseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	receipt, err := h.reversals.Reverse(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeDomainError(w, "failed to reverse transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ReversalFromDomain(receipt))
}

// PlayerBalance returns a player's chip position. A failed read degrades to
// cached or zeroed figures flagged in the response.
func (h *TransactionHandler) PlayerBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing player ID", "")
		return
	}

	state, err := h.views.ChipBalance(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PlayerBalanceFromDomain(state))
}

// PlayerHistory lists a player's transactions, newest first.
func (h *TransactionHandler) PlayerHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing player ID", "")
		return
	}

	filter := domain.TransactionFilter{
		PlayerID: id,
		Limit:    parseIntQuery(r, "limit", 50),
		Offset:   parseIntQuery(r, "offset", 0),
	}

	if raw := r.URL.Query().Get("type"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				filter.Types = append(filter.Types, domain.TransactionType(t))
			}
		}
	}

	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid since", err.Error())
			return
		}
		filter.Since = &since
	}

	writeJSON(w, http.StatusOK, dto.HistoryFromUseCase(h.views.History(r.Context(), filter)))
}

// Wallets returns the wallet balances.
func (h *TransactionHandler) Wallets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.WalletsFromDomain(h.views.WalletState(r.Context())))
}

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/cashdesk/internal/adapter/http/dto"
	"github.com/iho/cashdesk/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/players/p-1/transactions?limit=50", nil)
	if got := parseIntQuery(req, "limit", 10); got != 50 {
		t.Fatalf("expected limit=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/players/p-1/transactions?limit=invalid", nil)
	if got := parseIntQuery(req, "limit", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", domain.NewValidationError("amount", domain.ErrInvalidAmount), http.StatusBadRequest},
		{"top-up below required", domain.NewValidationError("amount", domain.ErrTopUpBelowRequired), http.StatusBadRequest},
		{"insufficient role", domain.ErrInsufficientRole, http.StatusForbidden},
		{"player not found", domain.ErrPlayerNotFound, http.StatusNotFound},
		{"transaction not found", domain.ErrTransactionNotFound, http.StatusNotFound},
		{"proposal not found", domain.ErrProposalNotFound, http.StatusNotFound},
		{"already reversed", fmt.Errorf("wrap: %w", domain.ErrTransactionAlreadyReversed), http.StatusConflict},
		{"insufficient float", &domain.InsufficientFloatError{RequiredAmount: decimal.NewFromInt(10)}, http.StatusConflict},
		{"proposal not rearmed", domain.ErrProposalNotRearmed, http.StatusConflict},
		{"insufficient chips", &domain.InsufficientChipsError{}, http.StatusUnprocessableEntity},
		{"wallet shortfall", &domain.WalletShortfallError{}, http.StatusUnprocessableEntity},
		{"remote rejected", domain.ErrRemoteRejected, http.StatusUnprocessableEntity},
		{"remote unavailable", &domain.RemoteError{Operation: "payout", Err: errors.New("eof")}, http.StatusBadGateway},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteDomainError_CarriesFieldAndProposal(t *testing.T) {
	rr := httptest.NewRecorder()
	writeDomainError(rr, "invalid", domain.NewValidationError("phone", domain.ErrInvalidPhone))

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Field != "phone" {
		t.Fatalf("expected field phone, got %+v", resp)
	}

	rr = httptest.NewRecorder()
	writeDomainError(rr, "failed", &domain.ShortfallProposalError{
		Proposal: &domain.ShortfallProposal{ID: "sp-1", RequiredTopUp: decimal.NewFromInt(4000)},
		Err:      &domain.InsufficientFloatError{RequiredAmount: decimal.NewFromInt(4000)},
	})

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
	resp = dto.ErrorResponse{}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Proposal == nil || resp.Proposal.ID != "sp-1" || resp.Proposal.RequiredTopUp != "4000.00" {
		t.Fatalf("expected proposal in response, got %+v", resp.Proposal)
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("expected payload to round-trip, got %+v", decoded)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "bad request", "detail")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if resp.Error != "bad request" {
		t.Fatalf("expected error message to propagate, got %+v", resp)
	}
}

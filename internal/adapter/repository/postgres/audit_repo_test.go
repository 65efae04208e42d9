package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"

	"github.com/iho/cashdesk/internal/domain"
)

func TestAuditRepositoryCreateAssignsID(t *testing.T) {
	mockPool := newMockPool(t)
	now := time.Now().UTC()

	mockPool.ExpectExec("INSERT INTO operator_audit_logs").
		WithArgs(pgxmock.AnyArg(), "op-1", "transaction.reverse", "intent", "01J010", "req-9",
			pgxmock.AnyArg(), "success", nil, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := newAuditRepository(mockPool)
	log := &domain.AuditLog{
		OperatorID:   "op-1",
		Action:       string(domain.AuditActionTransactionRevert),
		ResourceType: "intent",
		ResourceID:   "01J010",
		RequestID:    "req-9",
		Details:      domain.JSON{"reason": "wrong_amount"},
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	}

	if err := repo.Create(context.Background(), log); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if log.ID == "" {
		t.Fatalf("expected generated id")
	}

	assertExpectations(t, mockPool)
}

func TestAuditRepositoryListBuildsFilter(t *testing.T) {
	mockPool := newMockPool(t)
	now := time.Now().UTC()

	columns := []string{
		"id", "operator_id", "action", "resource_type", "resource_id",
		"request_id", "details", "status", "error_message", "created_at",
	}

	mockPool.ExpectQuery(`WHERE operator_id = \$1 AND action = \$2 .* LIMIT \$3 OFFSET \$4`).
		WithArgs("op-3", "payout.submit", 10, 20).
		WillReturnRows(pgxmock.NewRows(columns).AddRow(
			"01J011", "op-3", "payout.submit", "intent", "01J011",
			"", []byte(`{"remote_ref":"txn-8"}`), "success", "", now,
		))

	repo := newAuditRepository(mockPool)
	logs, err := repo.List(context.Background(), domain.AuditFilter{
		OperatorID: "op-3",
		Action:     "payout.submit",
		Limit:      10,
		Offset:     20,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(logs) != 1 || logs[0].Details["remote_ref"] != "txn-8" {
		t.Fatalf("unexpected logs %+v", logs)
	}

	assertExpectations(t, mockPool)
}

func TestAuditRepositoryGetByResourceID(t *testing.T) {
	mockPool := newMockPool(t)

	mockPool.ExpectQuery(`WHERE resource_type = \$1 AND resource_id = \$2`).
		WithArgs("intent", "01J012", 50, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	repo := newAuditRepository(mockPool)
	logs, err := repo.GetByResourceID(context.Background(), "intent", "01J012")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(logs) != 0 {
		t.Fatalf("expected no logs, got %d", len(logs))
	}

	assertExpectations(t, mockPool)
}

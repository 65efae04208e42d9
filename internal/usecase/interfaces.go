package usecase

import (
	"context"
	"time"

	"github.com/iho/cashdesk/internal/domain"
)

// RemoteLedger is the external ledger store. It is the source of truth for
// every balance mutation; submissions carry the intent id as idempotency key.
type RemoteLedger interface {
	FetchChipBalance(ctx context.Context, playerID string) (*domain.PlayerLedgerState, error)
	FetchWalletState(ctx context.Context) (*domain.WalletState, error)
	SubmitCashPayout(ctx context.Context, intent domain.CashPayoutIntent) (*domain.CashPayoutReceipt, error)
	SubmitExpense(ctx context.Context, intent domain.ExpenseIntent) (*domain.ExpenseReceipt, error)
	SubmitDeposit(ctx context.Context, intent domain.DepositIntent) (*domain.DepositReceipt, error)
	SubmitReturnChips(ctx context.Context, intent domain.ReturnChipsIntent) (*domain.ReturnChipsReceipt, error)
	AddFloat(ctx context.Context, intent domain.FloatTopUpIntent) (*domain.FloatTopUpReceipt, error)
	ReverseTransaction(ctx context.Context, intent domain.ReversalIntent) (*domain.ReversalReceipt, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error)
}

// PlayerDirectory is the external player-profile collaborator.
type PlayerDirectory interface {
	GetPlayer(ctx context.Context, id string) (*domain.Player, error)
	LookupByPhone(ctx context.Context, phone string) (*domain.Player, error)
}

// IntentRepository defines data access for the intent journal.
type IntentRepository interface {
	Create(ctx context.Context, tx Transaction, record *domain.IntentRecord) error
	UpdateStatus(ctx context.Context, tx Transaction, record *domain.IntentRecord) error
	GetByID(ctx context.Context, id string) (*domain.IntentRecord, error)
	ListByOperator(ctx context.Context, operatorID string, limit, offset int) ([]*domain.IntentRecord, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
	GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// ShortfallStore keeps float-shortfall proposals between operator actions.
type ShortfallStore interface {
	Save(ctx context.Context, proposal *domain.ShortfallProposal, ttl time.Duration) error
	Get(ctx context.Context, id string) (*domain.ShortfallProposal, error)
	Delete(ctx context.Context, id string) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation that failed with a transient database error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}

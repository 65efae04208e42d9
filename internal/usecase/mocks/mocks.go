package mocks

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/iho/cashdesk/internal/domain"
	"github.com/iho/cashdesk/internal/usecase"
)

// MockPlayerDirectory is a mock implementation of PlayerDirectory.
type MockPlayerDirectory struct {
	mu      sync.RWMutex
	players map[string]*domain.Player

	GetPlayerFunc     func(ctx context.Context, id string) (*domain.Player, error)
	LookupByPhoneFunc func(ctx context.Context, phone string) (*domain.Player, error)
}

func NewMockPlayerDirectory(players ...*domain.Player) *MockPlayerDirectory {
	m := &MockPlayerDirectory{players: make(map[string]*domain.Player)}
	for _, p := range players {
		m.players[p.ID] = p
	}
	return m
}

func (m *MockPlayerDirectory) GetPlayer(ctx context.Context, id string) (*domain.Player, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.players[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPlayerNotFound
}

func (m *MockPlayerDirectory) LookupByPhone(ctx context.Context, phone string) (*domain.Player, error) {
	if m.LookupByPhoneFunc != nil {
		return m.LookupByPhoneFunc(ctx, phone)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.players {
		if p.Phone == phone {
			return p, nil
		}
	}
	return nil, domain.ErrPlayerNotFound
}

// MockIntentRepository is a mock implementation of IntentRepository.
type MockIntentRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.IntentRecord

	CreateFunc       func(ctx context.Context, tx usecase.Transaction, record *domain.IntentRecord) error
	UpdateStatusFunc func(ctx context.Context, tx usecase.Transaction, record *domain.IntentRecord) error
}

func NewMockIntentRepository() *MockIntentRepository {
	return &MockIntentRepository{records: make(map[string]*domain.IntentRecord)}
}

func (m *MockIntentRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.IntentRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *record
	m.records[record.ID] = &stored
	return nil
}

func (m *MockIntentRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, record *domain.IntentRecord) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[record.ID]; !ok {
		return domain.ErrIntentNotFound
	}
	stored := *record
	m.records[record.ID] = &stored
	return nil
}

func (m *MockIntentRepository) GetByID(ctx context.Context, id string) (*domain.IntentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.records[id]; ok {
		return r, nil
	}
	return nil, domain.ErrIntentNotFound
}

func (m *MockIntentRepository) ListByOperator(ctx context.Context, operatorID string, limit, offset int) ([]*domain.IntentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.IntentRecord
	for _, r := range m.records {
		if r.OperatorID == operatorID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Records returns every journaled intent.
func (m *MockIntentRepository) Records() []*domain.IntentRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.IntentRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	return out
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AuditLog
	for _, l := range m.logs {
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.OperatorID != "" && l.OperatorID != filter.OperatorID {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *MockAuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AuditLog
	for _, l := range m.logs {
		if l.ResourceType == resourceType && l.ResourceID == resourceID {
			out = append(out, l)
		}
	}
	return out, nil
}

// MockShortfallStore is a mock implementation of ShortfallStore.
type MockShortfallStore struct {
	mu        sync.RWMutex
	proposals map[string]domain.ShortfallProposal

	SaveFunc func(ctx context.Context, proposal *domain.ShortfallProposal, ttl time.Duration) error
}

func NewMockShortfallStore() *MockShortfallStore {
	return &MockShortfallStore{proposals: make(map[string]domain.ShortfallProposal)}
}

func (m *MockShortfallStore) Save(ctx context.Context, proposal *domain.ShortfallProposal, ttl time.Duration) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, proposal, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proposals[proposal.ID] = *proposal
	return nil
}

func (m *MockShortfallStore) Get(ctx context.Context, id string) (*domain.ShortfallProposal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.proposals[id]
	if !ok {
		return nil, domain.ErrProposalNotFound
	}
	return &p, nil
}

func (m *MockShortfallStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.proposals[id]; !ok {
		return domain.ErrProposalNotFound
	}
	delete(m.proposals, id)
	return nil
}

// Len returns the number of stored proposals.
func (m *MockShortfallStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.proposals)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc func(ctx context.Context, key string) ([]byte, error)
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "mock-id-" + strconv.Itoa(m.counter)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockRetrier is a mock implementation of Retrier that retries a fixed number of times.
type MockRetrier struct {
	Attempts int
	Calls    int
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	var err error
	for i := 0; i <= m.Attempts; i++ {
		m.Calls++
		if err = operation(); err == nil {
			return nil
		}
	}
	return err
}

package shipping

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/napsterimports/backend/internal/domain/shipping"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher collects published events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEvents() []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, len(m.events))
	copy(result, m.events)
	return result
}

// MockConfigRepository is a mock implementation of shipping.ConfigRepository
type MockConfigRepository struct {
	mock.Mock
}

func (m *MockConfigRepository) Find(ctx context.Context) (*shipping.Config, error) {
	args := m.Called(ctx)
	if fn, ok := args.Get(0).(func(context.Context) *shipping.Config); ok {
		return fn(ctx), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Config), args.Error(1)
}

func (m *MockConfigRepository) Create(ctx context.Context, cfg *shipping.Config) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockConfigRepository) SaveWithVersion(ctx context.Context, cfg *shipping.Config) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

// MockAuditLogRepository is a mock implementation of shipping.AuditLogRepository
type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Append(ctx context.Context, entry *shipping.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditLogRepository) List(ctx context.Context, filter shared.Filter) ([]shipping.AuditEntry, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]shipping.AuditEntry), args.Get(1).(int64), args.Error(2)
}

// MockBatchRepository is a mock implementation of shipping.BatchRepository
type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipping.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*shipping.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindOpenByMode(ctx context.Context, mode shipping.TransportMode) (*shipping.Batch, error) {
	args := m.Called(ctx, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]shipping.Batch, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]shipping.Batch), args.Get(1).(int64), args.Error(2)
}

func (m *MockBatchRepository) Create(ctx context.Context, batch *shipping.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchRepository) SaveWithLock(ctx context.Context, batch *shipping.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

// MockSettlementReader is a mock implementation of shipping.SettlementReader
type MockSettlementReader struct {
	mock.Mock
}

func (m *MockSettlementReader) SummarizeBatch(ctx context.Context, batchID uuid.UUID) (*shipping.BatchSettlement, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.BatchSettlement), args.Error(1)
}

// MockBatchMetrics counts opened batches per mode
type MockBatchMetrics struct {
	mu     sync.Mutex
	opened map[string]int
}

func (m *MockBatchMetrics) RecordBatchOpened(_ context.Context, mode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.opened == nil {
		m.opened = make(map[string]int)
	}
	m.opened[mode]++
}

// fakeConfigRepository is an in-memory single-row config store
type fakeConfigRepository struct {
	mu      sync.Mutex
	stored  *shipping.Config
	inserts int
}

func (f *fakeConfigRepository) Find(_ context.Context) (*shipping.Config, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stored == nil {
		return nil, shared.ErrNotFound
	}
	return f.stored, nil
}

func (f *fakeConfigRepository) Create(_ context.Context, cfg *shipping.Config) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stored != nil {
		return shared.ErrAlreadyExists
	}
	f.stored = cfg
	f.inserts++
	return nil
}

func (f *fakeConfigRepository) SaveWithVersion(_ context.Context, cfg *shipping.Config) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stored == nil || f.stored.Version != cfg.Version {
		return shared.ErrConcurrencyConflict
	}
	cfg.IncrementVersion()
	f.stored = cfg
	return nil
}

package payment

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/order"
	"github.com/napsterimports/backend/internal/domain/payment"
	"github.com/napsterimports/backend/internal/domain/shared"
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

// MockOrderRepository is a mock implementation of order.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if fn, ok := args.Get(0).(func() *order.Order); ok {
		return fn(), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]order.Order, int64, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).([]order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

// fakePaymentRepository enforces the (order, type, transaction) uniqueness
type fakePaymentRepository struct {
	mu   sync.Mutex
	apps []order.PaymentApplication
	err  error
}

func (f *fakePaymentRepository) Insert(_ context.Context, app *order.PaymentApplication) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, a := range f.apps {
		if a.OrderID == app.OrderID && a.Type == app.Type && a.ProviderTransactionID == app.ProviderTransactionID {
			return false, nil
		}
	}
	f.apps = append(f.apps, *app)
	return true, nil
}

func (f *fakePaymentRepository) ListByOrder(_ context.Context, orderID uuid.UUID) ([]order.PaymentApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []order.PaymentApplication
	for _, a := range f.apps {
		if a.OrderID == orderID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakePaymentRepository) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.apps)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Close() error {
	return nil
}

// MockProvider is a mock implementation of payment.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	return "moolre"
}

func (m *MockProvider) Initiate(ctx context.Context, req payment.CheckoutRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) NormalizeWebhook(raw []byte) (payment.NormalizedEvent, error) {
	args := m.Called(raw)
	return args.Get(0).(payment.NormalizedEvent), args.Error(1)
}

// recordingMetrics counts webhook outcomes
type recordingMetrics struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *recordingMetrics) RecordWebhookOutcome(_ context.Context, provider, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, provider+":"+outcome)
}

// recordingArchive stores archived payloads
type recordingArchive struct {
	payloads [][]byte
	err      error
}

func (r *recordingArchive) Archive(_ context.Context, _ string, payload []byte) error {
	r.payloads = append(r.payloads, payload)
	return r.err
}

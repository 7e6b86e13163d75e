package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/application/pricing"
	"github.com/napsterimports/backend/internal/domain/order"
	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/napsterimports/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockOrderRepository is a mock implementation of order.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
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

type openBatches struct {
	batches map[shipping.TransportMode]*shipping.Batch
}

func (o *openBatches) GetActiveBatch(_ context.Context, mode string) (*shipping.Batch, error) {
	if b, ok := o.batches[shipping.TransportMode(mode)]; ok {
		return b, nil
	}
	return nil, shipping.ErrNoActiveBatch
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestService(t *testing.T, repo *MockOrderRepository, modes ...shipping.TransportMode) *OrderService {
	batches := &openBatches{batches: make(map[shipping.TransportMode]*shipping.Batch)}
	for _, mode := range modes {
		b, err := shipping.NewBatch("batch", mode, nil, nil, uuid.New())
		require.NoError(t, err)
		require.NoError(t, b.Open(shipping.NewDefaultConfig()))
		batches.batches[mode] = b
	}
	engine := pricing.NewEngine(pricing.EngineConfig{Batches: batches})
	return NewOrderService(OrderServiceConfig{
		OrderRepo: repo,
		Pricer:    engine,
		Logger:    zaptest.NewLogger(t),
	})
}

func TestOrderService_CreateOrder_DiscardsClientTotals(t *testing.T) {
	repo := new(MockOrderRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
	svc := newTestService(t, repo, shipping.ModeSea)

	bogus := dec("1")
	resp, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		OrderItems:    []OrderItemRequest{{Name: "Shea Butter", Qty: 3, Price: dec("40")}},
		ItemsPrice:    dec("120"),
		TaxPrice:      dec("6"),
		ShippingPrice: &bogus,
		TotalPrice:    &bogus,
	}, uuid.New())

	require.NoError(t, err)
	assert.True(t, resp.ShippingPrice.Equal(dec("20")))
	assert.True(t, resp.TotalPrice.Equal(dec("146")))
	assert.Equal(t, "pending_payment", resp.Status)
	assert.NotNil(t, resp.SeaBatchID)
	assert.False(t, resp.PricingDegraded)
}

func TestOrderService_CreateOrder_BlockedWithoutBatch(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := newTestService(t, repo, shipping.ModeSea)

	_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		OrderItems: []OrderItemRequest{{Name: "Phone", Qty: 1, ShippingCategory: "air"}},
		ItemsPrice: dec("100"),
	}, uuid.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, shipping.ErrNoActiveBatch)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_CreateOrder_InvalidItem(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := newTestService(t, repo, shipping.ModeSea)

	_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		OrderItems: []OrderItemRequest{{Name: "x", Qty: 0}},
	}, uuid.New())
	assert.Error(t, err)
}

func TestOrderService_Quote(t *testing.T) {
	svc := NewOrderService(OrderServiceConfig{
		OrderRepo: new(MockOrderRepository),
		Pricer: pricing.NewEngine(pricing.EngineConfig{
			Configs: configStub{cfg: shipping.NewDefaultConfig()},
		}),
	})

	resp, err := svc.Quote(context.Background(), QuoteRequest{
		OrderItems: []OrderItemRequest{{Name: "Laptop", Qty: 1, Weight: decPtr("0.05"), ShippingCategory: "air"}},
	})
	require.NoError(t, err)
	assert.True(t, resp.ShippingPrice.Equal(dec("15")))
}

type configStub struct {
	cfg *shipping.Config
}

func (c configStub) GetConfig(context.Context) (*shipping.Config, error) { return c.cfg, nil }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func placedOrder(t *testing.T, customer uuid.UUID) *order.Order {
	item, err := order.NewLineItem("Kente", "", nil, 1, "", dec("10"))
	require.NoError(t, err)
	o, err := order.NewOrder(customer, []order.LineItem{item}, order.ShippingAddress{}, "", order.Pricing{
		ItemsPrice:    dec("10"),
		ShippingPrice: dec("20"),
		TotalPrice:    dec("30"),
	})
	require.NoError(t, err)
	return o
}

func TestOrderService_GetOrder_Visibility(t *testing.T) {
	owner := uuid.New()
	o := placedOrder(t, owner)
	repo := new(MockOrderRepository)
	repo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	svc := NewOrderService(OrderServiceConfig{OrderRepo: repo})

	_, err := svc.GetOrder(context.Background(), o.ID, Caller{ID: owner})
	assert.NoError(t, err)

	_, err = svc.GetOrder(context.Background(), o.ID, Caller{ID: uuid.New()})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = svc.GetOrder(context.Background(), o.ID, Caller{ID: uuid.New(), ViewAll: true})
	assert.NoError(t, err)
}

func TestOrderService_ListMyOrders(t *testing.T) {
	customer := uuid.New()
	repo := new(MockOrderRepository)
	repo.On("FindByCustomer", mock.Anything, customer, mock.Anything).
		Return([]order.Order{*placedOrder(t, customer)}, int64(1), nil)
	svc := NewOrderService(OrderServiceConfig{OrderRepo: repo})

	page, err := svc.ListMyOrders(context.Background(), customer, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 10, page.PageSize)
}

func TestOrderService_MarkDelivered(t *testing.T) {
	o := placedOrder(t, uuid.New())
	repo := new(MockOrderRepository)
	repo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	svc := NewOrderService(OrderServiceConfig{OrderRepo: repo})

	_, err := svc.MarkDelivered(context.Background(), o.ID)
	assert.Error(t, err, "unpaid order cannot be delivered")
	repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)

	_, err = o.ApplyPayment(order.PaymentReceipt{Type: order.PaymentTypeFull, Provider: "manual", ProviderTransactionID: "cash-1"})
	require.NoError(t, err)
	repo.On("SaveWithLock", mock.Anything, o).Return(nil)

	resp, err := svc.MarkDelivered(context.Background(), o.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsDelivered)
	assert.Equal(t, "delivered", resp.Status)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	o := placedOrder(t, uuid.New())
	repo := new(MockOrderRepository)
	repo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	repo.On("SaveWithLock", mock.Anything, o).Return(shared.ErrConcurrencyConflict).Once()
	svc := NewOrderService(OrderServiceConfig{OrderRepo: repo})

	_, err := svc.UpdateStatus(context.Background(), o.ID, UpdateStatusRequest{Status: "delivered"})
	assert.Error(t, err)

	_, err = svc.UpdateStatus(context.Background(), o.ID, UpdateStatusRequest{Status: "processing"})
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/application/pricing"
	"github.com/napsterimports/backend/internal/domain/order"
	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Pricer computes server-side order prices
type Pricer interface {
	PriceOrder(ctx context.Context, items []order.LineItem, itemsPrice, taxPrice decimal.Decimal) (*pricing.OrderPricing, error)
	Quote(ctx context.Context, items []order.LineItem) *pricing.OrderPricing
}

// Caller identifies who is asking for an order
type Caller struct {
	ID      uuid.UUID
	ViewAll bool // holds view_orders
}

// OrderService handles order placement and workflow
type OrderService struct {
	orderRepo      order.OrderRepository
	pricer         Pricer
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// OrderServiceConfig holds dependencies for OrderService
type OrderServiceConfig struct {
	OrderRepo      order.OrderRepository
	Pricer         Pricer
	EventPublisher shared.EventPublisher
	Logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(cfg OrderServiceConfig) *OrderService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:      cfg.OrderRepo,
		pricer:         cfg.Pricer,
		eventPublisher: cfg.EventPublisher,
		logger:         logger,
	}
}

// CreateOrder prices and places an order for customerID.
// Client-submitted shipping and total values are discarded.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest, customerID uuid.UUID) (*OrderResponse, error) {
	items, err := ToLineItems(req.OrderItems)
	if err != nil {
		return nil, err
	}

	price, err := s.pricer.PriceOrder(ctx, items, req.ItemsPrice, req.TaxPrice)
	if err != nil {
		return nil, err
	}

	if req.TotalPrice != nil && !req.TotalPrice.Equal(price.TotalPrice) {
		s.logger.Info("Discarding client-submitted total",
			zap.String("client_total", req.TotalPrice.String()),
			zap.String("server_total", price.TotalPrice.String()))
	}

	address := order.ShippingAddress{
		Address:    req.ShippingAddress.Address,
		City:       req.ShippingAddress.City,
		PostalCode: req.ShippingAddress.PostalCode,
		Country:    req.ShippingAddress.Country,
	}
	o, err := order.NewOrder(customerID, items, address, req.PaymentMethod, price.ToOrderPricing())
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)
	s.logger.Info("Order created",
		zap.String("order_id", o.ID.String()),
		zap.String("shipping_price", o.ShippingPrice.String()),
		zap.String("total_price", o.TotalPrice.String()),
		zap.String("rate_source", price.Source),
		zap.Bool("pricing_degraded", o.PricingDegraded))

	resp := ToOrderResponse(o)
	return &resp, nil
}

// Quote estimates shipping for a set of items against the live rates
func (s *OrderService) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	items, err := ToLineItems(req.OrderItems)
	if err != nil {
		return nil, err
	}
	p := s.pricer.Quote(ctx, items)
	return &QuoteResponse{ShippingPrice: p.ShippingPrice, Breakdown: p.Breakdown, Degraded: p.Degraded}, nil
}

// GetOrder returns an order visible to caller
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID, caller Caller) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.ViewAll && !o.IsOwnedBy(caller.ID) {
		return nil, shared.ErrForbidden
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// ListMyOrders lists orders placed by customerID, newest first
func (s *OrderService) ListMyOrders(ctx context.Context, customerID uuid.UUID, page, pageSize int) (shared.Paginated[OrderResponse], error) {
	filter := shared.Filter{Page: page, PageSize: pageSize}.Normalize()
	orders, total, err := s.orderRepo.FindByCustomer(ctx, customerID, filter)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	return shared.NewPaginated(ToOrderResponses(orders), total, filter.Page, filter.PageSize), nil
}

// ListOrders lists all orders, newest first
func (s *OrderService) ListOrders(ctx context.Context, f OrderListFilter) (shared.Paginated[OrderResponse], error) {
	filter := shared.Filter{Page: f.Page, PageSize: f.PageSize}.Normalize()
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	orders, total, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	return shared.NewPaginated(ToOrderResponses(orders), total, filter.Page, filter.PageSize), nil
}

// MarkDelivered marks a fully settled order as delivered
func (s *OrderService) MarkDelivered(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.mutate(ctx, id, func(o *order.Order) error {
		return o.MarkDelivered()
	})
}

// UpdateStatus moves an order along a listed workflow edge
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	return s.mutate(ctx, id, func(o *order.Order) error {
		return o.TransitionTo(order.Status(req.Status), req.Note)
	})
}

func (s *OrderService) mutate(ctx context.Context, id uuid.UUID, fn func(o *order.Order) error) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(o); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			s.logger.Warn("Order changed concurrently", zap.String("order_id", id.String()))
		}
		return nil, err
	}

	s.publishEvents(ctx, o)
	s.logger.Info("Order status changed",
		zap.String("order_id", o.ID.String()),
		zap.String("status", string(o.Status)))

	resp := ToOrderResponse(o)
	return &resp, nil
}

func (s *OrderService) publishEvents(ctx context.Context, o *order.Order) {
	events := o.GetDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish order events",
			zap.String("order_id", o.ID.String()),
			zap.Error(err))
	}
	o.ClearDomainEvents()
}

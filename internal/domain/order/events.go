package order

import (
	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeOrder is the aggregate type for orders
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated        = "OrderCreated"
	EventTypeOrderPaymentApplied = "OrderPaymentApplied"
	EventTypeOrderStatusChanged  = "OrderStatusChanged"
)

// OrderCreatedEvent is raised when an order is placed
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID         uuid.UUID       `json:"order_id"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	ShippingPrice   decimal.Decimal `json:"shipping_price"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	PricingDegraded bool            `json:"pricing_degraded"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		CustomerID:      o.CustomerID,
		ShippingPrice:   o.ShippingPrice,
		TotalPrice:      o.TotalPrice,
		PricingDegraded: o.PricingDegraded,
	}
}

// OrderPaymentAppliedEvent is raised when a payment changed the order's flags
type OrderPaymentAppliedEvent struct {
	shared.BaseDomainEvent
	OrderID               uuid.UUID   `json:"order_id"`
	PaymentType           PaymentType `json:"payment_type"`
	Provider              string      `json:"provider"`
	ProviderTransactionID string      `json:"provider_transaction_id"`
	FromStatus            Status      `json:"from_status"`
	ToStatus              Status      `json:"to_status"`
	IsFullyPaid           bool        `json:"is_fully_paid"`
}

// NewOrderPaymentAppliedEvent creates a new OrderPaymentAppliedEvent
func NewOrderPaymentAppliedEvent(o *Order, r PaymentReceipt, from Status) *OrderPaymentAppliedEvent {
	return &OrderPaymentAppliedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypeOrderPaymentApplied, AggregateTypeOrder, o.ID),
		OrderID:               o.ID,
		PaymentType:           r.Type,
		Provider:              r.Provider,
		ProviderTransactionID: r.ProviderTransactionID,
		FromStatus:            from,
		ToStatus:              o.Status,
		IsFullyPaid:           o.IsFullyPaid,
	}
}

// OrderStatusChangedEvent is raised for operator-driven status changes
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
	From    Status    `json:"from"`
	To      Status    `json:"to"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from Status) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		From:            from,
		To:              o.Status,
	}
}

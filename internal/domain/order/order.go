package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/napsterimports/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
)

// ShippingAddress is where the customer collects or receives the order
type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// PaymentResult is the latest successful provider payment recorded on the order
type PaymentResult struct {
	Provider              string    `json:"provider"`
	ProviderTransactionID string    `json:"provider_transaction_id"`
	Status                string    `json:"status"`
	PayerIdentity         string    `json:"payer_identity"`
	PaidAt                time.Time `json:"paid_at"`
}

// TimelineEntry is one append-only record of an order transition
type TimelineEntry struct {
	Status    Status    `json:"status"`
	Note      string    `json:"note"`
	Timestamp time.Time `json:"timestamp"`
}

// Pricing carries the server-computed amounts an order is created with
type Pricing struct {
	ItemsPrice    decimal.Decimal
	TaxPrice      decimal.Decimal
	ShippingPrice decimal.Decimal
	TotalPrice    decimal.Decimal
	Degraded      bool
	BatchIDs      map[shipping.TransportMode]uuid.UUID
}

// Order is a customer order together with its payment settlement state
type Order struct {
	shared.BaseAggregateRoot
	CustomerID      uuid.UUID
	Items           []LineItem
	ShippingAddress ShippingAddress
	PaymentMethod   string
	ItemsPrice      decimal.Decimal
	TaxPrice        decimal.Decimal
	ShippingPrice   decimal.Decimal
	TotalPrice      decimal.Decimal
	PricingDegraded bool
	SeaBatchID      *uuid.UUID
	AirBatchID      *uuid.UUID
	IsItemPaid      bool
	IsShippingPaid  bool
	IsFullyPaid     bool
	PaymentResult   *PaymentResult
	Status          Status
	IsDelivered     bool
	DeliveredAt     *time.Time
	Timeline        []TimelineEntry
}

// NewOrder creates an order awaiting payment.
// The total must equal the strict sum of items, tax and shipping.
func NewOrder(customerID uuid.UUID, items []LineItem, address ShippingAddress, paymentMethod string, pricing Pricing) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ORDER_ITEMS", "No order items")
	}
	if pricing.ItemsPrice.IsNegative() || pricing.TaxPrice.IsNegative() || pricing.ShippingPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Order amounts cannot be negative")
	}
	sum := pricing.ItemsPrice.Add(pricing.TaxPrice).Add(pricing.ShippingPrice)
	if !sum.Equal(pricing.TotalPrice) {
		return nil, shared.NewDomainError("TOTAL_MISMATCH", fmt.Sprintf("Total %s does not equal %s", pricing.TotalPrice, sum))
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Items:             append([]LineItem(nil), items...),
		ShippingAddress:   address,
		PaymentMethod:     strings.TrimSpace(paymentMethod),
		ItemsPrice:        pricing.ItemsPrice,
		TaxPrice:          pricing.TaxPrice,
		ShippingPrice:     pricing.ShippingPrice,
		TotalPrice:        pricing.TotalPrice,
		PricingDegraded:   pricing.Degraded,
		Status:            StatusPendingPayment,
	}
	if id, ok := pricing.BatchIDs[shipping.ModeSea]; ok {
		o.SeaBatchID = &id
	}
	if id, ok := pricing.BatchIDs[shipping.ModeAir]; ok {
		o.AirBatchID = &id
	}

	o.appendTimeline(StatusPendingPayment, "Order placed", o.CreatedAt)
	o.AddDomainEvent(NewOrderCreatedEvent(o))
	return o, nil
}

func (o *Order) appendTimeline(status Status, note string, at time.Time) {
	o.Timeline = append(o.Timeline, TimelineEntry{Status: status, Note: note, Timestamp: at})
}

// AmountFor returns the server-side amount a payment of type pt must cover
func (o *Order) AmountFor(pt PaymentType) decimal.Decimal {
	switch pt {
	case PaymentTypeItem:
		return o.ItemsPrice.Add(o.TaxPrice)
	case PaymentTypeShipping:
		return o.ShippingPrice
	default:
		return o.TotalPrice
	}
}

// IsSettledFor reports whether any part pt covers is already paid
func (o *Order) IsSettledFor(pt PaymentType) bool {
	switch pt {
	case PaymentTypeItem:
		return o.IsItemPaid
	case PaymentTypeShipping:
		return o.IsShippingPaid
	default:
		return o.IsItemPaid || o.IsShippingPaid
	}
}

// PaymentReceipt describes a successful provider payment
type PaymentReceipt struct {
	Type                  PaymentType
	Provider              string
	ProviderTransactionID string
	PayerIdentity         string
	PaidAt                time.Time
}

// ApplyPayment sets the flags covered by the receipt, records the payment
// result, appends one timeline entry and advances the status per the payment
// mapping. It returns false and leaves the order untouched when every flag the
// receipt covers is already set.
func (o *Order) ApplyPayment(r PaymentReceipt) (bool, error) {
	if !r.Type.IsValid() {
		return false, shared.NewDomainError("INVALID_PAYMENT_TYPE", fmt.Sprintf("Unknown payment type %q", r.Type))
	}
	if strings.TrimSpace(r.ProviderTransactionID) == "" {
		return false, shared.NewDomainError("INVALID_TRANSACTION", "Provider transaction ID is required")
	}

	itemPaid := o.IsItemPaid || r.Type.CoversItems()
	shippingPaid := o.IsShippingPaid || r.Type.CoversShipping()
	if itemPaid == o.IsItemPaid && shippingPaid == o.IsShippingPaid {
		return false, nil
	}

	paidAt := r.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	o.IsItemPaid = itemPaid
	o.IsShippingPaid = shippingPaid
	o.IsFullyPaid = itemPaid && shippingPaid
	o.PaymentResult = &PaymentResult{
		Provider:              r.Provider,
		ProviderTransactionID: r.ProviderTransactionID,
		Status:                "success",
		PayerIdentity:         r.PayerIdentity,
		PaidAt:                paidAt,
	}

	from := o.Status
	if target := statusForPayment(itemPaid, shippingPaid); from.CanTransitionTo(target) {
		o.Status = target
	}

	o.appendTimeline(o.Status, fmt.Sprintf("%s payment received via %s (ref %s)", r.Type, r.Provider, r.ProviderTransactionID), paidAt)
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrderPaymentAppliedEvent(o, r, from))
	return true, nil
}

// TransitionTo moves the order along a listed edge and appends a timeline entry
func (o *Order) TransitionTo(target Status, note string) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Unknown order status %q", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}

	now := time.Now()
	from := o.Status
	o.Status = target
	o.UpdatedAt = now
	if target == StatusDelivered {
		o.IsDelivered = true
		o.DeliveredAt = &now
	}
	if strings.TrimSpace(note) == "" {
		note = fmt.Sprintf("Status changed from %s to %s", from, target)
	}

	o.appendTimeline(target, note, now)
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from))
	return nil
}

// MarkDelivered closes out a fully settled order
func (o *Order) MarkDelivered() error {
	if o.Status != StatusFullySettled {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot deliver order in %s status", o.Status))
	}
	return o.TransitionTo(StatusDelivered, "Order delivered")
}

// BatchIDFor returns the batch the order's items of mode were priced against
func (o *Order) BatchIDFor(mode shipping.TransportMode) *uuid.UUID {
	if mode == shipping.ModeAir {
		return o.AirBatchID
	}
	return o.SeaBatchID
}

// IsOwnedBy reports whether customerID placed the order
func (o *Order) IsOwnedBy(customerID uuid.UUID) bool {
	return o.CustomerID == customerID
}

package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/application/pricing"
	"github.com/napsterimports/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one line item submitted at checkout
type OrderItemRequest struct {
	Name             string           `json:"name" binding:"required,min=1,max=200"`
	Product          string           `json:"product" binding:"max=100"`
	Image            string           `json:"image" binding:"max=500"`
	Qty              int              `json:"qty" binding:"required,min=1"`
	Price            decimal.Decimal  `json:"price"`
	Weight           *decimal.Decimal `json:"weight"`
	ShippingCategory string           `json:"shipping_category" binding:"omitempty,oneof=sea air"`
}

// ShippingAddressRequest is the delivery address submitted at checkout
type ShippingAddressRequest struct {
	Address    string `json:"address" binding:"max=300"`
	City       string `json:"city" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Country    string `json:"country" binding:"max=100"`
}

// CreateOrderRequest represents a checkout request.
// ShippingPrice and TotalPrice are accepted for compatibility but never used.
type CreateOrderRequest struct {
	OrderItems      []OrderItemRequest     `json:"order_items" binding:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method" binding:"max=50"`
	ItemsPrice      decimal.Decimal        `json:"items_price"`
	TaxPrice        decimal.Decimal        `json:"tax_price"`
	ShippingPrice   *decimal.Decimal       `json:"shipping_price"`
	TotalPrice      *decimal.Decimal       `json:"total_price"`
}

// QuoteRequest asks for a shipping estimate
type QuoteRequest struct {
	OrderItems []OrderItemRequest `json:"order_items" binding:"required,min=1,dive"`
}

// UpdateStatusRequest moves an order along its workflow
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=processing ready_for_pickup fully_settled delivered"`
	Note   string `json:"note" binding:"max=500"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending_payment processing ready_for_pickup fully_settled delivered"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToLineItems validates the request items and applies item defaults
func ToLineItems(reqs []OrderItemRequest) ([]order.LineItem, error) {
	items := make([]order.LineItem, 0, len(reqs))
	for _, r := range reqs {
		li, err := order.NewLineItem(r.Name, r.Product, r.Weight, r.Qty, r.ShippingCategory, r.Price)
		if err != nil {
			return nil, err
		}
		li.Image = r.Image
		items = append(items, li)
	}
	return items, nil
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID             `json:"id"`
	CustomerID      uuid.UUID             `json:"customer_id"`
	OrderItems      []order.LineItem      `json:"order_items"`
	ShippingAddress order.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                `json:"payment_method"`
	ItemsPrice      decimal.Decimal       `json:"items_price"`
	TaxPrice        decimal.Decimal       `json:"tax_price"`
	ShippingPrice   decimal.Decimal       `json:"shipping_price"`
	TotalPrice      decimal.Decimal       `json:"total_price"`
	PricingDegraded bool                  `json:"pricing_degraded"`
	SeaBatchID      *uuid.UUID            `json:"sea_batch_id,omitempty"`
	AirBatchID      *uuid.UUID            `json:"air_batch_id,omitempty"`
	IsItemPaid      bool                  `json:"is_item_paid"`
	IsShippingPaid  bool                  `json:"is_shipping_paid"`
	IsFullyPaid     bool                  `json:"is_fully_paid"`
	PaymentResult   *order.PaymentResult  `json:"payment_result,omitempty"`
	Status          string                `json:"status"`
	IsDelivered     bool                  `json:"is_delivered"`
	DeliveredAt     *time.Time            `json:"delivered_at,omitempty"`
	Timeline        []order.TimelineEntry `json:"timeline"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Version         int                   `json:"version"`
}

// ToOrderResponse converts a domain order
func ToOrderResponse(o *order.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		OrderItems:      o.Items,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		ItemsPrice:      o.ItemsPrice,
		TaxPrice:        o.TaxPrice,
		ShippingPrice:   o.ShippingPrice,
		TotalPrice:      o.TotalPrice,
		PricingDegraded: o.PricingDegraded,
		SeaBatchID:      o.SeaBatchID,
		AirBatchID:      o.AirBatchID,
		IsItemPaid:      o.IsItemPaid,
		IsShippingPaid:  o.IsShippingPaid,
		IsFullyPaid:     o.IsFullyPaid,
		PaymentResult:   o.PaymentResult,
		Status:          string(o.Status),
		IsDelivered:     o.IsDelivered,
		DeliveredAt:     o.DeliveredAt,
		Timeline:        o.Timeline,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Version:         o.Version,
	}
}

// ToOrderResponses converts a slice of domain orders
func ToOrderResponses(orders []order.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}

// QuoteResponse is a shipping estimate
type QuoteResponse struct {
	ShippingPrice decimal.Decimal           `json:"shipping_price"`
	Breakdown     pricing.ShippingBreakdown `json:"breakdown"`
	Degraded      bool                      `json:"pricing_degraded"`
}

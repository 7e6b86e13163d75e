package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/order"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderModel is the persistence model for the Order aggregate root.
// Line items, address, payment result and timeline are stored as JSON documents.
type OrderModel struct {
	AggregateModel
	CustomerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemsJSON         string          `gorm:"column:items;type:jsonb;not null"`
	AddressJSON       string          `gorm:"column:shipping_address;type:jsonb;not null"`
	PaymentMethod     string          `gorm:"type:varchar(50)"`
	ItemsPrice        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxPrice          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ShippingPrice     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalPrice        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PricingDegraded   bool            `gorm:"not null;default:false"`
	SeaBatchID        *uuid.UUID      `gorm:"type:uuid;index"`
	AirBatchID        *uuid.UUID      `gorm:"type:uuid;index"`
	IsItemPaid        bool            `gorm:"not null;default:false"`
	IsShippingPaid    bool            `gorm:"not null;default:false"`
	IsFullyPaid       bool            `gorm:"not null;default:false"`
	PaymentResultJSON *string         `gorm:"column:payment_result;type:jsonb"`
	Status            order.Status    `gorm:"type:varchar(30);not null;index"`
	IsDelivered       bool            `gorm:"not null;default:false"`
	DeliveredAt       *time.Time
	TimelineJSON      string `gorm:"column:timeline;type:jsonb;not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CustomerID:        m.CustomerID,
		Items:             make([]order.LineItem, 0),
		PaymentMethod:     m.PaymentMethod,
		ItemsPrice:        m.ItemsPrice,
		TaxPrice:          m.TaxPrice,
		ShippingPrice:     m.ShippingPrice,
		TotalPrice:        m.TotalPrice,
		PricingDegraded:   m.PricingDegraded,
		SeaBatchID:        m.SeaBatchID,
		AirBatchID:        m.AirBatchID,
		IsItemPaid:        m.IsItemPaid,
		IsShippingPaid:    m.IsShippingPaid,
		IsFullyPaid:       m.IsFullyPaid,
		Status:            m.Status,
		IsDelivered:       m.IsDelivered,
		DeliveredAt:       m.DeliveredAt,
		Timeline:          make([]order.TimelineEntry, 0),
	}

	m.decode("items", m.ItemsJSON, &o.Items)
	m.decode("shipping_address", m.AddressJSON, &o.ShippingAddress)
	m.decode("timeline", m.TimelineJSON, &o.Timeline)
	if m.PaymentResultJSON != nil && *m.PaymentResultJSON != "" {
		var result order.PaymentResult
		if m.decode("payment_result", *m.PaymentResultJSON, &result) {
			o.PaymentResult = &result
		}
	}
	return o
}

func (m *OrderModel) decode(column, raw string, dst any) bool {
	if raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		modelLogger.Warn("failed to parse order JSON column",
			zap.String("order_id", m.ID.String()),
			zap.String("column", column),
			zap.Error(err))
		return false
	}
	return true
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *order.Order) error {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.CustomerID = o.CustomerID
	m.PaymentMethod = o.PaymentMethod
	m.ItemsPrice = o.ItemsPrice
	m.TaxPrice = o.TaxPrice
	m.ShippingPrice = o.ShippingPrice
	m.TotalPrice = o.TotalPrice
	m.PricingDegraded = o.PricingDegraded
	m.SeaBatchID = o.SeaBatchID
	m.AirBatchID = o.AirBatchID
	m.IsItemPaid = o.IsItemPaid
	m.IsShippingPaid = o.IsShippingPaid
	m.IsFullyPaid = o.IsFullyPaid
	m.Status = o.Status
	m.IsDelivered = o.IsDelivered
	m.DeliveredAt = o.DeliveredAt

	items := o.Items
	if items == nil {
		items = []order.LineItem{}
	}
	timeline := o.Timeline
	if timeline == nil {
		timeline = []order.TimelineEntry{}
	}

	var err error
	if m.ItemsJSON, err = encodeJSON(items); err != nil {
		return err
	}
	if m.AddressJSON, err = encodeJSON(o.ShippingAddress); err != nil {
		return err
	}
	if m.TimelineJSON, err = encodeJSON(timeline); err != nil {
		return err
	}
	m.PaymentResultJSON = nil
	if o.PaymentResult != nil {
		raw, err := encodeJSON(o.PaymentResult)
		if err != nil {
			return err
		}
		m.PaymentResultJSON = &raw
	}
	return nil
}

// OrderModelFromDomain creates a persistence model from a domain Order
func OrderModelFromDomain(o *order.Order) (*OrderModel, error) {
	m := &OrderModel{}
	if err := m.FromDomain(o); err != nil {
		return nil, err
	}
	return m, nil
}

func encodeJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// PaymentApplicationModel records one provider transaction applied to an order.
// The composite unique index makes redelivered notifications insert nothing.
type PaymentApplicationModel struct {
	ID                    uuid.UUID         `gorm:"type:uuid;primary_key"`
	OrderID               uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:ux_payment_applications_txn,priority:1"`
	PaymentType           order.PaymentType `gorm:"type:varchar(20);not null;uniqueIndex:ux_payment_applications_txn,priority:2"`
	ProviderTransactionID string            `gorm:"type:varchar(200);not null;uniqueIndex:ux_payment_applications_txn,priority:3"`
	Provider              string            `gorm:"type:varchar(50);not null"`
	Amount                decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	PayerIdentity         string            `gorm:"type:varchar(200)"`
	Effective             bool              `gorm:"not null"`
	AppliedAt             time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentApplicationModel) TableName() string {
	return "payment_applications"
}

// ToDomain converts the persistence model to a domain PaymentApplication
func (m *PaymentApplicationModel) ToDomain() order.PaymentApplication {
	return order.PaymentApplication{
		ID:                    m.ID,
		OrderID:               m.OrderID,
		Type:                  m.PaymentType,
		ProviderTransactionID: m.ProviderTransactionID,
		Provider:              m.Provider,
		Amount:                m.Amount,
		PayerIdentity:         m.PayerIdentity,
		Effective:             m.Effective,
		AppliedAt:             m.AppliedAt,
	}
}

// PaymentApplicationModelFromDomain creates a persistence model from a domain PaymentApplication
func PaymentApplicationModelFromDomain(a *order.PaymentApplication) *PaymentApplicationModel {
	return &PaymentApplicationModel{
		ID:                    a.ID,
		OrderID:               a.OrderID,
		PaymentType:           a.Type,
		ProviderTransactionID: a.ProviderTransactionID,
		Provider:              a.Provider,
		Amount:                a.Amount,
		PayerIdentity:         a.PayerIdentity,
		Effective:             a.Effective,
		AppliedAt:             a.AppliedAt,
	}
}

package order

import (
	"strings"

	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/napsterimports/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
)

// DefaultWeightPerUnit applies to line items that carry no weight
var DefaultWeightPerUnit = decimal.RequireFromString("0.5")

// LineItem is one product line of an order. UnitPrice is advisory only.
type LineItem struct {
	Name              string                 `json:"name"`
	ProductRef        string                 `json:"product_ref"`
	WeightPerUnit     decimal.Decimal        `json:"weight_per_unit"`
	Quantity          int                    `json:"quantity"`
	TransportCategory shipping.TransportMode `json:"transport_category"`
	UnitPrice         decimal.Decimal        `json:"unit_price"`
	Image             string                 `json:"image,omitempty"`
}

// NewLineItem builds a line item, applying the 0.5 weight and sea defaults.
// A nil or zero weight means the weight is absent.
func NewLineItem(name, productRef string, weightPerUnit *decimal.Decimal, quantity int, category string, unitPrice decimal.Decimal) (LineItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return LineItem{}, shared.NewDomainError("INVALID_LINE_ITEM", "Line item name cannot be empty")
	}
	if quantity <= 0 {
		return LineItem{}, shared.NewDomainError("INVALID_LINE_ITEM", "Line item quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return LineItem{}, shared.NewDomainError("INVALID_LINE_ITEM", "Line item price cannot be negative")
	}

	weight := DefaultWeightPerUnit
	if weightPerUnit != nil && !weightPerUnit.IsZero() {
		if weightPerUnit.IsNegative() {
			return LineItem{}, shared.NewDomainError("INVALID_LINE_ITEM", "Line item weight cannot be negative")
		}
		weight = *weightPerUnit
	}

	mode, err := shipping.ParseTransportMode(category)
	if err != nil {
		return LineItem{}, err
	}

	return LineItem{
		Name:              name,
		ProductRef:        productRef,
		WeightPerUnit:     weight,
		Quantity:          quantity,
		TransportCategory: mode,
		UnitPrice:         unitPrice,
	}, nil
}

// TotalWeight returns weightPerUnit times quantity
func (li LineItem) TotalWeight() decimal.Decimal {
	return li.WeightPerUnit.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// ModesOf returns the distinct transport modes present in items, sea first
func ModesOf(items []LineItem) []shipping.TransportMode {
	var sea, air bool
	for _, item := range items {
		switch item.TransportCategory {
		case shipping.ModeAir:
			air = true
		default:
			sea = true
		}
	}
	modes := make([]shipping.TransportMode, 0, 2)
	if sea {
		modes = append(modes, shipping.ModeSea)
	}
	if air {
		modes = append(modes, shipping.ModeAir)
	}
	return modes
}

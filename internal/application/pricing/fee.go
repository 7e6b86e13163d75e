package pricing

import (
	"github.com/napsterimports/backend/internal/domain/order"
	"github.com/napsterimports/backend/internal/domain/shared/valueobject"
	"github.com/napsterimports/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
)

// FallbackShippingFee is charged when no rate source can be obtained
var FallbackShippingFee = decimal.NewFromInt(50)

// ShippingBreakdown shows how a shipping fee was reached
type ShippingBreakdown struct {
	SeaWeight decimal.Decimal `json:"sea_weight"` // chargeable, after rounding up
	AirWeight decimal.Decimal `json:"air_weight"` // chargeable, after floor and rounding up
	SeaFee    decimal.Decimal `json:"sea_fee"`
	AirFee    decimal.Decimal `json:"air_fee"`
	Total     decimal.Decimal `json:"total"`
}

// ComputeShippingFee buckets item weight by transport mode and prices each bucket.
//
// Sea weight rounds up to 0.1 and its fee is floored at MinSeaFee.
// Air weight is floored at MinAirChargeableWeight, then rounds up to 0.1;
// air has no minimum fee. The total is rounded to cents.
func ComputeShippingFee(items []order.LineItem, rates Rates) ShippingBreakdown {
	seaWeight, airWeight := decimal.Zero, decimal.Zero
	for _, item := range items {
		weight := item.WeightPerUnit
		if weight.IsZero() {
			weight = order.DefaultWeightPerUnit
		}
		line := weight.Mul(decimal.NewFromInt(int64(item.Quantity)))
		if item.TransportCategory == shipping.ModeAir {
			airWeight = airWeight.Add(line)
		} else {
			seaWeight = seaWeight.Add(line)
		}
	}

	b := ShippingBreakdown{SeaFee: decimal.Zero, AirFee: decimal.Zero}

	b.SeaWeight = valueobject.CeilTenth(seaWeight)
	if b.SeaWeight.IsPositive() {
		b.SeaFee = valueobject.MaxDecimal(b.SeaWeight.Mul(rates.SeaRatePerWeightUnit), rates.MinSeaFee)
	}

	b.AirWeight = airWeight
	if airWeight.IsPositive() {
		b.AirWeight = valueobject.CeilTenth(valueobject.MaxDecimal(airWeight, rates.MinAirChargeableWeight))
		b.AirFee = b.AirWeight.Mul(rates.AirRatePerWeightUnit)
	}

	b.Total = valueobject.Round2(b.SeaFee.Add(b.AirFee))
	return b
}

// ComputeOrderTotal is the strict sum of the server-side amounts
func ComputeOrderTotal(itemsPrice, taxPrice, shippingFee decimal.Decimal) decimal.Decimal {
	return itemsPrice.Add(taxPrice).Add(shippingFee)
}

package pricing

import (
	"github.com/napsterimports/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
)

// Rates are the per-mode inputs a shipping fee is computed against
type Rates struct {
	SeaRatePerWeightUnit   decimal.Decimal `json:"sea_rate_per_weight_unit"`
	MinSeaFee              decimal.Decimal `json:"min_sea_fee"`
	AirRatePerWeightUnit   decimal.Decimal `json:"air_rate_per_weight_unit"`
	MinAirChargeableWeight decimal.Decimal `json:"min_air_chargeable_weight"`
}

// LiveRates builds rates from the live config and its derived sea rate
func LiveRates(cfg *shipping.Config) (Rates, error) {
	derived, err := shipping.Derive(cfg)
	if err != nil {
		return Rates{}, err
	}
	return Rates{
		SeaRatePerWeightUnit:   derived.FinalSeaRatePerWeightUnit,
		MinSeaFee:              cfg.MinSeaFee,
		AirRatePerWeightUnit:   cfg.AirRatePerWeightUnit,
		MinAirChargeableWeight: cfg.MinAirChargeableWeight,
	}, nil
}

// SnapshotRates builds rates from frozen batch snapshots.
// A nil snapshot leaves that mode's rates at zero.
func SnapshotRates(sea, air *shipping.RateSnapshot) Rates {
	var r Rates
	if sea != nil {
		r.SeaRatePerWeightUnit = sea.RatePerWeightUnit
		r.MinSeaFee = sea.MinSeaFee
	}
	if air != nil {
		r.AirRatePerWeightUnit = air.RatePerWeightUnit
		r.MinAirChargeableWeight = air.MinAirChargeableWeight
	}
	return r
}

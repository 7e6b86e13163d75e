package shipping

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/napsterimports/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Documented defaults used when the live config is created lazily
var (
	DefaultUsdToExchangeRate      = decimal.RequireFromString("12.5")
	DefaultSeaVolumeRateUsd       = decimal.NewFromInt(130)
	DefaultVolumeToWeightRatio    = decimal.NewFromInt(167)
	DefaultSeaBufferFraction      = decimal.RequireFromString("0.15")
	DefaultMinSeaFee              = decimal.NewFromInt(20)
	DefaultAirRatePerWeightUnit   = decimal.NewFromInt(150)
	DefaultMinAirChargeableWeight = decimal.RequireFromString("0.1")
)

// RateScale is the number of decimal places rates are stored with
const RateScale int32 = 4

// ConfigField names an operator-editable rate field.
// The string value is the name recorded in audit entries.
type ConfigField string

const (
	FieldUsdToExchangeRate      ConfigField = "usd_to_exchange_rate"
	FieldSeaVolumeRateUsd       ConfigField = "sea_volume_rate_usd"
	FieldSeaBufferFraction      ConfigField = "sea_buffer_fraction"
	FieldMinSeaFee              ConfigField = "min_sea_fee"
	FieldAirRatePerWeightUnit   ConfigField = "air_rate_per_weight_unit"
	FieldMinAirChargeableWeight ConfigField = "min_air_chargeable_weight"
)

// RecognizedFields lists editable fields in the order changes are recorded.
// VolumeToWeightRatio is a physical constant and is intentionally absent.
var RecognizedFields = []ConfigField{
	FieldUsdToExchangeRate,
	FieldSeaVolumeRateUsd,
	FieldSeaBufferFraction,
	FieldMinSeaFee,
	FieldAirRatePerWeightUnit,
	FieldMinAirChargeableWeight,
}

// Config is the single live shipping-rate configuration.
// Updates are compare-and-swap on Version.
type Config struct {
	shared.BaseAggregateRoot
	UsdToExchangeRate      decimal.Decimal
	SeaVolumeRateUsd       decimal.Decimal // cost per cubic-meter unit
	VolumeToWeightRatio    decimal.Decimal
	SeaBufferFraction      decimal.Decimal
	MinSeaFee              decimal.Decimal
	AirRatePerWeightUnit   decimal.Decimal
	MinAirChargeableWeight decimal.Decimal
	LastModifiedBy         *uuid.UUID
	LastModifiedAt         *time.Time
}

// NewDefaultConfig creates a config carrying the documented defaults
func NewDefaultConfig() *Config {
	return &Config{
		BaseAggregateRoot:      shared.NewBaseAggregateRoot(),
		UsdToExchangeRate:      DefaultUsdToExchangeRate,
		SeaVolumeRateUsd:       DefaultSeaVolumeRateUsd,
		VolumeToWeightRatio:    DefaultVolumeToWeightRatio,
		SeaBufferFraction:      DefaultSeaBufferFraction,
		MinSeaFee:              DefaultMinSeaFee,
		AirRatePerWeightUnit:   DefaultAirRatePerWeightUnit,
		MinAirChargeableWeight: DefaultMinAirChargeableWeight,
	}
}

// Get returns the current value of a recognized field
func (c *Config) Get(field ConfigField) (decimal.Decimal, bool) {
	switch field {
	case FieldUsdToExchangeRate:
		return c.UsdToExchangeRate, true
	case FieldSeaVolumeRateUsd:
		return c.SeaVolumeRateUsd, true
	case FieldSeaBufferFraction:
		return c.SeaBufferFraction, true
	case FieldMinSeaFee:
		return c.MinSeaFee, true
	case FieldAirRatePerWeightUnit:
		return c.AirRatePerWeightUnit, true
	case FieldMinAirChargeableWeight:
		return c.MinAirChargeableWeight, true
	}
	return decimal.Zero, false
}

func (c *Config) set(field ConfigField, value decimal.Decimal) {
	switch field {
	case FieldUsdToExchangeRate:
		c.UsdToExchangeRate = value
	case FieldSeaVolumeRateUsd:
		c.SeaVolumeRateUsd = value
	case FieldSeaBufferFraction:
		c.SeaBufferFraction = value
	case FieldMinSeaFee:
		c.MinSeaFee = value
	case FieldAirRatePerWeightUnit:
		c.AirRatePerWeightUnit = value
	case FieldMinAirChargeableWeight:
		c.MinAirChargeableWeight = value
	}
}

// RateChanges is a partial update: absent fields are left untouched
type RateChanges map[ConfigField]decimal.Decimal

// FieldChange records one field that an update actually changed
type FieldChange struct {
	Field    ConfigField     `json:"field"`
	OldValue decimal.Decimal `json:"old_value"`
	NewValue decimal.Decimal `json:"new_value"`
}

// Apply compares every recognized field present in changes with the stored
// value and applies the differences. Incoming values are rounded to RateScale
// first, so the comparison sees what storage will hold. Unknown fields are
// ignored. A negative value rejects the whole update before anything is
// applied. Last-modified metadata moves only when at least one field changed.
func (c *Config) Apply(changes RateChanges, actor uuid.UUID) ([]FieldChange, error) {
	for _, field := range RecognizedFields {
		if v, ok := changes[field]; ok && v.IsNegative() {
			return nil, shared.NewDomainError("INVALID_RATE", fmt.Sprintf("%s cannot be negative", field))
		}
	}

	applied := make([]FieldChange, 0, len(changes))
	for _, field := range RecognizedFields {
		newValue, ok := changes[field]
		if !ok {
			continue
		}
		newValue = newValue.Round(RateScale)
		oldValue, _ := c.Get(field)
		if oldValue.Equal(newValue) {
			continue
		}
		c.set(field, newValue)
		applied = append(applied, FieldChange{Field: field, OldValue: oldValue, NewValue: newValue})
	}

	if len(applied) == 0 {
		return applied, nil
	}

	now := c.Touch()
	c.LastModifiedBy = &actor
	c.LastModifiedAt = &now
	c.AddDomainEvent(NewConfigUpdatedEvent(c, applied))
	return applied, nil
}

// Validate checks the non-negativity contract and a usable volume ratio
func (c *Config) Validate() error {
	for _, field := range RecognizedFields {
		if v, _ := c.Get(field); v.IsNegative() {
			return shared.NewDomainError("INVALID_RATE", fmt.Sprintf("%s cannot be negative", field))
		}
	}
	if !c.VolumeToWeightRatio.IsPositive() {
		return ErrInvalidVolumeRatio
	}
	return nil
}

// DerivedRates are the effective sea rates computed from the raw inputs
type DerivedRates struct {
	SeaCostPerVolumeUnit      decimal.Decimal `json:"sea_cost_per_volume_unit"`
	SeaCostPerWeightUnitRaw   decimal.Decimal `json:"sea_cost_per_weight_unit_raw"`
	FinalSeaRatePerWeightUnit decimal.Decimal `json:"final_sea_rate_per_weight_unit"`
}

// Derive computes the effective sea rates. Rounding order is fixed:
//
//	perVolume = round2(seaVolumeRateUsd * usdToExchangeRate)
//	raw       = round2(perVolume / volumeToWeightRatio)
//	final     = round2(perVolume / volumeToWeightRatio * (1 + seaBufferFraction))
//
// final is built from the rounded perVolume but the unrounded quotient.
func Derive(c *Config) (DerivedRates, error) {
	if c == nil {
		return DerivedRates{}, ErrConfigUnavailable
	}
	if !c.VolumeToWeightRatio.IsPositive() {
		return DerivedRates{}, ErrInvalidVolumeRatio
	}

	perVolume := valueobject.Round2(c.SeaVolumeRateUsd.Mul(c.UsdToExchangeRate))
	quotient := perVolume.Div(c.VolumeToWeightRatio)
	final := quotient.Mul(decimal.NewFromInt(1).Add(c.SeaBufferFraction))

	return DerivedRates{
		SeaCostPerVolumeUnit:      perVolume,
		SeaCostPerWeightUnitRaw:   valueobject.Round2(quotient),
		FinalSeaRatePerWeightUnit: valueobject.Round2(final),
	}, nil
}

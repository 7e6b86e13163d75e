package shipping

import (
	"time"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
)

// UpdateConfigRequest is a partial rate update. Absent fields stay unchanged;
// volume_to_weight_ratio is not editable and is not accepted here.
type UpdateConfigRequest struct {
	UsdToExchangeRate      *decimal.Decimal `json:"usd_to_exchange_rate"`
	SeaVolumeRateUsd       *decimal.Decimal `json:"sea_volume_rate_usd"`
	SeaBufferFraction      *decimal.Decimal `json:"sea_buffer_fraction"`
	MinSeaFee              *decimal.Decimal `json:"min_sea_fee"`
	AirRatePerWeightUnit   *decimal.Decimal `json:"air_rate_per_weight_unit"`
	MinAirChargeableWeight *decimal.Decimal `json:"min_air_chargeable_weight"`
}

// ToChanges converts the request into the domain change set
func (r UpdateConfigRequest) ToChanges() shipping.RateChanges {
	changes := make(shipping.RateChanges)
	put := func(field shipping.ConfigField, v *decimal.Decimal) {
		if v != nil {
			changes[field] = *v
		}
	}
	put(shipping.FieldUsdToExchangeRate, r.UsdToExchangeRate)
	put(shipping.FieldSeaVolumeRateUsd, r.SeaVolumeRateUsd)
	put(shipping.FieldSeaBufferFraction, r.SeaBufferFraction)
	put(shipping.FieldMinSeaFee, r.MinSeaFee)
	put(shipping.FieldAirRatePerWeightUnit, r.AirRatePerWeightUnit)
	put(shipping.FieldMinAirChargeableWeight, r.MinAirChargeableWeight)
	return changes
}

// Actor identifies who performed an operation and from where
type Actor struct {
	ID     uuid.UUID
	Name   string
	Origin string
}

// ConfigResponse is the live config together with its derived rates
type ConfigResponse struct {
	ID                     uuid.UUID             `json:"id"`
	UsdToExchangeRate      decimal.Decimal       `json:"usd_to_exchange_rate"`
	SeaVolumeRateUsd       decimal.Decimal       `json:"sea_volume_rate_usd"`
	VolumeToWeightRatio    decimal.Decimal       `json:"volume_to_weight_ratio"`
	SeaBufferFraction      decimal.Decimal       `json:"sea_buffer_fraction"`
	MinSeaFee              decimal.Decimal       `json:"min_sea_fee"`
	AirRatePerWeightUnit   decimal.Decimal       `json:"air_rate_per_weight_unit"`
	MinAirChargeableWeight decimal.Decimal       `json:"min_air_chargeable_weight"`
	LastModifiedBy         *uuid.UUID            `json:"last_modified_by,omitempty"`
	LastModifiedAt         *time.Time            `json:"last_modified_at,omitempty"`
	Version                int                   `json:"version"`
	Derived                shipping.DerivedRates `json:"derived"`
}

// UpdateConfigResponse reports the outcome of a rate update
type UpdateConfigResponse struct {
	ConfigResponse
	Changes []shipping.FieldChange `json:"changes"`
}

// ToConfigResponse converts a config and its derived rates
func ToConfigResponse(c *shipping.Config, derived shipping.DerivedRates) ConfigResponse {
	return ConfigResponse{
		ID:                     c.ID,
		UsdToExchangeRate:      c.UsdToExchangeRate,
		SeaVolumeRateUsd:       c.SeaVolumeRateUsd,
		VolumeToWeightRatio:    c.VolumeToWeightRatio,
		SeaBufferFraction:      c.SeaBufferFraction,
		MinSeaFee:              c.MinSeaFee,
		AirRatePerWeightUnit:   c.AirRatePerWeightUnit,
		MinAirChargeableWeight: c.MinAirChargeableWeight,
		LastModifiedBy:         c.LastModifiedBy,
		LastModifiedAt:         c.LastModifiedAt,
		Version:                c.Version,
		Derived:                derived,
	}
}

// AuditEntryResponse represents a config audit entry in API responses
type AuditEntryResponse struct {
	ID        uuid.UUID              `json:"id"`
	Actor     uuid.UUID              `json:"actor"`
	ActorName string                 `json:"actor_name"`
	Action    string                 `json:"action"`
	Changes   []shipping.FieldChange `json:"changes"`
	Origin    string                 `json:"origin"`
	Timestamp time.Time              `json:"timestamp"`
}

// ToAuditEntryResponses converts audit entries
func ToAuditEntryResponses(entries []shipping.AuditEntry) []AuditEntryResponse {
	responses := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = AuditEntryResponse{
			ID:        e.ID,
			Actor:     e.Actor,
			ActorName: e.ActorName,
			Action:    e.Action,
			Changes:   e.Changes,
			Origin:    e.Origin,
			Timestamp: e.Timestamp,
		}
	}
	return responses
}

// CreateBatchRequest represents a request to create a draft batch
type CreateBatchRequest struct {
	Name            string     `json:"name" binding:"required,min=1,max=100"`
	Mode            string     `json:"mode" binding:"omitempty,oneof=sea air"`
	CloseDate       *time.Time `json:"close_date"`
	ExpectedArrival *time.Time `json:"expected_arrival"`
}

// TransitionBatchRequest moves a batch to its next status
type TransitionBatchRequest struct {
	Status string `json:"status" binding:"required,oneof=open closed shipped arrived completed"`
}

// BatchListFilter represents filter options for the batch list
type BatchListFilter struct {
	Mode     string `form:"mode" binding:"omitempty,oneof=sea air"`
	Status   string `form:"status" binding:"omitempty,oneof=draft open closed shipped arrived completed"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// BatchResponse represents a batch in API responses
type BatchResponse struct {
	ID              uuid.UUID              `json:"id"`
	Name            string                 `json:"name"`
	Mode            string                 `json:"mode"`
	Status          string                 `json:"status"`
	OpenDate        *time.Time             `json:"open_date,omitempty"`
	CloseDate       *time.Time             `json:"close_date,omitempty"`
	ExpectedArrival *time.Time             `json:"expected_arrival,omitempty"`
	ClosedAt        *time.Time             `json:"closed_at,omitempty"`
	ShippedAt       *time.Time             `json:"shipped_at,omitempty"`
	ArrivedAt       *time.Time             `json:"arrived_at,omitempty"`
	CompletedAt     *time.Time             `json:"completed_at,omitempty"`
	Snapshot        *shipping.RateSnapshot `json:"locked_rate_snapshot"`
	CreatedBy       uuid.UUID              `json:"created_by"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Version         int                    `json:"version"`
}

// ToBatchResponse converts a domain batch
func ToBatchResponse(b *shipping.Batch) BatchResponse {
	return BatchResponse{
		ID:              b.ID,
		Name:            b.Name,
		Mode:            string(b.Mode),
		Status:          string(b.Status),
		OpenDate:        b.OpenDate,
		CloseDate:       b.CloseDate,
		ExpectedArrival: b.ExpectedArrival,
		ClosedAt:        b.ClosedAt,
		ShippedAt:       b.ShippedAt,
		ArrivedAt:       b.ArrivedAt,
		CompletedAt:     b.CompletedAt,
		Snapshot:        b.Snapshot,
		CreatedBy:       b.CreatedBy,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		Version:         b.Version,
	}
}

// ToBatchResponses converts a slice of domain batches
func ToBatchResponses(batches []shipping.Batch) []BatchResponse {
	responses := make([]BatchResponse, len(batches))
	for i := range batches {
		responses[i] = ToBatchResponse(&batches[i])
	}
	return responses
}

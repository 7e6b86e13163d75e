package shipping

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransportMode is how a batch (and an order line) travels
type TransportMode string

const (
	ModeSea TransportMode = "sea"
	ModeAir TransportMode = "air"
)

// IsValid checks if the mode is a known TransportMode
func (m TransportMode) IsValid() bool {
	return m == ModeSea || m == ModeAir
}

// String returns the string representation of TransportMode
func (m TransportMode) String() string {
	return string(m)
}

// ParseTransportMode parses a mode, defaulting to sea when empty
func ParseTransportMode(s string) (TransportMode, error) {
	if s == "" {
		return ModeSea, nil
	}
	m := TransportMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", shared.NewDomainError("INVALID_TRANSPORT_MODE", fmt.Sprintf("Unknown transport mode %q", s))
	}
	return m, nil
}

// BatchStatus is the lifecycle status of a shipment batch
type BatchStatus string

const (
	BatchStatusDraft     BatchStatus = "draft"
	BatchStatusOpen      BatchStatus = "open"
	BatchStatusClosed    BatchStatus = "closed"
	BatchStatusShipped   BatchStatus = "shipped"
	BatchStatusArrived   BatchStatus = "arrived"
	BatchStatusCompleted BatchStatus = "completed"
)

// IsValid checks if the status is a valid BatchStatus
func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchStatusDraft, BatchStatusOpen, BatchStatusClosed, BatchStatusShipped, BatchStatusArrived, BatchStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of BatchStatus
func (s BatchStatus) String() string {
	return string(s)
}

// CanTransitionTo allows only the single next step of the forward sequence
func (s BatchStatus) CanTransitionTo(target BatchStatus) bool {
	switch s {
	case BatchStatusDraft:
		return target == BatchStatusOpen
	case BatchStatusOpen:
		return target == BatchStatusClosed
	case BatchStatusClosed:
		return target == BatchStatusShipped
	case BatchStatusShipped:
		return target == BatchStatusArrived
	case BatchStatusArrived:
		return target == BatchStatusCompleted
	case BatchStatusCompleted:
		return false
	}
	return false
}

// RateSnapshot is the copy of rates frozen when a batch opens.
// For sea batches RatePerWeightUnit is the derived final sea rate and MinSeaFee
// applies; for air batches it is the air rate and MinAirChargeableWeight applies.
type RateSnapshot struct {
	Mode                   TransportMode   `json:"mode"`
	RatePerWeightUnit      decimal.Decimal `json:"rate_per_weight_unit"`
	MinSeaFee              decimal.Decimal `json:"min_sea_fee"`
	MinAirChargeableWeight decimal.Decimal `json:"min_air_chargeable_weight"`
	ExchangeRate           decimal.Decimal `json:"exchange_rate"`
	ConfigVersion          int             `json:"config_version"`
	LockedAt               time.Time       `json:"locked_at"`
}

// NewRateSnapshot captures the rates relevant to mode from the live config
func NewRateSnapshot(mode TransportMode, cfg *Config, at time.Time) (*RateSnapshot, error) {
	if cfg == nil {
		return nil, ErrConfigUnavailable
	}
	snap := &RateSnapshot{
		Mode:          mode,
		ExchangeRate:  cfg.UsdToExchangeRate,
		ConfigVersion: cfg.Version,
		LockedAt:      at,
	}
	switch mode {
	case ModeSea:
		rates, err := Derive(cfg)
		if err != nil {
			return nil, err
		}
		snap.RatePerWeightUnit = rates.FinalSeaRatePerWeightUnit
		snap.MinSeaFee = cfg.MinSeaFee
	case ModeAir:
		snap.RatePerWeightUnit = cfg.AirRatePerWeightUnit
		snap.MinAirChargeableWeight = cfg.MinAirChargeableWeight
	default:
		return nil, shared.NewDomainError("INVALID_TRANSPORT_MODE", fmt.Sprintf("Unknown transport mode %q", mode))
	}
	return snap, nil
}

// Batch groups orders shipped together and freezes their shipping rates
type Batch struct {
	shared.BaseAggregateRoot
	Name            string
	Mode            TransportMode
	Status          BatchStatus
	OpenDate        *time.Time
	CloseDate       *time.Time // planned close
	ExpectedArrival *time.Time
	ClosedAt        *time.Time
	ShippedAt       *time.Time
	ArrivedAt       *time.Time
	CompletedAt     *time.Time
	Snapshot        *RateSnapshot
	CreatedBy       uuid.UUID
}

// NewBatch creates a batch in draft status
func NewBatch(name string, mode TransportMode, closeDate, expectedArrival *time.Time, creator uuid.UUID) (*Batch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NAME", "Batch name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_BATCH_NAME", "Batch name cannot exceed 100 characters")
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSPORT_MODE", fmt.Sprintf("Unknown transport mode %q", mode))
	}
	if closeDate != nil && expectedArrival != nil && expectedArrival.Before(*closeDate) {
		return nil, shared.NewDomainError("INVALID_BATCH_DATES", "Expected arrival cannot be before the close date")
	}
	if creator == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CREATOR", "Batch creator is required")
	}

	batch := &Batch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Mode:              mode,
		Status:            BatchStatusDraft,
		CloseDate:         closeDate,
		ExpectedArrival:   expectedArrival,
		CreatedBy:         creator,
	}
	batch.AddDomainEvent(NewBatchCreatedEvent(batch))
	return batch, nil
}

// Open moves a draft batch to open and freezes the rate snapshot.
// The snapshot is written exactly once and never recomputed.
func (b *Batch) Open(cfg *Config) error {
	if !b.Status.CanTransitionTo(BatchStatusOpen) {
		return shared.WrapDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot open batch in %s status", b.Status), ErrInvalidTransition)
	}
	if b.Snapshot != nil {
		return shared.NewDomainError("SNAPSHOT_LOCKED", "Batch rates are already locked")
	}

	now := time.Now()
	snap, err := NewRateSnapshot(b.Mode, cfg, now)
	if err != nil {
		return err
	}

	b.Snapshot = snap
	b.Status = BatchStatusOpen
	b.OpenDate = &now
	b.UpdatedAt = now

	b.AddDomainEvent(NewBatchOpenedEvent(b))
	return nil
}

// Advance moves the batch one step forward past open.
// Opening goes through Open because it needs the live config.
func (b *Batch) Advance(target BatchStatus) error {
	if target == BatchStatusOpen {
		return shared.NewDomainError("INVALID_TRANSITION", "Opening a batch requires the rate snapshot step")
	}
	if !target.IsValid() {
		return shared.WrapDomainError("INVALID_TRANSITION", fmt.Sprintf("Unknown batch status %q", target), ErrInvalidTransition)
	}
	if !b.Status.CanTransitionTo(target) {
		return shared.WrapDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot move batch from %s to %s", b.Status, target), ErrInvalidTransition)
	}

	now := time.Now()
	switch target {
	case BatchStatusClosed:
		b.ClosedAt = &now
	case BatchStatusShipped:
		b.ShippedAt = &now
	case BatchStatusArrived:
		b.ArrivedAt = &now
	case BatchStatusCompleted:
		b.CompletedAt = &now
	}
	from := b.Status
	b.Status = target
	b.UpdatedAt = now

	b.AddDomainEvent(NewBatchStatusChangedEvent(b, from))
	return nil
}

// IsOpen reports whether orders can currently be assigned to the batch
func (b *Batch) IsOpen() bool {
	return b.Status == BatchStatusOpen
}

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var modelLogger = zap.L().Named("persistence.models")

// LiveConfigKey is the natural key of the single live rate configuration row
const LiveConfigKey = "live"

// ShippingConfigModel is the persistence model for the rate configuration
type ShippingConfigModel struct {
	AggregateModel
	ConfigKey              string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	UsdToExchangeRate      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SeaVolumeRateUsd       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	VolumeToWeightRatio    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SeaBufferFraction      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MinSeaFee              decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AirRatePerWeightUnit   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MinAirChargeableWeight decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LastModifiedBy         *uuid.UUID      `gorm:"type:uuid"`
	LastModifiedAt         *time.Time
}

// TableName returns the table name for GORM
func (ShippingConfigModel) TableName() string {
	return "shipping_config"
}

// ToDomain converts the persistence model to a domain Config
func (m *ShippingConfigModel) ToDomain() *shipping.Config {
	return &shipping.Config{
		BaseAggregateRoot:      m.ToDomainAggregateRoot(),
		UsdToExchangeRate:      m.UsdToExchangeRate,
		SeaVolumeRateUsd:       m.SeaVolumeRateUsd,
		VolumeToWeightRatio:    m.VolumeToWeightRatio,
		SeaBufferFraction:      m.SeaBufferFraction,
		MinSeaFee:              m.MinSeaFee,
		AirRatePerWeightUnit:   m.AirRatePerWeightUnit,
		MinAirChargeableWeight: m.MinAirChargeableWeight,
		LastModifiedBy:         m.LastModifiedBy,
		LastModifiedAt:         m.LastModifiedAt,
	}
}

// FromDomain populates the persistence model from a domain Config
func (m *ShippingConfigModel) FromDomain(c *shipping.Config) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.ConfigKey = LiveConfigKey
	m.UsdToExchangeRate = c.UsdToExchangeRate
	m.SeaVolumeRateUsd = c.SeaVolumeRateUsd
	m.VolumeToWeightRatio = c.VolumeToWeightRatio
	m.SeaBufferFraction = c.SeaBufferFraction
	m.MinSeaFee = c.MinSeaFee
	m.AirRatePerWeightUnit = c.AirRatePerWeightUnit
	m.MinAirChargeableWeight = c.MinAirChargeableWeight
	m.LastModifiedBy = c.LastModifiedBy
	m.LastModifiedAt = c.LastModifiedAt
}

// ShippingConfigModelFromDomain creates a persistence model from a domain Config
func ShippingConfigModelFromDomain(c *shipping.Config) *ShippingConfigModel {
	m := &ShippingConfigModel{}
	m.FromDomain(c)
	return m
}

// ConfigAuditLogModel is an append-only record of an effective rate update
type ConfigAuditLogModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Actor       uuid.UUID `gorm:"type:uuid;not null;index"`
	ActorName   string    `gorm:"type:varchar(200)"`
	Action      string    `gorm:"type:varchar(50);not null"`
	ChangesJSON string    `gorm:"column:changes;type:jsonb;not null"`
	Origin      string    `gorm:"type:varchar(100)"`
	Timestamp   time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ConfigAuditLogModel) TableName() string {
	return "config_audit_log"
}

// ToDomain converts the persistence model to a domain AuditEntry
func (m *ConfigAuditLogModel) ToDomain() shipping.AuditEntry {
	entry := shipping.AuditEntry{
		ID:        m.ID,
		Actor:     m.Actor,
		ActorName: m.ActorName,
		Action:    m.Action,
		Changes:   make([]shipping.FieldChange, 0),
		Origin:    m.Origin,
		Timestamp: m.Timestamp,
	}
	if m.ChangesJSON != "" {
		if err := json.Unmarshal([]byte(m.ChangesJSON), &entry.Changes); err != nil {
			modelLogger.Warn("failed to parse audit changes JSON",
				zap.String("audit_id", m.ID.String()),
				zap.Error(err))
		}
	}
	return entry
}

// ConfigAuditLogModelFromDomain creates a persistence model from a domain AuditEntry
func ConfigAuditLogModelFromDomain(e *shipping.AuditEntry) (*ConfigAuditLogModel, error) {
	changes, err := json.Marshal(e.Changes)
	if err != nil {
		return nil, err
	}
	return &ConfigAuditLogModel{
		ID:          e.ID,
		Actor:       e.Actor,
		ActorName:   e.ActorName,
		Action:      e.Action,
		ChangesJSON: string(changes),
		Origin:      e.Origin,
		Timestamp:   e.Timestamp,
	}, nil
}

// BatchModel is the persistence model for a shipment batch.
// At most one row per mode may be open, enforced by a partial unique index.
type BatchModel struct {
	AggregateModel
	Name            string                 `gorm:"type:varchar(100);not null"`
	Mode            shipping.TransportMode `gorm:"type:varchar(10);not null;index"`
	Status          shipping.BatchStatus   `gorm:"type:varchar(20);not null;index"`
	OpenDate        *time.Time
	CloseDate       *time.Time
	ExpectedArrival *time.Time
	ClosedAt        *time.Time
	ShippedAt       *time.Time
	ArrivedAt       *time.Time
	CompletedAt     *time.Time
	SnapshotJSON    *string   `gorm:"column:snapshot;type:jsonb"`
	CreatedBy       uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (BatchModel) TableName() string {
	return "batches"
}

// ToDomain converts the persistence model to a domain Batch
func (m *BatchModel) ToDomain() *shipping.Batch {
	b := &shipping.Batch{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Mode:              m.Mode,
		Status:            m.Status,
		OpenDate:          m.OpenDate,
		CloseDate:         m.CloseDate,
		ExpectedArrival:   m.ExpectedArrival,
		ClosedAt:          m.ClosedAt,
		ShippedAt:         m.ShippedAt,
		ArrivedAt:         m.ArrivedAt,
		CompletedAt:       m.CompletedAt,
		CreatedBy:         m.CreatedBy,
	}
	if m.SnapshotJSON != nil && *m.SnapshotJSON != "" {
		var snap shipping.RateSnapshot
		if err := json.Unmarshal([]byte(*m.SnapshotJSON), &snap); err != nil {
			modelLogger.Warn("failed to parse batch snapshot JSON",
				zap.String("batch_id", m.ID.String()),
				zap.Error(err))
		} else {
			b.Snapshot = &snap
		}
	}
	return b
}

// FromDomain populates the persistence model from a domain Batch
func (m *BatchModel) FromDomain(b *shipping.Batch) error {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.Name = b.Name
	m.Mode = b.Mode
	m.Status = b.Status
	m.OpenDate = b.OpenDate
	m.CloseDate = b.CloseDate
	m.ExpectedArrival = b.ExpectedArrival
	m.ClosedAt = b.ClosedAt
	m.ShippedAt = b.ShippedAt
	m.ArrivedAt = b.ArrivedAt
	m.CompletedAt = b.CompletedAt
	m.CreatedBy = b.CreatedBy
	m.SnapshotJSON = nil
	if b.Snapshot != nil {
		raw, err := json.Marshal(b.Snapshot)
		if err != nil {
			return err
		}
		s := string(raw)
		m.SnapshotJSON = &s
	}
	return nil
}

// BatchModelFromDomain creates a persistence model from a domain Batch
func BatchModelFromDomain(b *shipping.Batch) (*BatchModel, error) {
	m := &BatchModel{}
	if err := m.FromDomain(b); err != nil {
		return nil, err
	}
	return m, nil
}

package shipping

import (
	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeConfig = "ShippingConfig"
	AggregateTypeBatch  = "ShipmentBatch"
)

// Event type constants
const (
	EventTypeConfigUpdated      = "ShippingConfigUpdated"
	EventTypeBatchCreated       = "ShipmentBatchCreated"
	EventTypeBatchOpened        = "ShipmentBatchOpened"
	EventTypeBatchStatusChanged = "ShipmentBatchStatusChanged"
)

// ConfigUpdatedEvent is raised when an update changed at least one rate field
type ConfigUpdatedEvent struct {
	shared.BaseDomainEvent
	Changes []FieldChange `json:"changes"`
	Version int           `json:"version"`
}

// NewConfigUpdatedEvent creates a new ConfigUpdatedEvent
func NewConfigUpdatedEvent(cfg *Config, changes []FieldChange) *ConfigUpdatedEvent {
	return &ConfigUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConfigUpdated, AggregateTypeConfig, cfg.ID),
		Changes:         changes,
		Version:         cfg.Version,
	}
}

// BatchCreatedEvent is raised when a draft batch is created
type BatchCreatedEvent struct {
	shared.BaseDomainEvent
	BatchID uuid.UUID     `json:"batch_id"`
	Name    string        `json:"name"`
	Mode    TransportMode `json:"mode"`
}

// NewBatchCreatedEvent creates a new BatchCreatedEvent
func NewBatchCreatedEvent(b *Batch) *BatchCreatedEvent {
	return &BatchCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchCreated, AggregateTypeBatch, b.ID),
		BatchID:         b.ID,
		Name:            b.Name,
		Mode:            b.Mode,
	}
}

// BatchOpenedEvent is raised when a batch opens and its rates are frozen
type BatchOpenedEvent struct {
	shared.BaseDomainEvent
	BatchID  uuid.UUID     `json:"batch_id"`
	Mode     TransportMode `json:"mode"`
	Snapshot RateSnapshot  `json:"snapshot"`
}

// NewBatchOpenedEvent creates a new BatchOpenedEvent
func NewBatchOpenedEvent(b *Batch) *BatchOpenedEvent {
	e := &BatchOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchOpened, AggregateTypeBatch, b.ID),
		BatchID:         b.ID,
		Mode:            b.Mode,
	}
	if b.Snapshot != nil {
		e.Snapshot = *b.Snapshot
	}
	return e
}

// BatchStatusChangedEvent is raised for every transition after open
type BatchStatusChangedEvent struct {
	shared.BaseDomainEvent
	BatchID uuid.UUID   `json:"batch_id"`
	From    BatchStatus `json:"from"`
	To      BatchStatus `json:"to"`
}

// NewBatchStatusChangedEvent creates a new BatchStatusChangedEvent
func NewBatchStatusChangedEvent(b *Batch, from BatchStatus) *BatchStatusChangedEvent {
	return &BatchStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchStatusChanged, AggregateTypeBatch, b.ID),
		BatchID:         b.ID,
		From:            from,
		To:              b.Status,
	}
}

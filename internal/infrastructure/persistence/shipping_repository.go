package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/napsterimports/backend/internal/domain/shipping"
	"github.com/napsterimports/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormConfigRepository implements shipping.ConfigRepository using GORM
type GormConfigRepository struct {
	db *gorm.DB
}

// NewGormConfigRepository creates a new GormConfigRepository
func NewGormConfigRepository(db *gorm.DB) *GormConfigRepository {
	return &GormConfigRepository{db: db}
}

// Find returns the live config
func (r *GormConfigRepository) Find(ctx context.Context) (*shipping.Config, error) {
	var model models.ShippingConfigModel
	if err := r.db.WithContext(ctx).First(&model, "config_key = ?", models.LiveConfigKey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts the initial config. The unique config key lets exactly one
// concurrent creator win.
func (r *GormConfigRepository) Create(ctx context.Context, cfg *shipping.Config) error {
	model := models.ShippingConfigModelFromDomain(cfg)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// SaveWithVersion writes cfg as version cfg.Version+1 if the row is still at cfg.Version
func (r *GormConfigRepository) SaveWithVersion(ctx context.Context, cfg *shipping.Config) error {
	result := r.db.WithContext(ctx).
		Model(&models.ShippingConfigModel{}).
		Where("id = ? AND version = ?", cfg.ID, cfg.Version).
		Updates(map[string]interface{}{
			"usd_to_exchange_rate":      cfg.UsdToExchangeRate,
			"sea_volume_rate_usd":       cfg.SeaVolumeRateUsd,
			"sea_buffer_fraction":       cfg.SeaBufferFraction,
			"min_sea_fee":               cfg.MinSeaFee,
			"air_rate_per_weight_unit":  cfg.AirRatePerWeightUnit,
			"min_air_chargeable_weight": cfg.MinAirChargeableWeight,
			"last_modified_by":          cfg.LastModifiedBy,
			"last_modified_at":          cfg.LastModifiedAt,
			"version":                   cfg.Version + 1,
			"updated_at":                cfg.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	cfg.IncrementVersion()
	return nil
}

// GormAuditLogRepository implements shipping.AuditLogRepository using GORM
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Append inserts a new audit entry
func (r *GormAuditLogRepository) Append(ctx context.Context, entry *shipping.AuditEntry) error {
	model, err := models.ConfigAuditLogModelFromDomain(entry)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// List returns audit entries ordered by timestamp, newest first by default
func (r *GormAuditLogRepository) List(ctx context.Context, filter shared.Filter) ([]shipping.AuditEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ConfigAuditLogModel{}).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ConfigAuditLogModel
	if err := applyPaging(query, filter, AuditSortFields, "timestamp").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]shipping.AuditEntry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, total, nil
}

// GormBatchRepository implements shipping.BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID finds a batch by its ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipping.Batch, error) {
	return r.first(r.db.WithContext(ctx), "id = ?", id)
}

// FindByIDForUpdate finds a batch by ID with a row lock held until the transaction ends
func (r *GormBatchRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*shipping.Batch, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

// FindOpenByMode returns the open batch for mode
func (r *GormBatchRepository) FindOpenByMode(ctx context.Context, mode shipping.TransportMode) (*shipping.Batch, error) {
	return r.first(r.db.WithContext(ctx), "mode = ? AND status = ?", mode, shipping.BatchStatusOpen)
}

func (r *GormBatchRepository) first(query *gorm.DB, cond string, args ...interface{}) (*shipping.Batch, error) {
	var model models.BatchModel
	if err := query.Where(cond, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists batches matching the mode and status filters
func (r *GormBatchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]shipping.Batch, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BatchModel{})
	if mode, ok := filter.Filters["mode"]; ok && mode != "" {
		query = query.Where("mode = ?", mode)
	}
	if status, ok := filter.Filters["status"]; ok && status != "" {
		query = query.Where("status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.BatchModel
	if err := applyPaging(query, filter, BatchSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	batches := make([]shipping.Batch, len(rows))
	for i := range rows {
		batches[i] = *rows[i].ToDomain()
	}
	return batches, total, nil
}

// Create inserts a new draft batch. Drafts never touch the open-batch index,
// so a duplicate key can only be a reused ID.
func (r *GormBatchRepository) Create(ctx context.Context, batch *shipping.Batch) error {
	model, err := models.BatchModelFromDomain(batch)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// SaveWithLock writes batch as version batch.Version+1 if the row is still at
// batch.Version. The partial unique index on open batches turns a second open
// of the same mode into ErrBatchAlreadyOpen.
func (r *GormBatchRepository) SaveWithLock(ctx context.Context, batch *shipping.Batch) error {
	model, err := models.BatchModelFromDomain(batch)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&models.BatchModel{}).
		Where("id = ? AND version = ?", batch.ID, batch.Version).
		Updates(map[string]interface{}{
			"name":             model.Name,
			"status":           model.Status,
			"open_date":        model.OpenDate,
			"close_date":       model.CloseDate,
			"expected_arrival": model.ExpectedArrival,
			"closed_at":        model.ClosedAt,
			"shipped_at":       model.ShippedAt,
			"arrived_at":       model.ArrivedAt,
			"completed_at":     model.CompletedAt,
			"snapshot":         model.SnapshotJSON,
			"version":          batch.Version + 1,
			"updated_at":       model.UpdatedAt,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return shipping.ErrBatchAlreadyOpen
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	batch.IncrementVersion()
	return nil
}

var (
	_ shipping.ConfigRepository   = (*GormConfigRepository)(nil)
	_ shipping.AuditLogRepository = (*GormAuditLogRepository)(nil)
	_ shipping.BatchRepository    = (*GormBatchRepository)(nil)
)

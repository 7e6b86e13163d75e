package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/order"
	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/napsterimports/backend/internal/domain/shipping"
	"github.com/napsterimports/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements order.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer lists the orders placed by customerID
func (r *GormOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("customer_id = ?", customerID)
	return r.list(query, filter)
}

// FindAll lists orders, optionally filtered by status
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{})
	if status, ok := filter.Filters["status"]; ok && status != "" {
		query = query.Where("status = ?", status)
	}
	return r.list(query, filter)
}

func (r *GormOrderRepository) list(query *gorm.DB, filter shared.Filter) ([]order.Order, int64, error) {
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.OrderModel
	if err := applyPaging(query, filter, OrderSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]order.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// Create inserts a new order
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	model, err := models.OrderModelFromDomain(o)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// SaveWithLock writes o as version o.Version+1 if the row is still at o.Version
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	model, err := models.OrderModelFromDomain(o)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", o.ID, o.Version).
		Updates(map[string]interface{}{
			"is_item_paid":     model.IsItemPaid,
			"is_shipping_paid": model.IsShippingPaid,
			"is_fully_paid":    model.IsFullyPaid,
			"payment_result":   model.PaymentResultJSON,
			"status":           model.Status,
			"is_delivered":     model.IsDelivered,
			"delivered_at":     model.DeliveredAt,
			"timeline":         model.TimelineJSON,
			"version":          o.Version + 1,
			"updated_at":       model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	o.IncrementVersion()
	return nil
}

// settlementRow is the aggregate row scanned by SummarizeBatch
type settlementRow struct {
	OrderCount        int64
	ItemPaidCount     int64
	ShippingPaidCount int64
	FullyPaidCount    int64
	ShippingBilled    decimal.Decimal
	ShippingCollected decimal.Decimal
}

// SummarizeBatch aggregates the payment state of every order priced against batchID
func (r *GormOrderRepository) SummarizeBatch(ctx context.Context, batchID uuid.UUID) (*shipping.BatchSettlement, error) {
	var row settlementRow
	err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select(`COUNT(*) AS order_count,
			COALESCE(SUM(CASE WHEN is_item_paid THEN 1 ELSE 0 END), 0) AS item_paid_count,
			COALESCE(SUM(CASE WHEN is_shipping_paid THEN 1 ELSE 0 END), 0) AS shipping_paid_count,
			COALESCE(SUM(CASE WHEN is_fully_paid THEN 1 ELSE 0 END), 0) AS fully_paid_count,
			COALESCE(SUM(shipping_price), 0) AS shipping_billed,
			COALESCE(SUM(CASE WHEN is_shipping_paid THEN shipping_price ELSE 0 END), 0) AS shipping_collected`).
		Where("sea_batch_id = ? OR air_batch_id = ?", batchID, batchID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &shipping.BatchSettlement{
		BatchID:           batchID,
		OrderCount:        row.OrderCount,
		ItemPaidCount:     row.ItemPaidCount,
		ShippingPaidCount: row.ShippingPaidCount,
		FullyPaidCount:    row.FullyPaidCount,
		ShippingBilled:    row.ShippingBilled,
		ShippingCollected: row.ShippingCollected,
	}, nil
}

// GormPaymentApplicationRepository implements order.PaymentApplicationRepository using GORM
type GormPaymentApplicationRepository struct {
	db *gorm.DB
}

// NewGormPaymentApplicationRepository creates a new GormPaymentApplicationRepository
func NewGormPaymentApplicationRepository(db *gorm.DB) *GormPaymentApplicationRepository {
	return &GormPaymentApplicationRepository{db: db}
}

// Insert stores app unless (order, type, transaction) is already recorded.
// A conflicting row inserts nothing and reports false.
func (r *GormPaymentApplicationRepository) Insert(ctx context.Context, app *order.PaymentApplication) (bool, error) {
	model := models.PaymentApplicationModelFromDomain(app)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "payment_type"}, {Name: "provider_transaction_id"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByOrder returns the applications recorded for orderID, oldest first
func (r *GormPaymentApplicationRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]order.PaymentApplication, error) {
	var rows []models.PaymentApplicationModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("applied_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	apps := make([]order.PaymentApplication, len(rows))
	for i := range rows {
		apps[i] = rows[i].ToDomain()
	}
	return apps, nil
}

var (
	_ order.OrderRepository              = (*GormOrderRepository)(nil)
	_ order.PaymentApplicationRepository = (*GormPaymentApplicationRepository)(nil)
	_ shipping.SettlementReader          = (*GormOrderRepository)(nil)
)

package persistence

import (
	"testing"

	"github.com/napsterimports/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite database carrying the production
// tables and the partial unique index on open batches.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every statement on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.ShippingConfigModel{},
		&models.ConfigAuditLogModel{},
		&models.BatchModel{},
		&models.OrderModel{},
		&models.PaymentApplicationModel{},
	))
	require.NoError(t, db.Exec(`CREATE UNIQUE INDEX ux_batches_open_mode ON batches(mode) WHERE status = 'open'`).Error)
	return db
}

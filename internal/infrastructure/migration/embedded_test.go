package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/napsterimports/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	ups, downs := 0, 0
	for _, name := range names {
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups++
		case strings.HasSuffix(name, ".down.sql"):
			downs++
		}
	}
	assert.Equal(t, ups, downs, "every up migration needs a down migration")

	schema, err := fs.ReadFile(migrations.FS, "000001_create_shipping_tables.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(schema), "ux_batches_open_mode ON batches (mode) WHERE status = 'open'")

	orders, err := fs.ReadFile(migrations.FS, "000002_create_orders.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(orders), "ux_payment_applications_txn")
}

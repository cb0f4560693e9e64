package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a throwaway store in the test's temp dir with the full
// migration set applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, Migrate(db, zap.NewNop()))
	return db
}

func TestMigrate(t *testing.T) {
	t.Run("applies every migration exactly once", func(t *testing.T) {
		db := newTestDB(t)

		var applied int64
		require.NoError(t, db.Model(&SchemaMigration{}).Count(&applied).Error)
		require.Equal(t, int64(len(migrations)), applied)

		// Second pass is a no-op
		require.NoError(t, Migrate(db, zap.NewNop()))
		require.NoError(t, db.Model(&SchemaMigration{}).Count(&applied).Error)
		require.Equal(t, int64(len(migrations)), applied)
	})

	t.Run("seeds system role templates once", func(t *testing.T) {
		db := newTestDB(t)
		require.NoError(t, Migrate(db, zap.NewNop()))

		var count int64
		require.NoError(t, db.Table("roles").Where("name = ? AND company_id IS NULL", "cashier").Count(&count).Error)
		require.Equal(t, int64(1), count)
	})
}

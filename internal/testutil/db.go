package testutil

import (
	"testing"

	"artifact-catalog-service/internal/adapters/secondary/gormstore"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestStore returns a migrated in-memory SQLite store, closed when the
// test ends.
func NewTestStore(t *testing.T) *gormstore.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := gormstore.New(db)
	require.NoError(t, store.AutoMigrate())
	return store
}

// CountRows counts the rows of model's table.
func CountRows(t *testing.T, store *gormstore.Store, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, store.DB().Model(model).Count(&n).Error)
	return n
}

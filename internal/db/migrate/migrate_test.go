package migrate

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/apitemplate/apitemplate/internal/db/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestModelsContainsItem(t *testing.T) {
	Register(&models.Item{}, nil)

	count := 0
	for _, m := range Models() {
		if _, ok := m.(*models.Item); ok {
			count++
		}
	}

	assert.Equal(t, 1, count, "item must be registered exactly once")
}

func TestModelsReturnsCopy(t *testing.T) {
	got := Models()
	require.NotEmpty(t, got)

	got[0] = "changed"
	assert.NotEqual(t, "changed", Models()[0])
}

func TestUpAndDrop(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Up(db))
	assert.True(t, db.Migrator().HasTable(&models.Item{}))

	// running twice is fine
	require.NoError(t, Up(db))

	require.NoError(t, db.Create(&models.Item{Name: "widget"}).Error)

	require.NoError(t, Drop(db))
	assert.False(t, db.Migrator().HasTable(&models.Item{}))
}

func TestNilDB(t *testing.T) {
	assert.ErrorIs(t, Up(nil), ErrDBNil)
	assert.ErrorIs(t, Drop(nil), ErrDBNil)
}

// Package testutil provides an in-memory SQLite database for tests.
package testutil

import (
	"testing"

	"github.com/lifequest/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory SQLite database with every table migrated.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// One connection, otherwise each new connection sees an empty database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.Tables()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateProfile inserts a level-1 profile for userID.
func CreateProfile(t *testing.T, db *gorm.DB, userID string) *models.Profile {
	t.Helper()
	p := &models.Profile{ID: userID, DisplayName: userID, Level: 1}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return p
}

package migrations

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Migration is a schema change applied once, after AutoMigrate has created the tables.
type Migration struct {
	ID        string // e.g. "001_mission_indexes"
	Name      string
	Up        func(db *gorm.DB) error
	DependsOn []string
}

// MigrationRecord tracks which migrations have been applied.
type MigrationRecord struct {
	ID        string    `gorm:"primaryKey;type:text"`
	Name      string    `gorm:"type:text"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

// NewMigrator uses the registered migrations unless others are given.
func NewMigrator(db *gorm.DB, migrations ...Migration) *Migrator {
	if len(migrations) == 0 {
		migrations = GetMigrations()
	}
	return &Migrator{db: db, migrations: migrations}
}

// Applied returns the IDs of migrations already recorded.
func (m *Migrator) Applied() (map[string]bool, error) {
	if err := m.db.AutoMigrate(&MigrationRecord{}); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}
	var applied []MigrationRecord
	if err := m.db.Find(&applied).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch applied migrations: %w", err)
	}
	out := make(map[string]bool, len(applied))
	for _, r := range applied {
		out[r.ID] = true
	}
	return out, nil
}

// Run executes pending migrations in order and returns how many ran.
func (m *Migrator) Run() (int, error) {
	applied, err := m.Applied()
	if err != nil {
		return 0, err
	}

	ran := 0
	for _, migration := range m.migrations {
		if applied[migration.ID] {
			continue
		}
		for _, dep := range migration.DependsOn {
			if !applied[dep] {
				return ran, fmt.Errorf("migration %s depends on %s which is not applied", migration.ID, dep)
			}
		}

		log.Info().Str("migration", migration.ID).Str("name", migration.Name).Msg("Running migration")
		if err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return err
			}
			return tx.Create(&MigrationRecord{ID: migration.ID, Name: migration.Name}).Error
		}); err != nil {
			log.Error().Err(err).Str("migration", migration.ID).Msg("Migration failed")
			return ran, fmt.Errorf("migration %s failed: %w", migration.ID, err)
		}
		applied[migration.ID] = true
		ran++
		log.Info().Str("migration", migration.ID).Msg("Migration completed")
	}
	return ran, nil
}

// GetMigrations returns all registered migrations in order.
func GetMigrations() []Migration {
	return []Migration{
		Migration001MissionIndexes(),
		Migration002HistoryAppendOnly(),
	}
}

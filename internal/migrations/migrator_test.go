package migrations

import (
	"errors"
	"testing"

	"github.com/lifequest/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRun_AppliesOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	m := NewMigrator(db)

	ran, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, len(GetMigrations()), ran)

	ran, err = m.Run()
	require.NoError(t, err)
	assert.Zero(t, ran)

	applied, err := m.Applied()
	require.NoError(t, err)
	assert.True(t, applied["001_mission_indexes"])
	assert.True(t, applied["002_history_append_only"])
}

func TestRun_FailedMigrationIsNotRecorded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	boom := Migration{
		ID:   "900_boom",
		Name: "always fails",
		Up:   func(*gorm.DB) error { return errors.New("boom") },
	}
	m := NewMigrator(db, boom)

	_, err := m.Run()
	require.Error(t, err)

	applied, err := m.Applied()
	require.NoError(t, err)
	assert.False(t, applied["900_boom"])
}

func TestRun_MissingDependency(t *testing.T) {
	db := testutil.SetupTestDB(t)
	m := NewMigrator(db, Migration{
		ID:        "901_orphan",
		DependsOn: []string{"000_missing"},
		Up:        func(*gorm.DB) error { return nil },
	})
	_, err := m.Run()
	assert.ErrorContains(t, err, "000_missing")
}

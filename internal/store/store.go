// Package store is the persistence boundary. Every query is scoped by the
// owning user id; callers never see rows that belong to someone else.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lifequest/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a row does not exist for the given user.
var ErrNotFound = errors.New("record not found")

// Error wraps a failure reported by the database.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return &Error{Op: op, Err: err}
}

type Profiles interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Create(ctx context.Context, p *models.Profile) error
	UpdateDisplayName(ctx context.Context, userID, name string) error
	// SetXP writes xp alone; only valid when the level does not change.
	SetXP(ctx context.Context, userID string, xp int) error
	// ApplyProgress writes xp, level and stats in one statement.
	ApplyProgress(ctx context.Context, userID string, xp, level int, stats models.Stats) error
}

type Objectives interface {
	List(ctx context.Context, userID string) ([]models.Objective, error)
	Create(ctx context.Context, o *models.Objective) error
	Update(ctx context.Context, o *models.Objective) error
	// Delete clears the reference on the user's missions before removing the objective.
	Delete(ctx context.Context, userID, id string) error
}

type Schedules interface {
	List(ctx context.Context, userID string) ([]models.Schedule, error)
	Create(ctx context.Context, s *models.Schedule) error
	Update(ctx context.Context, s *models.Schedule) error
	// Delete clears the reference on the user's missions before removing the schedule.
	Delete(ctx context.Context, userID, id string) error
}

type Missions interface {
	List(ctx context.Context, userID string) ([]models.Mission, error)
	Get(ctx context.Context, userID, id string) (*models.Mission, error)
	Create(ctx context.Context, m *models.Mission) error
	Update(ctx context.Context, m *models.Mission) error
	Delete(ctx context.Context, userID, id string) error
	// Transition moves a mission to status `to` only if its current status is
	// one of `from`. It reports whether the row changed.
	Transition(ctx context.Context, userID, id string, from []models.MissionStatus, to models.MissionStatus, at time.Time) (bool, error)
	// ListOverdue returns open missions of all users whose deadline is before the given day.
	ListOverdue(ctx context.Context, before datatypes.Date) ([]models.Mission, error)
}

type History interface {
	// List returns the user's entries, newest first. limit <= 0 means no limit.
	List(ctx context.Context, userID string, limit int) ([]models.MissionHistory, error)
	Append(ctx context.Context, h *models.MissionHistory) error
}

// Store bundles the per-entity repositories.
type Store struct {
	Profiles   Profiles
	Objectives Objectives
	Schedules  Schedules
	Missions   Missions
	History    History

	tx func(ctx context.Context, fn func(*Store) error) error
}

// Transaction runs fn against a Store whose repositories share one
// transaction. Stores without transaction support run fn directly.
func (s *Store) Transaction(ctx context.Context, fn func(*Store) error) error {
	if s.tx == nil {
		return fn(s)
	}
	return s.tx(ctx, fn)
}

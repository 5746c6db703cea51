package store

import (
	"context"
	"time"

	"github.com/lifequest/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NewGorm builds a Store backed by db.
func NewGorm(db *gorm.DB) *Store {
	s := &Store{
		Profiles:   &profileRepo{db: db},
		Objectives: &objectiveRepo{db: db},
		Schedules:  &scheduleRepo{db: db},
		Missions:   &missionRepo{db: db},
		History:    &historyRepo{db: db},
	}
	s.tx = func(ctx context.Context, fn func(*Store) error) error {
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			inner := NewGorm(tx)
			// Nested calls run inside the same transaction.
			inner.tx = nil
			return fn(inner)
		})
	}
	return s
}

type profileRepo struct{ db *gorm.DB }

func (r *profileRepo) Get(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.WithContext(ctx).First(&p, "id = ?", userID).Error; err != nil {
		return nil, wrap("get profile", err)
	}
	return &p, nil
}

func (r *profileRepo) Create(ctx context.Context, p *models.Profile) error {
	return wrap("create profile", r.db.WithContext(ctx).Create(p).Error)
}

func (r *profileRepo) UpdateDisplayName(ctx context.Context, userID, name string) error {
	res := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", userID).
		Update("display_name", name)
	return affected("update profile", res)
}

func (r *profileRepo) SetXP(ctx context.Context, userID string, xp int) error {
	res := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", userID).
		Update("xp", xp)
	return affected("set xp", res)
}

func (r *profileRepo) ApplyProgress(ctx context.Context, userID string, xp, level int, stats models.Stats) error {
	res := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"xp":           xp,
			"level":        level,
			"strength":     stats.Strength,
			"intelligence": stats.Intelligence,
			"motivation":   stats.Motivation,
		})
	return affected("apply progress", res)
}

type objectiveRepo struct{ db *gorm.DB }

func (r *objectiveRepo) List(ctx context.Context, userID string) ([]models.Objective, error) {
	var out []models.Objective
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, wrap("list objectives", err)
}

func (r *objectiveRepo) Create(ctx context.Context, o *models.Objective) error {
	return wrap("create objective", r.db.WithContext(ctx).Create(o).Error)
}

func (r *objectiveRepo) Update(ctx context.Context, o *models.Objective) error {
	res := r.db.WithContext(ctx).Model(o).
		Where("user_id = ?", o.UserID).
		Select("title", "description", "target_value", "current_value", "category", "deadline", "status", "updated_at").
		Updates(o)
	return affected("update objective", res)
}

func (r *objectiveRepo) Delete(ctx context.Context, userID, id string) error {
	return wrap("delete objective", r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Mission{}).
			Where("user_id = ? AND objective_id = ?", userID, id).
			Update("objective_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Objective{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}

type scheduleRepo struct{ db *gorm.DB }

func (r *scheduleRepo) List(ctx context.Context, userID string) ([]models.Schedule, error) {
	var out []models.Schedule
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, wrap("list schedules", err)
}

func (r *scheduleRepo) Create(ctx context.Context, s *models.Schedule) error {
	return wrap("create schedule", r.db.WithContext(ctx).Create(s).Error)
}

func (r *scheduleRepo) Update(ctx context.Context, s *models.Schedule) error {
	res := r.db.WithContext(ctx).Model(s).
		Where("user_id = ?", s.UserID).
		Select("title", "frequency", "start_date", "end_date", "is_active", "updated_at").
		Updates(s)
	return affected("update schedule", res)
}

func (r *scheduleRepo) Delete(ctx context.Context, userID, id string) error {
	return wrap("delete schedule", r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Mission{}).
			Where("user_id = ? AND schedule_id = ?", userID, id).
			Update("schedule_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Schedule{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}

type missionRepo struct{ db *gorm.DB }

func (r *missionRepo) List(ctx context.Context, userID string) ([]models.Mission, error) {
	var out []models.Mission
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, wrap("list missions", err)
}

func (r *missionRepo) Get(ctx context.Context, userID, id string) (*models.Mission, error) {
	var m models.Mission
	if err := r.db.WithContext(ctx).First(&m, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, wrap("get mission", err)
	}
	return &m, nil
}

func (r *missionRepo) Create(ctx context.Context, m *models.Mission) error {
	return wrap("create mission", r.db.WithContext(ctx).Create(m).Error)
}

// Update never touches status, xp_reward or completed_at; those change only
// through Transition or not at all.
func (r *missionRepo) Update(ctx context.Context, m *models.Mission) error {
	res := r.db.WithContext(ctx).Model(m).
		Where("user_id = ?", m.UserID).
		Select("title", "description", "category", "difficulty", "deadline", "objective_id", "schedule_id", "updated_at").
		Updates(m)
	return affected("update mission", res)
}

func (r *missionRepo) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Mission{})
	return affected("delete mission", res)
}

func (r *missionRepo) Transition(ctx context.Context, userID, id string, from []models.MissionStatus, to models.MissionStatus, at time.Time) (bool, error) {
	fields := map[string]interface{}{
		"status":     to,
		"updated_at": at,
	}
	if to == models.MissionCompleted {
		fields["completed_at"] = at
	}
	res := r.db.WithContext(ctx).Model(&models.Mission{}).
		Where("id = ? AND user_id = ? AND status IN ?", id, userID, from).
		Updates(fields)
	if res.Error != nil {
		return false, wrap("transition mission", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *missionRepo) ListOverdue(ctx context.Context, before datatypes.Date) ([]models.Mission, error) {
	var out []models.Mission
	err := r.db.WithContext(ctx).
		Where("status IN ? AND deadline IS NOT NULL AND deadline < ?", models.OpenStatuses, before).
		Order("deadline asc").
		Find(&out).Error
	return out, wrap("list overdue missions", err)
}

type historyRepo struct{ db *gorm.DB }

func (r *historyRepo) List(ctx context.Context, userID string, limit int) ([]models.MissionHistory, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []models.MissionHistory
	return out, wrap("list history", q.Find(&out).Error)
}

func (r *historyRepo) Append(ctx context.Context, h *models.MissionHistory) error {
	return wrap("append history", r.db.WithContext(ctx).Create(h).Error)
}

func affected(op string, res *gorm.DB) error {
	if res.Error != nil {
		return wrap(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var (
	_ Profiles   = (*profileRepo)(nil)
	_ Objectives = (*objectiveRepo)(nil)
	_ Schedules  = (*scheduleRepo)(nil)
	_ Missions   = (*missionRepo)(nil)
	_ History    = (*historyRepo)(nil)
)

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lifequest/backend/internal/database"
	"github.com/lifequest/backend/internal/models"
	"github.com/lifequest/backend/internal/progression"
	"github.com/lifequest/backend/internal/state"
	"github.com/lifequest/backend/internal/store"
	"github.com/lifequest/backend/pkg/logger"
	"github.com/rs/zerolog"
)

// ErrNoTemplate is reported for a category with an empty template pool.
var ErrNoTemplate = errors.New("no mission template for category")

// MissionService runs the multi-step mission workflows: generation,
// completion with XP and the overdue sweep.
type MissionService struct {
	store   *store.Store
	clock   progression.Clock
	rng     progression.Rand
	catalog progression.Catalog
	gate    progression.Gate
	cache   *database.Cache
	log     zerolog.Logger
}

type Option func(*MissionService)

func WithCatalog(c progression.Catalog) Option {
	return func(s *MissionService) { s.catalog = c }
}

func WithGate(g progression.Gate) Option {
	return func(s *MissionService) { s.gate = g }
}

// WithCache enables the Redis-backed stats cache. A nil cache is allowed.
func WithCache(c *database.Cache) Option {
	return func(s *MissionService) { s.cache = c }
}

func NewMissionService(st *store.Store, clock progression.Clock, rng progression.Rand, opts ...Option) *MissionService {
	s := &MissionService{
		store:   st,
		clock:   clock,
		rng:     rng,
		catalog: progression.DefaultCatalog,
		gate:    progression.DefaultGate,
		log:     logger.Component("missions"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerationResult reports what one generation run did. Failed holds the
// categories that could not be created; the others still were.
type GenerationResult struct {
	Created []models.Mission
	Failed  map[models.Category]error
	Skipped bool
}

// GenerateDailyMissions creates one mission per category when the generation
// gate is open. A closed gate is not an error: the result is marked Skipped.
func (s *MissionService) GenerateDailyMissions(ctx context.Context, userID string) (GenerationResult, error) {
	res := GenerationResult{Failed: map[models.Category]error{}}
	now := s.clock.Now()

	schedules := state.NewSchedules(s.store.Schedules, userID)
	if err := schedules.Load(ctx); err != nil {
		return res, err
	}
	open, ok := s.gate.OpenSchedule(schedules.List(), now)
	if !ok {
		res.Skipped = true
		s.log.Debug().Str("user_id", userID).Msg("generation gate closed")
		return res, nil
	}

	profiles := state.NewProfiles(s.store.Profiles, userID)
	if err := profiles.Load(ctx); err != nil {
		return res, err
	}
	profile, err := profiles.Current()
	if err != nil {
		return res, err
	}

	objectives := state.NewObjectives(s.store.Objectives, userID)
	if err := objectives.Load(ctx); err != nil {
		return res, err
	}

	difficulty := progression.SelectDifficulty(profile.Level, profile.Stats())
	reward := progression.XPReward(difficulty, profile.Level)
	deadline := models.DateOf(now.AddDate(0, 0, 1))

	for _, cat := range models.Categories {
		tpl, ok := s.catalog.Pick(cat, s.rng)
		if !ok {
			res.Failed[cat] = ErrNoTemplate
			s.log.Warn().Str("user_id", userID).Str("category", string(cat)).Msg("no template for category")
			continue
		}

		in := state.MissionInput{
			Title:       &tpl.Title,
			Description: &tpl.Description,
			Category:    &cat,
			Difficulty:  &difficulty,
			XPReward:    &reward,
			Deadline:    &deadline,
			ScheduleID:  &open.ID,
		}
		if obj, ok := objectives.ActiveByCategory(cat); ok {
			in.ObjectiveID = &obj.ID
		}

		var created models.Mission
		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			m, err := state.NewMissions(tx.Missions, userID).Create(ctx, in)
			if err != nil {
				return err
			}
			if _, err := state.NewHistory(tx.History, userID).Append(ctx, state.Entry{
				MissionID: m.ID,
				Action:    models.ActionCreated,
				NewStatus: m.Status,
				Notes:     "generated",
			}); err != nil {
				return err
			}
			created = m
			return nil
		})
		if err != nil {
			res.Failed[cat] = err
			s.log.Error().Err(err).Str("user_id", userID).Str("category", string(cat)).Msg("failed to generate mission")
			continue
		}
		res.Created = append(res.Created, created)
	}

	s.InvalidateStats(ctx, userID)
	s.log.Info().
		Str("user_id", userID).
		Int("created", len(res.Created)).
		Int("failed", len(res.Failed)).
		Str("difficulty", string(difficulty)).
		Msg("daily missions generated")
	return res, nil
}

// CompletionResult is returned by CompleteMission.
type CompletionResult struct {
	Mission       models.Mission `json:"mission"`
	XPGained      int            `json:"xpGained"`
	LevelBefore   int            `json:"levelBefore"`
	LevelAfter    int            `json:"levelAfter"`
	LevelUp       bool           `json:"levelUp"`
	StatIncreased models.Stat    `json:"statIncreased,omitempty"`
}

// CompleteMission marks the mission completed, grants its reward and records
// history, all in one transaction. The status transition runs first and only
// succeeds from an open status, so XP is granted at most once per mission.
func (s *MissionService) CompleteMission(ctx context.Context, userID, missionID string) (CompletionResult, error) {
	var res CompletionResult
	now := s.clock.Now()

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		tr, err := state.NewMissions(tx.Missions, userID).MarkComplete(ctx, missionID, now)
		if err != nil {
			return err
		}

		profiles := state.NewProfiles(tx.Profiles, userID)
		if err := profiles.Load(ctx); err != nil {
			return err
		}
		change, err := profiles.GrantXP(ctx, tr.Mission.XPReward, s.rng)
		if err != nil {
			return err
		}

		if _, err := state.NewHistory(tx.History, userID).Append(ctx, state.Entry{
			MissionID: missionID,
			Action:    models.ActionCompleted,
			OldStatus: tr.From,
			NewStatus: tr.To,
			XPGained:  change.XPGained,
		}); err != nil {
			return err
		}

		res = CompletionResult{
			Mission:       tr.Mission,
			XPGained:      change.XPGained,
			LevelBefore:   change.LevelBefore,
			LevelAfter:    change.LevelAfter,
			LevelUp:       change.LevelUp,
			StatIncreased: change.StatRaised,
		}
		return nil
	})
	if err != nil {
		return CompletionResult{}, err
	}

	s.InvalidateStats(ctx, userID)
	ev := s.log.Info().Str("user_id", userID).Str("mission_id", missionID).Int("xp", res.XPGained)
	if res.LevelUp {
		ev = ev.Int("level", res.LevelAfter).Str("stat", string(res.StatIncreased))
	}
	ev.Msg("mission completed")
	return res, nil
}

// StartMission moves a pending mission to in_progress.
func (s *MissionService) StartMission(ctx context.Context, userID, missionID string) (models.Mission, error) {
	return s.transition(ctx, userID, missionID, models.ActionStarted, "")
}

// FailMission marks an open mission failed. No XP is granted.
func (s *MissionService) FailMission(ctx context.Context, userID, missionID, notes string) (models.Mission, error) {
	return s.transition(ctx, userID, missionID, models.ActionFailed, notes)
}

func (s *MissionService) transition(ctx context.Context, userID, missionID string, action models.HistoryAction, notes string) (models.Mission, error) {
	now := s.clock.Now()
	var out models.Mission

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		missions := state.NewMissions(tx.Missions, userID)
		var (
			tr  state.Transition
			err error
		)
		switch action {
		case models.ActionStarted:
			tr, err = missions.Start(ctx, missionID, now)
		case models.ActionFailed:
			tr, err = missions.MarkFailed(ctx, missionID, now)
		default:
			return fmt.Errorf("unsupported transition %q", action)
		}
		if err != nil {
			return err
		}
		if _, err := state.NewHistory(tx.History, userID).Append(ctx, state.Entry{
			MissionID: missionID,
			Action:    action,
			OldStatus: tr.From,
			NewStatus: tr.To,
			Notes:     notes,
		}); err != nil {
			return err
		}
		out = tr.Mission
		return nil
	})
	if err != nil {
		return models.Mission{}, err
	}
	s.InvalidateStats(ctx, userID)
	return out, nil
}

// ExpireOverdue fails every open mission whose deadline day is before now's
// day. Missions that finish concurrently are skipped. It returns how many
// missions were failed; per-mission errors are joined.
func (s *MissionService) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	overdue, err := s.store.Missions.ListOverdue(ctx, models.DateOf(now))
	if err != nil {
		return 0, err
	}

	var (
		expired int
		errs    []error
	)
	for _, m := range overdue {
		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			tr, err := state.NewMissions(tx.Missions, m.UserID).MarkFailed(ctx, m.ID, now)
			if err != nil {
				return err
			}
			_, err = state.NewHistory(tx.History, m.UserID).Append(ctx, state.Entry{
				MissionID: m.ID,
				Action:    models.ActionFailed,
				OldStatus: tr.From,
				NewStatus: tr.To,
				Notes:     "deadline passed",
			})
			return err
		})
		switch {
		case err == nil:
			expired++
			s.InvalidateStats(ctx, m.UserID)
		case errors.Is(err, state.ErrAlreadyTerminal), errors.Is(err, store.ErrNotFound):
		default:
			s.log.Error().Err(err).Str("mission_id", m.ID).Msg("failed to expire mission")
			errs = append(errs, err)
		}
	}

	if expired > 0 {
		s.log.Info().Int("expired", expired).Msg("overdue missions failed")
	}
	return expired, errors.Join(errs...)
}

// CreateMission stores a user-defined mission. When XPReward is nil it is
// computed from the difficulty and the current level.
func (s *MissionService) CreateMission(ctx context.Context, userID string, in state.MissionInput) (models.Mission, error) {
	var out models.Mission
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if in.XPReward == nil && in.Difficulty != nil && in.Difficulty.IsValid() {
			profiles := state.NewProfiles(tx.Profiles, userID)
			if err := profiles.Load(ctx); err != nil {
				return err
			}
			p, err := profiles.Current()
			if err != nil {
				return err
			}
			reward := progression.XPReward(*in.Difficulty, p.Level)
			in.XPReward = &reward
		}
		if err := checkRefs(ctx, tx, userID, in); err != nil {
			return err
		}
		m, err := state.NewMissions(tx.Missions, userID).Create(ctx, in)
		if err != nil {
			return err
		}
		if _, err := state.NewHistory(tx.History, userID).Append(ctx, state.Entry{
			MissionID: m.ID,
			Action:    models.ActionCreated,
			NewStatus: m.Status,
		}); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return models.Mission{}, err
	}
	s.InvalidateStats(ctx, userID)
	return out, nil
}

// UpdateMission edits an open mission and records an updated entry.
func (s *MissionService) UpdateMission(ctx context.Context, userID, missionID string, in state.MissionInput) (models.Mission, error) {
	var out models.Mission
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := checkRefs(ctx, tx, userID, in); err != nil {
			return err
		}
		m, err := state.NewMissions(tx.Missions, userID).Update(ctx, missionID, in)
		if err != nil {
			return err
		}
		if _, err := state.NewHistory(tx.History, userID).Append(ctx, state.Entry{
			MissionID: m.ID,
			Action:    models.ActionUpdated,
			OldStatus: m.Status,
			NewStatus: m.Status,
		}); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return models.Mission{}, err
	}
	return out, nil
}

// checkRefs rejects objective or schedule ids that the user does not own.
// Empty ids clear the reference and need no lookup.
func checkRefs(ctx context.Context, tx *store.Store, userID string, in state.MissionInput) error {
	if in.ObjectiveID != nil && *in.ObjectiveID != "" {
		objectives := state.NewObjectives(tx.Objectives, userID)
		if err := objectives.Load(ctx); err != nil {
			return err
		}
		if _, ok := objectives.Get(*in.ObjectiveID); !ok {
			return &state.ValidationError{Field: "objectiveId", Message: "not found"}
		}
	}
	if in.ScheduleID != nil && *in.ScheduleID != "" {
		schedules := state.NewSchedules(tx.Schedules, userID)
		if err := schedules.Load(ctx); err != nil {
			return err
		}
		if _, ok := schedules.Get(*in.ScheduleID); !ok {
			return &state.ValidationError{Field: "scheduleId", Message: "not found"}
		}
	}
	return nil
}

// DeleteMission removes a mission. Its history rows are kept.
func (s *MissionService) DeleteMission(ctx context.Context, userID, missionID string) error {
	if err := state.NewMissions(s.store.Missions, userID).Delete(ctx, missionID); err != nil {
		return err
	}
	s.InvalidateStats(ctx, userID)
	return nil
}

// InvalidateStats drops the cached summary for userID.
func (s *MissionService) InvalidateStats(ctx context.Context, userID string) {
	if err := s.cache.Delete(ctx, statsKey(userID)); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to invalidate stats cache")
	}
}

package services

import (
	"context"
	"time"

	"github.com/lifequest/backend/internal/models"
	"github.com/lifequest/backend/internal/progression"
	"github.com/lifequest/backend/internal/state"
)

const statsTTL = 5 * time.Minute

func statsKey(userID string) string {
	return "stats:" + userID
}

// Summary is the dashboard view of a user's progress.
type Summary struct {
	Profile             models.Profile               `json:"profile"`
	NextLevelXP         int                          `json:"nextLevelXp"`
	XPToNextLevel       int                          `json:"xpToNextLevel"`
	Missions            map[models.MissionStatus]int `json:"missions"`
	ObjectivesTotal     int                          `json:"objectivesTotal"`
	ObjectivesCompleted int                          `json:"objectivesCompleted"`
	CompletionRate      float64                      `json:"completionRate"`
}

// Stats builds the summary, served from the cache when possible.
func (s *MissionService) Stats(ctx context.Context, userID string) (Summary, error) {
	var cached Summary
	if hit, err := s.cache.Get(ctx, statsKey(userID), &cached); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("stats cache read failed")
	} else if hit {
		return cached, nil
	}

	profiles := state.NewProfiles(s.store.Profiles, userID)
	if err := profiles.Load(ctx); err != nil {
		return Summary{}, err
	}
	p, err := profiles.Current()
	if err != nil {
		return Summary{}, err
	}

	missions := state.NewMissions(s.store.Missions, userID)
	if err := missions.Load(ctx); err != nil {
		return Summary{}, err
	}
	objectives := state.NewObjectives(s.store.Objectives, userID)
	if err := objectives.Load(ctx); err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Profile:     p,
		NextLevelXP: progression.XPForLevel(p.Level + 1),
		Missions: map[models.MissionStatus]int{
			models.MissionPending:    0,
			models.MissionInProgress: 0,
			models.MissionCompleted:  0,
			models.MissionFailed:     0,
		},
	}
	sum.XPToNextLevel = sum.NextLevelXP - p.XP

	for _, m := range missions.List() {
		sum.Missions[m.Status]++
	}
	for _, o := range objectives.List() {
		sum.ObjectivesTotal++
		if o.Status == models.ObjectiveCompleted {
			sum.ObjectivesCompleted++
		}
	}
	if sum.ObjectivesTotal > 0 {
		sum.CompletionRate = float64(sum.ObjectivesCompleted) / float64(sum.ObjectivesTotal)
	}

	if err := s.cache.Set(ctx, statsKey(userID), sum, statsTTL); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("stats cache write failed")
	}
	return sum, nil
}

package state

import (
	"context"
	"errors"

	"github.com/lifequest/backend/internal/models"
	"github.com/lifequest/backend/internal/progression"
	"github.com/lifequest/backend/internal/store"
)

// Profiles is the container for the signed-in user's profile.
type Profiles struct {
	store   store.Profiles
	userID  string
	current *models.Profile
}

func NewProfiles(s store.Profiles, userID string) *Profiles {
	return &Profiles{store: s, userID: userID}
}

// Load fetches the profile. It returns store.ErrNotFound for a new user.
// A stored level that disagrees with the XP curve is repaired.
func (p *Profiles) Load(ctx context.Context) error {
	prof, err := p.store.Get(ctx, p.userID)
	if err != nil {
		return err
	}
	if computed := progression.LevelFromXP(prof.XP); prof.Level != computed {
		if err := p.store.ApplyProgress(ctx, p.userID, prof.XP, computed, prof.Stats()); err != nil {
			return err
		}
		prof.Level = computed
	}
	p.current = prof
	return nil
}

// Ensure loads the profile, creating a fresh level-1 profile on first use.
func (p *Profiles) Ensure(ctx context.Context, displayName string) error {
	err := p.Load(ctx)
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	prof := &models.Profile{ID: p.userID, DisplayName: displayName, Level: progression.LevelFromXP(0)}
	if err := p.store.Create(ctx, prof); err != nil {
		// a concurrent first request may have inserted it already
		if p.Load(ctx) == nil {
			return nil
		}
		return err
	}
	p.current = prof
	return nil
}

// Current returns a copy of the loaded profile.
func (p *Profiles) Current() (models.Profile, error) {
	if p.current == nil {
		return models.Profile{}, ErrNotLoaded
	}
	return *p.current, nil
}

func (p *Profiles) UpdateDisplayName(ctx context.Context, name string) (models.Profile, error) {
	if p.current == nil {
		return models.Profile{}, ErrNotLoaded
	}
	clean, err := cleanTitle(name)
	if err != nil {
		return models.Profile{}, invalid("displayName", "is required")
	}
	if err := p.store.UpdateDisplayName(ctx, p.userID, clean); err != nil {
		return models.Profile{}, err
	}
	p.current.DisplayName = clean
	return *p.current, nil
}

// GrantXP adds XP, recomputes the level and on level-up raises one random
// stat. Level, XP and stats are written in a single store call; without a
// level change only XP is written.
func (p *Profiles) GrantXP(ctx context.Context, gained int, rng progression.Rand) (progression.LevelChange, error) {
	if p.current == nil {
		return progression.LevelChange{}, ErrNotLoaded
	}
	next := *p.current
	change := progression.ApplyXP(&next, gained, rng)
	if change.XPGained == 0 {
		return change, nil
	}

	var err error
	if change.LevelUp {
		err = p.store.ApplyProgress(ctx, p.userID, next.XP, next.Level, next.Stats())
	} else {
		err = p.store.SetXP(ctx, p.userID, next.XP)
	}
	if err != nil {
		return progression.LevelChange{}, err
	}
	p.current = &next
	return change, nil
}

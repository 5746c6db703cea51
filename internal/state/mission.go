package state

import (
	"context"
	"time"

	"github.com/lifequest/backend/internal/models"
	"github.com/lifequest/backend/internal/store"
	"gorm.io/datatypes"
)

func missionID(m models.Mission) string { return m.ID }

// MissionInput carries mission fields. Nil fields are left unchanged on
// update. An empty ObjectiveID or ScheduleID clears the reference.
type MissionInput struct {
	Title         *string
	Description   *string
	Category      *models.Category
	Difficulty    *models.Difficulty
	XPReward      *int
	Deadline      *datatypes.Date
	ClearDeadline bool
	ObjectiveID   *string
	ScheduleID    *string
}

type Missions struct {
	store  store.Missions
	userID string
	items  []models.Mission
}

func NewMissions(s store.Missions, userID string) *Missions {
	return &Missions{store: s, userID: userID}
}

func (m *Missions) Load(ctx context.Context) error {
	items, err := m.store.List(ctx, m.userID)
	if err != nil {
		return err
	}
	m.items = items
	return nil
}

func (m *Missions) List() []models.Mission {
	return cloned(m.items)
}

func (m *Missions) ByStatus(status models.MissionStatus) []models.Mission {
	var out []models.Mission
	for _, ms := range m.items {
		if ms.Status == status {
			out = append(out, ms)
		}
	}
	return out
}

func (m *Missions) Get(id string) (models.Mission, bool) {
	if i := indexOf(m.items, id, missionID); i >= 0 {
		return m.items[i], true
	}
	return models.Mission{}, false
}

// lookup prefers the local copy and falls back to the store, so status
// changes work without a prior Load.
func (m *Missions) lookup(ctx context.Context, id string) (models.Mission, error) {
	if cur, ok := m.Get(id); ok {
		return cur, nil
	}
	got, err := m.store.Get(ctx, m.userID, id)
	if err != nil {
		return models.Mission{}, err
	}
	return *got, nil
}

func optionalRef(ref *string) *string {
	if ref == nil || *ref == "" {
		return nil
	}
	v := *ref
	return &v
}

func applyMissionInput(ms models.Mission, in MissionInput) (models.Mission, error) {
	if in.Title != nil {
		t, err := cleanTitle(*in.Title)
		if err != nil {
			return ms, err
		}
		ms.Title = t
	}
	if in.Description != nil {
		if d := cleanOptional(in.Description); d != nil {
			ms.Description = *d
		} else {
			ms.Description = ""
		}
	}
	if in.Category != nil {
		if !in.Category.IsValid() {
			return ms, invalid("category", "must be sport, studies or routine")
		}
		ms.Category = *in.Category
	}
	if in.Difficulty != nil {
		if !in.Difficulty.IsValid() {
			return ms, invalid("difficulty", "must be easy, medium or hard")
		}
		ms.Difficulty = *in.Difficulty
	}
	if in.ClearDeadline {
		ms.Deadline = nil
	} else if in.Deadline != nil {
		d := *in.Deadline
		ms.Deadline = &d
	}
	if in.ObjectiveID != nil {
		ms.ObjectiveID = optionalRef(in.ObjectiveID)
	}
	if in.ScheduleID != nil {
		ms.ScheduleID = optionalRef(in.ScheduleID)
	}
	return ms, nil
}

// Create stores a new pending mission. XPReward must already be resolved.
func (m *Missions) Create(ctx context.Context, in MissionInput) (models.Mission, error) {
	switch {
	case in.Title == nil:
		return models.Mission{}, invalid("title", "is required")
	case in.Category == nil:
		return models.Mission{}, invalid("category", "is required")
	case in.Difficulty == nil:
		return models.Mission{}, invalid("difficulty", "is required")
	}
	ms, err := applyMissionInput(models.Mission{UserID: m.userID, Status: models.MissionPending}, in)
	if err != nil {
		return models.Mission{}, err
	}
	if in.XPReward == nil {
		return models.Mission{}, invalid("xpReward", "is required")
	}
	if *in.XPReward < 0 {
		return models.Mission{}, invalid("xpReward", "must not be negative")
	}
	ms.XPReward = *in.XPReward

	if err := m.store.Create(ctx, &ms); err != nil {
		return models.Mission{}, err
	}
	m.items = prepend(m.items, ms)
	return ms, nil
}

// Update edits descriptive fields. Status and reward cannot be changed here.
func (m *Missions) Update(ctx context.Context, id string, in MissionInput) (models.Mission, error) {
	if in.XPReward != nil {
		return models.Mission{}, invalid("xpReward", "is fixed at creation")
	}
	cur, err := m.lookup(ctx, id)
	if err != nil {
		return models.Mission{}, err
	}
	if cur.Status.IsTerminal() {
		return models.Mission{}, ErrAlreadyTerminal
	}
	next, err := applyMissionInput(cur, in)
	if err != nil {
		return models.Mission{}, err
	}
	next.UpdatedAt = time.Now()
	if err := m.store.Update(ctx, &next); err != nil {
		return models.Mission{}, err
	}
	m.upsert(next)
	return next, nil
}

func (m *Missions) Delete(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, m.userID, id); err != nil {
		return err
	}
	m.items = removed(m.items, id, missionID)
	return nil
}

// Start moves a pending mission to in_progress.
func (m *Missions) Start(ctx context.Context, id string, at time.Time) (Transition, error) {
	return m.transition(ctx, id, models.MissionInProgress, at)
}

// MarkComplete moves an open mission to completed. It is the guard that
// makes XP granting happen at most once: a second call returns ErrAlreadyTerminal.
func (m *Missions) MarkComplete(ctx context.Context, id string, at time.Time) (Transition, error) {
	return m.transition(ctx, id, models.MissionCompleted, at)
}

func (m *Missions) MarkFailed(ctx context.Context, id string, at time.Time) (Transition, error) {
	return m.transition(ctx, id, models.MissionFailed, at)
}

// Transition is the outcome of a successful status change.
type Transition struct {
	Mission models.Mission
	From    models.MissionStatus
	To      models.MissionStatus
}

func sourcesFor(to models.MissionStatus) []models.MissionStatus {
	if to == models.MissionInProgress {
		return []models.MissionStatus{models.MissionPending}
	}
	return models.OpenStatuses
}

func (m *Missions) transition(ctx context.Context, id string, to models.MissionStatus, at time.Time) (Transition, error) {
	cur, err := m.lookup(ctx, id)
	if err != nil {
		return Transition{}, err
	}
	if cur.Status.IsTerminal() {
		return Transition{}, ErrAlreadyTerminal
	}
	if !models.CanTransition(cur.Status, to) {
		return Transition{}, invalid("status", "cannot move from %s to %s", cur.Status, to)
	}

	changed, err := m.store.Transition(ctx, m.userID, id, sourcesFor(to), to, at)
	if err != nil {
		return Transition{}, err
	}
	if !changed {
		// Local copy was stale; report what the store holds now.
		latest, err := m.store.Get(ctx, m.userID, id)
		if err != nil {
			return Transition{}, err
		}
		m.upsert(*latest)
		if latest.Status.IsTerminal() {
			return Transition{}, ErrAlreadyTerminal
		}
		return Transition{}, invalid("status", "cannot move from %s to %s", latest.Status, to)
	}

	next := cur
	next.Status = to
	next.UpdatedAt = at
	if to == models.MissionCompleted {
		completed := at
		next.CompletedAt = &completed
	}
	m.upsert(next)
	return Transition{Mission: next, From: cur.Status, To: to}, nil
}

func (m *Missions) upsert(ms models.Mission) {
	if indexOf(m.items, ms.ID, missionID) >= 0 {
		m.items = replaced(m.items, ms.ID, missionID, ms)
		return
	}
	m.items = prepend(m.items, ms)
}

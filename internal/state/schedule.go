package state

import (
	"context"
	"time"

	"github.com/lifequest/backend/internal/models"
	"github.com/lifequest/backend/internal/store"
	"gorm.io/datatypes"
)

func scheduleID(s models.Schedule) string { return s.ID }

// ScheduleInput carries schedule fields. Nil fields are left unchanged on
// update; ClearEndDate removes an end date.
type ScheduleInput struct {
	Title        *string
	Frequency    *models.Frequency
	StartDate    *datatypes.Date
	EndDate      *datatypes.Date
	ClearEndDate bool
	IsActive     *bool
}

type Schedules struct {
	store  store.Schedules
	userID string
	items  []models.Schedule
}

func NewSchedules(s store.Schedules, userID string) *Schedules {
	return &Schedules{store: s, userID: userID}
}

func (s *Schedules) Load(ctx context.Context) error {
	items, err := s.store.List(ctx, s.userID)
	if err != nil {
		return err
	}
	s.items = items
	return nil
}

func (s *Schedules) List() []models.Schedule {
	return cloned(s.items)
}

// Active returns the schedules flagged active, regardless of dates.
func (s *Schedules) Active() []models.Schedule {
	var out []models.Schedule
	for _, sc := range s.items {
		if sc.IsActive {
			out = append(out, sc)
		}
	}
	return out
}

func (s *Schedules) Get(id string) (models.Schedule, bool) {
	if i := indexOf(s.items, id, scheduleID); i >= 0 {
		return s.items[i], true
	}
	return models.Schedule{}, false
}

func applyScheduleInput(sc models.Schedule, in ScheduleInput) (models.Schedule, error) {
	if in.Title != nil {
		t, err := cleanTitle(*in.Title)
		if err != nil {
			return sc, err
		}
		sc.Title = t
	}
	if in.Frequency != nil {
		if !in.Frequency.IsValid() {
			return sc, invalid("frequency", "must be daily, weekly or monthly")
		}
		sc.Frequency = *in.Frequency
	}
	if in.StartDate != nil {
		sc.StartDate = *in.StartDate
	}
	if in.ClearEndDate {
		sc.EndDate = nil
	} else if in.EndDate != nil {
		d := *in.EndDate
		sc.EndDate = &d
	}
	if in.IsActive != nil {
		sc.IsActive = *in.IsActive
	}
	if sc.EndDate != nil && models.DayKey(*sc.EndDate) < models.DayKey(sc.StartDate) {
		return sc, invalid("endDate", "must not be before startDate")
	}
	return sc, nil
}

// Create adds a schedule. New schedules are active unless IsActive says otherwise.
func (s *Schedules) Create(ctx context.Context, in ScheduleInput) (models.Schedule, error) {
	if in.Title == nil {
		return models.Schedule{}, invalid("title", "is required")
	}
	if in.Frequency == nil {
		return models.Schedule{}, invalid("frequency", "is required")
	}
	if in.StartDate == nil {
		return models.Schedule{}, invalid("startDate", "is required")
	}
	sc, err := applyScheduleInput(models.Schedule{UserID: s.userID, IsActive: true}, in)
	if err != nil {
		return models.Schedule{}, err
	}
	if err := s.store.Create(ctx, &sc); err != nil {
		return models.Schedule{}, err
	}
	s.items = prepend(s.items, sc)
	return sc, nil
}

func (s *Schedules) Update(ctx context.Context, id string, in ScheduleInput) (models.Schedule, error) {
	cur, ok := s.Get(id)
	if !ok {
		return models.Schedule{}, store.ErrNotFound
	}
	next, err := applyScheduleInput(cur, in)
	if err != nil {
		return models.Schedule{}, err
	}
	return s.save(ctx, next)
}

// ToggleActive flips the active flag.
func (s *Schedules) ToggleActive(ctx context.Context, id string) (models.Schedule, error) {
	cur, ok := s.Get(id)
	if !ok {
		return models.Schedule{}, store.ErrNotFound
	}
	cur.IsActive = !cur.IsActive
	return s.save(ctx, cur)
}

func (s *Schedules) Delete(ctx context.Context, id string) error {
	if _, ok := s.Get(id); !ok {
		return store.ErrNotFound
	}
	if err := s.store.Delete(ctx, s.userID, id); err != nil {
		return err
	}
	s.items = removed(s.items, id, scheduleID)
	return nil
}

func (s *Schedules) save(ctx context.Context, next models.Schedule) (models.Schedule, error) {
	next.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, &next); err != nil {
		return models.Schedule{}, err
	}
	s.items = replaced(s.items, next.ID, scheduleID, next)
	return next, nil
}

package state

import (
	"context"
	"time"

	"github.com/lifequest/backend/internal/models"
	"github.com/lifequest/backend/internal/store"
	"gorm.io/datatypes"
)

func objectiveID(o models.Objective) string { return o.ID }

// ObjectiveInput is the user-editable part of an objective. Nil fields are
// left unchanged on update.
type ObjectiveInput struct {
	Title        *string
	Description  *string
	TargetValue  *int
	CurrentValue *int
	Category     *string
	Deadline     *datatypes.Date
	Status       *models.ObjectiveStatus
}

type Objectives struct {
	store  store.Objectives
	userID string
	items  []models.Objective
}

func NewObjectives(s store.Objectives, userID string) *Objectives {
	return &Objectives{store: s, userID: userID}
}

func (o *Objectives) Load(ctx context.Context) error {
	items, err := o.store.List(ctx, o.userID)
	if err != nil {
		return err
	}
	o.items = items
	return nil
}

func (o *Objectives) List() []models.Objective {
	return cloned(o.items)
}

func (o *Objectives) Get(id string) (models.Objective, bool) {
	if i := indexOf(o.items, id, objectiveID); i >= 0 {
		return o.items[i], true
	}
	return models.Objective{}, false
}

// ClampProgress keeps current within [0, target].
func ClampProgress(obj models.Objective) models.Objective {
	if obj.CurrentValue < 0 {
		obj.CurrentValue = 0
	}
	if obj.CurrentValue > obj.TargetValue {
		obj.CurrentValue = obj.TargetValue
	}
	return obj
}

// deriveStatus completes an active objective that reached its target and
// reopens a completed one that dropped below it. Paused objectives keep their status.
func deriveStatus(obj models.Objective) models.Objective {
	switch {
	case obj.CurrentValue >= obj.TargetValue && obj.Status == models.ObjectiveActive:
		obj.Status = models.ObjectiveCompleted
	case obj.CurrentValue < obj.TargetValue && obj.Status == models.ObjectiveCompleted:
		obj.Status = models.ObjectiveActive
	}
	return obj
}

func applyObjectiveInput(obj models.Objective, in ObjectiveInput) (models.Objective, error) {
	if in.Title != nil {
		t, err := cleanTitle(*in.Title)
		if err != nil {
			return obj, err
		}
		obj.Title = t
	}
	if in.Description != nil {
		obj.Description = cleanOptional(in.Description)
	}
	if in.TargetValue != nil {
		if *in.TargetValue < 1 {
			return obj, invalid("targetValue", "must be at least 1")
		}
		obj.TargetValue = *in.TargetValue
	}
	if in.CurrentValue != nil {
		obj.CurrentValue = *in.CurrentValue
	}
	if in.Category != nil {
		obj.Category = cleanOptional(in.Category)
	}
	if in.Deadline != nil {
		d := *in.Deadline
		obj.Deadline = &d
	}
	if in.Status != nil {
		if !in.Status.IsValid() {
			return obj, invalid("status", "must be active, completed or paused")
		}
		obj.Status = *in.Status
	}
	return obj, nil
}

func (o *Objectives) Create(ctx context.Context, in ObjectiveInput) (models.Objective, error) {
	if in.Title == nil {
		return models.Objective{}, invalid("title", "is required")
	}
	if in.TargetValue == nil {
		return models.Objective{}, invalid("targetValue", "is required")
	}
	obj, err := applyObjectiveInput(models.Objective{UserID: o.userID, Status: models.ObjectiveActive}, in)
	if err != nil {
		return models.Objective{}, err
	}
	obj = ClampProgress(obj)
	if in.Status == nil {
		obj = deriveStatus(obj)
	}

	if err := o.store.Create(ctx, &obj); err != nil {
		return models.Objective{}, err
	}
	o.items = prepend(o.items, obj)
	return obj, nil
}

func (o *Objectives) Update(ctx context.Context, id string, in ObjectiveInput) (models.Objective, error) {
	cur, ok := o.Get(id)
	if !ok {
		return models.Objective{}, store.ErrNotFound
	}
	next, err := applyObjectiveInput(cur, in)
	if err != nil {
		return models.Objective{}, err
	}
	next = ClampProgress(next)
	if in.Status == nil {
		next = deriveStatus(next)
	}
	return o.save(ctx, next)
}

// IncrementProgress adds delta (which may be negative) to the current value,
// clamped to [0, target].
func (o *Objectives) IncrementProgress(ctx context.Context, id string, delta int) (models.Objective, error) {
	cur, ok := o.Get(id)
	if !ok {
		return models.Objective{}, store.ErrNotFound
	}
	next := cur
	next.CurrentValue += delta
	next = deriveStatus(ClampProgress(next))
	if next.CurrentValue == cur.CurrentValue && next.Status == cur.Status {
		return cur, ErrNothingToDo
	}
	return o.save(ctx, next)
}

func (o *Objectives) SetStatus(ctx context.Context, id string, status models.ObjectiveStatus) (models.Objective, error) {
	return o.Update(ctx, id, ObjectiveInput{Status: &status})
}

func (o *Objectives) Delete(ctx context.Context, id string) error {
	if _, ok := o.Get(id); !ok {
		return store.ErrNotFound
	}
	if err := o.store.Delete(ctx, o.userID, id); err != nil {
		return err
	}
	o.items = removed(o.items, id, objectiveID)
	return nil
}

func (o *Objectives) save(ctx context.Context, next models.Objective) (models.Objective, error) {
	next.UpdatedAt = time.Now()
	if err := o.store.Update(ctx, &next); err != nil {
		return models.Objective{}, err
	}
	o.items = replaced(o.items, next.ID, objectiveID, next)
	return next, nil
}

// ActiveByCategory returns the first active objective tagged with the category.
func (o *Objectives) ActiveByCategory(cat models.Category) (models.Objective, bool) {
	for _, obj := range o.items {
		if obj.Status == models.ObjectiveActive && obj.Category != nil && *obj.Category == string(cat) {
			return obj, true
		}
	}
	return models.Objective{}, false
}

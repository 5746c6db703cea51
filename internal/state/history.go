package state

import (
	"context"

	"github.com/lifequest/backend/internal/models"
	"github.com/lifequest/backend/internal/store"
)

// History is the append-only mission audit log of one user.
type History struct {
	store  store.History
	userID string
	items  []models.MissionHistory
}

func NewHistory(s store.History, userID string) *History {
	return &History{store: s, userID: userID}
}

func (h *History) Load(ctx context.Context, limit int) error {
	items, err := h.store.List(ctx, h.userID, limit)
	if err != nil {
		return err
	}
	h.items = items
	return nil
}

// List returns entries newest first.
func (h *History) List() []models.MissionHistory {
	return cloned(h.items)
}

// Entry describes a history row to append.
type Entry struct {
	MissionID string
	Action    models.HistoryAction
	OldStatus models.MissionStatus
	NewStatus models.MissionStatus
	XPGained  int
	Notes     string
}

func (h *History) Append(ctx context.Context, e Entry) (models.MissionHistory, error) {
	row := models.MissionHistory{
		MissionID: e.MissionID,
		UserID:    h.userID,
		Action:    e.Action,
		XPGained:  e.XPGained,
	}
	if e.OldStatus != "" {
		row.OldStatus = models.StatusPtr(e.OldStatus)
	}
	if e.NewStatus != "" {
		row.NewStatus = models.StatusPtr(e.NewStatus)
	}
	if e.Notes != "" {
		notes := e.Notes
		row.Notes = &notes
	}
	if err := h.store.Append(ctx, &row); err != nil {
		return models.MissionHistory{}, err
	}
	h.items = prepend(h.items, row)
	return row, nil
}

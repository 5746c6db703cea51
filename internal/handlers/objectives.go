package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lifequest/backend/internal/models"
	"github.com/lifequest/backend/internal/state"
)

type objectiveRequest struct {
	Title        *string                 `json:"title"`
	Description  *string                 `json:"description"`
	TargetValue  *int                    `json:"targetValue"`
	CurrentValue *int                    `json:"currentValue"`
	Category     *string                 `json:"category"`
	Deadline     *string                 `json:"deadline"`
	Status       *models.ObjectiveStatus `json:"status"`
}

func (r objectiveRequest) input() (state.ObjectiveInput, error) {
	deadline, err := parseDate("deadline", r.Deadline)
	if err != nil {
		return state.ObjectiveInput{}, err
	}
	return state.ObjectiveInput{
		Title:        r.Title,
		Description:  r.Description,
		TargetValue:  r.TargetValue,
		CurrentValue: r.CurrentValue,
		Category:     r.Category,
		Deadline:     deadline,
		Status:       r.Status,
	}, nil
}

// loadObjectives returns the caller's loaded objectives container.
func (h *Handler) loadObjectives(c *gin.Context) (*state.Objectives, string, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return nil, "", false
	}
	objectives := state.NewObjectives(h.store.Objectives, userID)
	if err := objectives.Load(c.Request.Context()); err != nil {
		fail(c, err)
		return nil, "", false
	}
	return objectives, userID, true
}

func (h *Handler) ListObjectives(c *gin.Context) {
	objectives, _, ok := h.loadObjectives(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, objectives.List())
}

func (h *Handler) CreateObjective(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req objectiveRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		fail(c, err)
		return
	}

	ctx := c.Request.Context()
	obj, err := state.NewObjectives(h.store.Objectives, userID).Create(ctx, in)
	if err != nil {
		fail(c, err)
		return
	}
	h.missions.InvalidateStats(ctx, userID)
	c.JSON(http.StatusCreated, obj)
}

func (h *Handler) UpdateObjective(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}
	var req objectiveRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		fail(c, err)
		return
	}
	objectives, userID, ok := h.loadObjectives(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	obj, err := objectives.Update(ctx, id, in)
	if err != nil {
		fail(c, err)
		return
	}
	h.missions.InvalidateStats(ctx, userID)
	c.JSON(http.StatusOK, obj)
}

// UpdateObjectiveProgress adds a (possibly negative) amount to current_value.
func (h *Handler) UpdateObjectiveProgress(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}
	var input struct {
		Amount int `json:"amount" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}
	objectives, userID, ok := h.loadObjectives(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	obj, err := objectives.IncrementProgress(ctx, id, input.Amount)
	if err != nil {
		fail(c, err)
		return
	}
	h.missions.InvalidateStats(ctx, userID)
	c.JSON(http.StatusOK, obj)
}

func (h *Handler) DeleteObjective(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}
	objectives, userID, ok := h.loadObjectives(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := objectives.Delete(ctx, id); err != nil {
		fail(c, err)
		return
	}
	h.missions.InvalidateStats(ctx, userID)
	c.Status(http.StatusNoContent)
}

package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lifequest/backend/internal/models"
	"github.com/lifequest/backend/internal/services"
	"github.com/lifequest/backend/internal/state"
	"github.com/lifequest/backend/pkg/errors"
)

type missionRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Category    *models.Category   `json:"category"`
	Difficulty  *models.Difficulty `json:"difficulty"`
	XPReward    *int               `json:"xpReward"`
	Deadline    *string            `json:"deadline"`
	ObjectiveID *string            `json:"objectiveId"`
	ScheduleID  *string            `json:"scheduleId"`
}

func (r missionRequest) input() (state.MissionInput, error) {
	deadline, err := parseDate("deadline", r.Deadline)
	if err != nil {
		return state.MissionInput{}, err
	}
	return state.MissionInput{
		Title:         r.Title,
		Description:   r.Description,
		Category:      r.Category,
		Difficulty:    r.Difficulty,
		XPReward:      r.XPReward,
		Deadline:      deadline,
		ClearDeadline: clearsDate(r.Deadline),
		ObjectiveID:   r.ObjectiveID,
		ScheduleID:    r.ScheduleID,
	}, nil
}

// ListMissions returns the caller's missions, optionally filtered by ?status=.
func (h *Handler) ListMissions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	missions := state.NewMissions(h.store.Missions, userID)
	if err := missions.Load(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}

	status := models.MissionStatus(c.Query("status"))
	if status == "" {
		c.JSON(http.StatusOK, missions.List())
		return
	}
	if !status.IsValid() {
		fail(c, errors.BadRequest("status must be pending, in_progress, completed or failed"))
		return
	}
	list := missions.ByStatus(status)
	if list == nil {
		list = []models.Mission{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateMission(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req missionRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		fail(c, err)
		return
	}
	m, err := h.missions.CreateMission(c.Request.Context(), userID, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) UpdateMission(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := resourceID(c)
	if !ok {
		return
	}
	var req missionRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		fail(c, err)
		return
	}
	m, err := h.missions.UpdateMission(c.Request.Context(), userID, id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteMission(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := resourceID(c)
	if !ok {
		return
	}
	if err := h.missions.DeleteMission(c.Request.Context(), userID, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GenerateMissions runs daily generation. A closed gate answers 200 with skipped=true.
func (h *Handler) GenerateMissions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	res, err := h.missions.GenerateDailyMissions(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	failed := make(map[models.Category]string, len(res.Failed))
	for cat, ferr := range res.Failed {
		if stderrors.Is(ferr, services.ErrNoTemplate) {
			failed[cat] = ferr.Error()
			continue
		}
		failed[cat] = "could not create mission"
	}
	created := res.Created
	if created == nil {
		created = []models.Mission{}
	}

	status := http.StatusCreated
	if res.Skipped || len(created) == 0 {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"created": created,
		"failed":  failed,
		"skipped": res.Skipped,
	})
}

func (h *Handler) StartMission(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := resourceID(c)
	if !ok {
		return
	}
	m, err := h.missions.StartMission(c.Request.Context(), userID, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) CompleteMission(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := resourceID(c)
	if !ok {
		return
	}
	res, err := h.missions.CompleteMission(c.Request.Context(), userID, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) FailMission(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := resourceID(c)
	if !ok {
		return
	}
	var input struct {
		Notes string `json:"notes" binding:"max=500"`
	}
	// body is optional
	if c.Request.ContentLength > 0 && !bindJSON(c, &input) {
		return
	}
	m, err := h.missions.FailMission(c.Request.Context(), userID, id, input.Notes)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

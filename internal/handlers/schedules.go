package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lifequest/backend/internal/models"
	"github.com/lifequest/backend/internal/state"
)

type scheduleRequest struct {
	Title     *string           `json:"title"`
	Frequency *models.Frequency `json:"frequency"`
	StartDate *string           `json:"startDate"`
	EndDate   *string           `json:"endDate"`
	IsActive  *bool             `json:"isActive"`
}

func (r scheduleRequest) input() (state.ScheduleInput, error) {
	start, err := parseDate("startDate", r.StartDate)
	if err != nil {
		return state.ScheduleInput{}, err
	}
	end, err := parseDate("endDate", r.EndDate)
	if err != nil {
		return state.ScheduleInput{}, err
	}
	return state.ScheduleInput{
		Title:        r.Title,
		Frequency:    r.Frequency,
		StartDate:    start,
		EndDate:      end,
		ClearEndDate: clearsDate(r.EndDate),
		IsActive:     r.IsActive,
	}, nil
}

func (h *Handler) loadSchedules(c *gin.Context) (*state.Schedules, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	schedules := state.NewSchedules(h.store.Schedules, userID)
	if err := schedules.Load(c.Request.Context()); err != nil {
		fail(c, err)
		return nil, false
	}
	return schedules, true
}

func (h *Handler) ListSchedules(c *gin.Context) {
	schedules, ok := h.loadSchedules(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, schedules.List())
}

func (h *Handler) CreateSchedule(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req scheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		fail(c, err)
		return
	}
	sc, err := state.NewSchedules(h.store.Schedules, userID).Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sc)
}

func (h *Handler) UpdateSchedule(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}
	var req scheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		fail(c, err)
		return
	}
	schedules, ok := h.loadSchedules(c)
	if !ok {
		return
	}
	sc, err := schedules.Update(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sc)
}

func (h *Handler) ToggleSchedule(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}
	schedules, ok := h.loadSchedules(c)
	if !ok {
		return
	}
	sc, err := schedules.ToggleActive(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sc)
}

func (h *Handler) DeleteSchedule(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}
	schedules, ok := h.loadSchedules(c)
	if !ok {
		return
	}
	if err := schedules.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

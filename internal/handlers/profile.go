package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lifequest/backend/internal/state"
)

// GetProfile returns the caller's profile.
func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	profiles := state.NewProfiles(h.store.Profiles, userID)
	if err := profiles.Load(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	p, err := profiles.Current()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateProfile changes the display name. XP, level and stats are not writable.
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input struct {
		DisplayName string `json:"displayName" binding:"required,max=100"`
	}
	if !bindJSON(c, &input) {
		return
	}

	profiles := state.NewProfiles(h.store.Profiles, userID)
	ctx := c.Request.Context()
	if err := profiles.Load(ctx); err != nil {
		fail(c, err)
		return
	}
	p, err := profiles.UpdateDisplayName(ctx, input.DisplayName)
	if err != nil {
		fail(c, err)
		return
	}
	h.missions.InvalidateStats(ctx, userID)
	c.JSON(http.StatusOK, p)
}

// GetStats returns the dashboard summary.
func (h *Handler) GetStats(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sum, err := h.missions.Stats(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

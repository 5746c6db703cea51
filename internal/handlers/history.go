package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lifequest/backend/internal/state"
	"github.com/lifequest/backend/pkg/errors"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// ListHistory returns the caller's mission history, newest first.
func (h *Handler) ListHistory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultHistoryLimit)))
	if err != nil || limit < 1 {
		fail(c, errors.BadRequest("limit must be a positive integer"))
		return
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	history := state.NewHistory(h.store.History, userID)
	if err := history.Load(c.Request.Context(), limit); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, history.List())
}

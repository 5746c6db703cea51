package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lifequest/backend/internal/models"
	"github.com/lifequest/backend/internal/services"
	"github.com/lifequest/backend/internal/store"
	"github.com/lifequest/backend/pkg/errors"
	"github.com/lifequest/backend/pkg/utils"
	"gorm.io/datatypes"
)

// Handler serves the JSON API. Each request builds fresh per-user state
// containers over the shared store.
type Handler struct {
	store    *store.Store
	missions *services.MissionService
	ping     func(ctx context.Context) error
}

func New(st *store.Store, missions *services.MissionService, ping func(ctx context.Context) error) *Handler {
	return &Handler{store: st, missions: missions, ping: ping}
}

func currentUser(c *gin.Context) (string, bool) {
	userID := c.GetString("userId")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// fail hands err to the error middleware, which maps it to a status.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// resourceID reads the :id path param. Ids are UUIDs, so anything else
// cannot exist and is reported as not found without a store round trip.
func resourceID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !utils.IsUUID(id) {
		fail(c, store.ErrNotFound)
		return "", false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, errors.BadRequest(err.Error()))
		return false
	}
	return true
}

// parseDate converts an optional YYYY-MM-DD string.
func parseDate(field string, s *string) (*datatypes.Date, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	d, err := models.ParseDate(strings.TrimSpace(*s))
	if err != nil {
		return nil, errors.BadRequest(field + " must be a date formatted YYYY-MM-DD")
	}
	return &d, nil
}

// clearsDate reports whether the request explicitly sent an empty date.
func clearsDate(s *string) bool {
	return s != nil && strings.TrimSpace(*s) == ""
}

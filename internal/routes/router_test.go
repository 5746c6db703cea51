package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifequest/backend/internal/config"
	"github.com/lifequest/backend/internal/handlers"
	"github.com/lifequest/backend/internal/models"
	"github.com/lifequest/backend/internal/progression"
	"github.com/lifequest/backend/internal/services"
	"github.com/lifequest/backend/internal/store"
	"github.com/lifequest/backend/internal/testutil"
	"github.com/lifequest/backend/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{JWTSecret: "router-test-secret", JWTIssuer: "test"}
}

type api struct {
	t     *testing.T
	r     *gin.Engine
	token string
}

func setupAPI(t *testing.T, userID string) *api {
	t.Helper()
	db := testutil.SetupTestDB(t)
	st := store.NewGorm(db)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	svc := services.NewMissionService(st, progression.FixedClock(now), progression.NewRand(7))
	h := handlers.New(st, svc, nil)

	token, err := utils.GenerateToken(userID, time.Hour)
	require.NoError(t, err)
	return &api{t: t, r: NewRouter(Deps{Handler: h, Store: st}), token: token}
}

func (a *api) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestMissionFlow(t *testing.T) {
	a := setupAPI(t, "player")

	w := a.do(http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	profile := decode[models.Profile](t, w)
	assert.Equal(t, 1, profile.Level)
	assert.Equal(t, 0, profile.XP)

	w = a.do(http.MethodPost, "/api/schedules", gin.H{"title": "Weekdays", "frequency": "daily", "startDate": "2025-06-01"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/api/missions/generate", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	gen := decode[struct {
		Created []models.Mission  `json:"created"`
		Failed  map[string]string `json:"failed"`
		Skipped bool              `json:"skipped"`
	}](t, w)
	assert.Len(t, gen.Created, 3)
	assert.Empty(t, gen.Failed)
	assert.False(t, gen.Skipped)

	w = a.do(http.MethodPost, "/api/missions", gin.H{"title": "Climb", "category": "sport", "difficulty": "hard"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	mission := decode[models.Mission](t, w)
	assert.Equal(t, 102, mission.XPReward)

	w = a.do(http.MethodPost, "/api/missions/"+mission.ID+"/complete", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	done := decode[services.CompletionResult](t, w)
	assert.Equal(t, 102, done.XPGained)
	assert.True(t, done.LevelUp)
	assert.Equal(t, 2, done.LevelAfter)

	w = a.do(http.MethodPost, "/api/missions/"+mission.ID+"/complete", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodGet, "/api/missions?status=completed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Mission](t, w), 1)

	w = a.do(http.MethodGet, "/api/history?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	hist := decode[[]models.MissionHistory](t, w)
	require.Len(t, hist, 1)
	assert.Equal(t, models.ActionCompleted, hist[0].Action)
	assert.Equal(t, 102, hist[0].XPGained)

	w = a.do(http.MethodGet, "/api/profile/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sum := decode[services.Summary](t, w)
	assert.Equal(t, 102, sum.Profile.XP)
	assert.Equal(t, 3, sum.Missions[models.MissionPending])
}

func TestObjectiveRoutes(t *testing.T) {
	a := setupAPI(t, "planner")

	w := a.do(http.MethodPost, "/api/objectives", gin.H{"title": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/api/objectives", gin.H{"title": "Read", "targetValue": 2, "deadline": "not-a-date"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/api/objectives", gin.H{"title": "Read", "targetValue": 2, "category": "studies"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	obj := decode[models.Objective](t, w)

	w = a.do(http.MethodPost, "/api/objectives/"+obj.ID+"/progress", gin.H{"amount": 5})
	require.Equal(t, http.StatusOK, w.Code)
	obj = decode[models.Objective](t, w)
	assert.Equal(t, 2, obj.CurrentValue)
	assert.Equal(t, models.ObjectiveCompleted, obj.Status)

	w = a.do(http.MethodPost, "/api/objectives/"+obj.ID+"/progress", gin.H{"amount": 1})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodDelete, "/api/objectives/"+obj.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = a.do(http.MethodDelete, "/api/objectives/"+obj.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleToggleAndErrors(t *testing.T) {
	a := setupAPI(t, "sched")

	w := a.do(http.MethodPost, "/api/schedules", gin.H{"title": "Bad", "frequency": "hourly", "startDate": "2025-06-01"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/api/schedules", gin.H{"title": "Daily", "frequency": "daily", "startDate": "2025-06-01", "endDate": "2025-06-30"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sc := decode[models.Schedule](t, w)
	assert.True(t, sc.IsActive)

	w = a.do(http.MethodPost, "/api/schedules/"+sc.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[models.Schedule](t, w).IsActive)

	// with the only schedule inactive, generation is skipped
	w = a.do(http.MethodPost, "/api/missions/generate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"skipped":true`)

	w = a.do(http.MethodPut, "/api/schedules/"+sc.ID, gin.H{"endDate": ""})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[models.Schedule](t, w).EndDate)

	w = a.do(http.MethodPut, "/api/missions/missing", gin.H{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodPost, "/api/missions", gin.H{"title": "x", "category": "sport", "difficulty": "easy", "scheduleId": "4f1c1f0e-8a53-4c1e-9a43-0d6c1b0f2a11"})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = a.do(http.MethodGet, "/api/missions?status=done", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/api/history?limit=-3", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthAndHealth(t *testing.T) {
	a := setupAPI(t, "anon")
	a.token = ""

	w := a.do(http.MethodGet, "/api/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

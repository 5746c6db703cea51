package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifequest/backend/internal/database"
	"github.com/lifequest/backend/internal/handlers"
	"github.com/lifequest/backend/internal/middleware"
	"github.com/lifequest/backend/internal/store"
)

// Deps is everything the router needs.
type Deps struct {
	Handler     *handlers.Handler
	Store       *store.Store
	Cache       *database.Cache
	FrontendURL string
	// Per-user generation quota per hour, enforced through Redis.
	GenerateLimitPerHour int
}

// NewRouter builds the engine with middleware and every route.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware(d.FrontendURL))
	r.Use(middleware.GeneralRateLimit())

	r.GET("/health", d.Handler.Health)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(), middleware.UserRateLimit(), middleware.EnsureProfile(d.Store.Profiles))
	{
		RegisterProfileRoutes(api, d.Handler)
		RegisterObjectiveRoutes(api, d.Handler)
		RegisterScheduleRoutes(api, d.Handler)
		RegisterMissionRoutes(api, d.Handler,
			middleware.GenerateRateLimit(),
			middleware.UserThrottle(d.Cache, "generate", d.GenerateLimitPerHour, time.Hour),
		)
		RegisterHistoryRoutes(api, d.Handler)
	}
	return r
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lifequest/backend/internal/handlers"
)

// RegisterMissionRoutes mounts mission routes. generateLimits guard POST /generate.
func RegisterMissionRoutes(r *gin.RouterGroup, h *handlers.Handler, generateLimits ...gin.HandlerFunc) {
	missions := r.Group("/missions")
	{
		missions.GET("", h.ListMissions)
		missions.POST("", h.CreateMission)
		missions.POST("/generate", append(generateLimits, h.GenerateMissions)...)
		missions.PUT("/:id", h.UpdateMission)
		missions.DELETE("/:id", h.DeleteMission)
		missions.POST("/:id/start", h.StartMission)
		missions.POST("/:id/complete", h.CompleteMission)
		missions.POST("/:id/fail", h.FailMission)
	}
}

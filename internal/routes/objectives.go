package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lifequest/backend/internal/handlers"
)

func RegisterObjectiveRoutes(r *gin.RouterGroup, h *handlers.Handler) {
	objectives := r.Group("/objectives")
	{
		objectives.GET("", h.ListObjectives)
		objectives.POST("", h.CreateObjective)
		objectives.PUT("/:id", h.UpdateObjective)
		objectives.DELETE("/:id", h.DeleteObjective)
		objectives.POST("/:id/progress", h.UpdateObjectiveProgress)
	}
}

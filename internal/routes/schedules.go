package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lifequest/backend/internal/handlers"
)

func RegisterScheduleRoutes(r *gin.RouterGroup, h *handlers.Handler) {
	schedules := r.Group("/schedules")
	{
		schedules.GET("", h.ListSchedules)
		schedules.POST("", h.CreateSchedule)
		schedules.PUT("/:id", h.UpdateSchedule)
		schedules.DELETE("/:id", h.DeleteSchedule)
		schedules.POST("/:id/toggle", h.ToggleSchedule)
	}
}

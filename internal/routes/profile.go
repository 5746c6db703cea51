package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lifequest/backend/internal/handlers"
)

func RegisterProfileRoutes(r *gin.RouterGroup, h *handlers.Handler) {
	profile := r.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.GET("/stats", h.GetStats)
	}
}

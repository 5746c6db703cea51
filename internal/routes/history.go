package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lifequest/backend/internal/handlers"
)

func RegisterHistoryRoutes(r *gin.RouterGroup, h *handlers.Handler) {
	r.GET("/history", h.ListHistory)
}

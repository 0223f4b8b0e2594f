package audit

import (
	"go-leave/internal/guard"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	logs := r.Group("/audit-logs")
	logs.Use(middleware.AuthMiddleware())
	{
		logs.GET("", middleware.Authorize(guard.CapReadAuditLog), handler.GetAll)
		logs.GET("/actor/:actorType/:actorId", middleware.Authorize(guard.CapReadAuditLog), handler.GetByActor)
	}
}

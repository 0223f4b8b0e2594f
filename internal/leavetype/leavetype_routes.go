package leavetype

import (
	"go-leave/internal/guard"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	types := r.Group("/leave-types")
	types.Use(middleware.AuthMiddleware())
	{
		types.GET("", middleware.Authorize(guard.CapReadLeaveTypes), handler.GetAll)
		types.GET("/:id", middleware.Authorize(guard.CapReadLeaveTypes), handler.GetById)
		types.POST("", middleware.Authorize(guard.CapManageLeaveTypes), handler.Create)
		types.DELETE("/:id", middleware.Authorize(guard.CapManageLeaveTypes), handler.Delete)
	}
}

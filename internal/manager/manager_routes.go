package manager

import (
	"go-leave/internal/guard"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	managers := r.Group("/managers")
	managers.Use(middleware.AuthMiddleware())
	managers.Use(middleware.Authorize(guard.CapManageManagers))
	{
		managers.POST("", handler.Create)
		managers.GET("", handler.GetAll)
		managers.GET("/:id", handler.GetById)
		managers.DELETE("/:id", handler.Delete)
	}
}

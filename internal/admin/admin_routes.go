package admin

import (
	"go-leave/internal/guard"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	admins := r.Group("/admins")
	admins.Use(middleware.AuthMiddleware())
	admins.Use(middleware.Authorize(guard.CapManageAdmins))
	{
		admins.POST("", handler.Create)
		admins.GET("", handler.GetAll)
		admins.GET("/:id", handler.GetById)
		admins.DELETE("/:id", handler.Delete)
	}
}

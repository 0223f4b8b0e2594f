package employee

import (
	"go-leave/internal/guard"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.POST("", middleware.Authorize(guard.CapManageEmployees), handler.Create)
		employees.GET("", middleware.Authorize(guard.CapManageEmployees), handler.GetAll)
		// Employees may read their own record; the service enforces ownership.
		employees.GET("/:id", handler.GetById)
		employees.PUT("/:id", middleware.Authorize(guard.CapManageEmployees), handler.Update)
		employees.DELETE("/:id", middleware.Authorize(guard.CapManageEmployees), handler.Delete)
	}
}

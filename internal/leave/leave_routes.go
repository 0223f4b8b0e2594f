package leave

import (
	"go-leave/internal/guard"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.GET("", middleware.AuthorizeAny(guard.CapReadAnyLeave, guard.CapReadOwnLeaves), handler.GetAll)
		leaves.GET("/:id", middleware.AuthorizeAny(guard.CapReadAnyLeave, guard.CapReadOwnLeaves), handler.GetById)
		leaves.GET("/employee/:employeeId", middleware.AuthorizeAny(guard.CapReadAnyLeave, guard.CapReadOwnLeaves), handler.GetByEmployee)
		leaves.POST("", middleware.Authorize(guard.CapSubmitLeave), handler.Submit)
	}
}

package balance

import (
	"go-leave/internal/guard"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	balances := r.Group("/leave-balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("", middleware.Authorize(guard.CapReadAnyBalance), handler.GetAll)
		balances.GET("/:id", middleware.AuthorizeAny(guard.CapReadAnyBalance, guard.CapReadOwnBalance), handler.GetById)
		balances.GET("/employee/:employeeId", middleware.AuthorizeAny(guard.CapReadAnyBalance, guard.CapReadOwnBalance), handler.GetByEmployee)
		balances.POST("", middleware.Authorize(guard.CapAllocateBalance), handler.Allocate)
		balances.PUT("/:id", middleware.Authorize(guard.CapAllocateBalance), handler.Update)
		balances.DELETE("/:id", middleware.Authorize(guard.CapAllocateBalance), handler.Delete)
	}
}

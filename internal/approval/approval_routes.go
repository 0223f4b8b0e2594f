package approval

import (
	"go-leave/internal/guard"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"

	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	approvals := r.Group("/approvals")
	approvals.Use(middleware.AuthMiddleware())
	{
		decide := approvals.Group("")
		if rdb != nil {
			decide.Use(middleware.Idempotency(rdb))
		}
		decide.POST("", middleware.Authorize(guard.CapDecideLeave), handler.Decide)

		approvals.GET("", middleware.Authorize(guard.CapReadApprovals), handler.GetAll)
		approvals.GET("/pending", middleware.Authorize(guard.CapListPending), handler.GetPending)
		approvals.GET("/:id", middleware.Authorize(guard.CapReadApprovals), handler.GetById)
	}
}

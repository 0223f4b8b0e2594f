package auth

import (
	"go-leave/internal/guard"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	login := r.Group("/auth/login")
	// Brute-force protection on the credential endpoints only.
	login.Use(middleware.RateLimitByIP(5, 10))
	{
		login.POST("/admin", handler.Login(guard.RoleAdmin))
		login.POST("/employee", handler.Login(guard.RoleEmployee))
		login.POST("/manager", handler.Login(guard.RoleManager))
	}
}

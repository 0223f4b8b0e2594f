package middleware

import (
	"net/http"

	"go-leave/internal/guard"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Authorize gates a route on a single capability from the static
// role -> capability table. Ownership checks (own leave, own balance)
// stay inside the services, which receive the principal explicitly.
func Authorize(cap guard.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := guard.FromGin(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing auth context", nil)
			c.Abort()
			return
		}

		if !p.Allowed(cap) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN",
				"You do not have permission to access this resource",
				map[string]string{"required": string(cap)},
			)
			c.Abort()
			return
		}

		c.Next()
	}
}

// AuthorizeAny allows the route when the principal holds at least one of the
// capabilities. Used for routes shared between roles, e.g. list leaves.
func AuthorizeAny(caps ...guard.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := guard.FromGin(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing auth context", nil)
			c.Abort()
			return
		}

		for _, cap := range caps {
			if p.Allowed(cap) {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "FORBIDDEN",
			"You do not have permission to access this resource", nil)
		c.Abort()
	}
}

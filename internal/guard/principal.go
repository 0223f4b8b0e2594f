package guard

import (
	"context"

	"github.com/gin-gonic/gin"
)

// Principal is the authenticated actor a core operation runs on behalf of.
// It is always passed explicitly; the core keeps no ambient session state.
type Principal struct {
	ID   int64
	Role Role
}

func (p Principal) Allowed(cap Capability) bool {
	return Allowed(p.Role, cap)
}

// Owns reports whether the principal is the employee of record for
// employeeID. Admins pass ownership checks for read paths via their
// read_any capabilities, not through Owns.
func (p Principal) Owns(employeeID int64) bool {
	return p.Role == RoleEmployee && p.ID == employeeID
}

type contextKey string

const principalKey contextKey = "principal"

// GinKey is the gin context key the auth middleware stores the principal under.
const GinKey = "principal"

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// FromGin extracts the principal the auth middleware attached to the request.
func FromGin(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(GinKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

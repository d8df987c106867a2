package auth

import (
	"github.com/labstack/echo/v4"
)

// ContextKey is where the auth middleware stores the verified *Claims.
const ContextKey = "user"

// Identity is the (username, admin flag) pair proven by a session token.
type Identity struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// IsZero reports whether no identity has been established.
func (i Identity) IsZero() bool {
	return i.Username == ""
}

// IdentityFromContext returns the identity verified by Middleware.
func IdentityFromContext(c echo.Context) (Identity, bool) {
	claims, ok := c.Get(ContextKey).(*Claims)
	if !ok || claims == nil {
		return Identity{}, false
	}
	return claims.Identity(), true
}

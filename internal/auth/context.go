package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/codesign-connect/codesign-backend/internal/users"
)

const ctxUserKey = "current_user"

// CurrentUser returns the user resolved by RequireAuth, or nil on routes
// that skipped it.
func CurrentUser(c *gin.Context) *users.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*users.User)
	return u
}

package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/codesign-connect/codesign-backend/internal/platform/logger"
	"github.com/codesign-connect/codesign-backend/internal/users"
)

// Middleware resolves the current user from a bearer token on every
// request it guards. It only reads; nothing here mutates state.
type Middleware struct {
	log    *logger.Logger
	tokens *TokenService
	store  users.Finder
}

func NewMiddleware(log *logger.Logger, tokens *TokenService, store users.Finder) *Middleware {
	return &Middleware{log: log.With("middleware", "auth"), tokens: tokens, store: store}
}

func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		subject, err := m.tokens.Verify(token)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, ErrTokenExpired) {
				msg = "Token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		u, err := m.store.FindByID(c.Request.Context(), subject)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
				return
			}
			m.log.Error("resolve user", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Set(ctxUserKey, u)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

package auth

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codesign-connect/codesign-backend/internal/platform/logger"
	"github.com/codesign-connect/codesign-backend/internal/users"
)

type Handler struct {
	log    *logger.Logger
	tokens *TokenService
	repo   *users.Repo
}

func NewHandler(log *logger.Logger, tokens *TokenService, repo *users.Repo) *Handler {
	return &Handler{log: log.With("handler", "auth"), tokens: tokens, repo: repo}
}

// Register mounts the auth routes. limit is applied to the two
// unauthenticated endpoints; requireAuth guards /me.
func Register(rg *gin.RouterGroup, h *Handler, limit, requireAuth gin.HandlerFunc) {
	rg.POST("/register", limit, h.register)
	rg.POST("/login", limit, h.login)
	rg.GET("/me", requireAuth, h.me)
}

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        *users.User `json:"user"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password required"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	if req.Role == "" {
		req.Role = users.RoleCoDesigner
	}
	if !users.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	hash, err := users.HashPassword(req.Password)
	if err != nil {
		h.log.Error("hash password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	u := &users.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Role:         req.Role,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.repo.Create(c.Request.Context(), u); err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
		h.log.Error("create user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.respondWithToken(c, u)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	u, err := h.repo.GetByEmail(c.Request.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		h.log.Error("get user by email", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if !users.CheckPassword(u.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	h.respondWithToken(c, u)
}

func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, CurrentUser(c))
}

func (h *Handler) respondWithToken(c *gin.Context, u *users.User) {
	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		h.log.Error("issue token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer", User: u})
}

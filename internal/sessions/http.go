package sessions

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codesign-connect/codesign-backend/internal/auth"
	"github.com/codesign-connect/codesign-backend/internal/platform/logger"
	"github.com/codesign-connect/codesign-backend/internal/projects"
)

type Handler struct {
	log  *logger.Logger
	repo *Repo
}

func Register(rg *gin.RouterGroup, log *logger.Logger, repo *Repo) {
	h := &Handler{log: log.With("handler", "sessions"), repo: repo}

	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.PUT("/:id/step", h.updateStep)
}

type createReq struct {
	ProjectID   string `json:"project_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.ProjectID) == "" || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project_id and name required"})
		return
	}

	user := auth.CurrentUser(c)
	s, err := h.repo.Create(c.Request.Context(), uuid.NewString(), user.ID,
		req.ProjectID, strings.TrimSpace(req.Name), req.Description)
	if err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		h.log.Error("create session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, s)
}

func (h *Handler) list(c *gin.Context) {
	user := auth.CurrentUser(c)
	items, err := h.repo.List(c.Request.Context(), user.ID, c.Query("project_id"))
	if err != nil {
		h.log.Error("list sessions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) get(c *gin.Context) {
	user := auth.CurrentUser(c)
	s, err := h.repo.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		h.log.Error("get session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, s)
}

type stepReq struct {
	Step int `json:"step"`
}

func (h *Handler) updateStep(c *gin.Context) {
	var req stepReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	user := auth.CurrentUser(c)
	if err := h.repo.UpdateStep(c.Request.Context(), user.ID, c.Param("id"), req.Step); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		h.log.Error("update session step", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Step updated"})
}

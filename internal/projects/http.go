package projects

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codesign-connect/codesign-backend/internal/auth"
	"github.com/codesign-connect/codesign-backend/internal/platform/logger"
)

// SessionSweeper removes the sessions of a deleted project. The sweep is
// a second statement after the project delete; a crash in between leaves
// orphaned sessions (last-resort cleanup is a manual query).
type SessionSweeper interface {
	DeleteByProject(ctx context.Context, projectID string) (int64, error)
}

type Handler struct {
	log      *logger.Logger
	repo     *Repo
	sessions SessionSweeper
}

func Register(rg *gin.RouterGroup, log *logger.Logger, repo *Repo, sessions SessionSweeper) {
	h := &Handler{log: log.With("handler", "projects"), repo: repo, sessions: sessions}

	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

type createReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}

	user := auth.CurrentUser(c)
	p, err := h.repo.Create(c.Request.Context(), uuid.NewString(), user.ID, strings.TrimSpace(req.Name), req.Description)
	if err != nil {
		h.log.Error("create project", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *Handler) list(c *gin.Context) {
	user := auth.CurrentUser(c)
	items, err := h.repo.List(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error("list projects", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) get(c *gin.Context) {
	user := auth.CurrentUser(c)
	p, err := h.repo.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		h.respondErr(c, "get project", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type updateReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name must not be empty"})
		return
	}

	user := auth.CurrentUser(c)
	p, err := h.repo.Update(c.Request.Context(), user.ID, c.Param("id"), req.Name, req.Description)
	if err != nil {
		h.respondErr(c, "update project", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) delete(c *gin.Context) {
	user := auth.CurrentUser(c)
	projectID := c.Param("id")

	ok, err := h.repo.Delete(c.Request.Context(), user.ID, projectID)
	if err != nil {
		h.log.Error("delete project", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	// Cascade to the project's sessions. Artifact documents stay behind.
	if n, err := h.sessions.DeleteByProject(c.Request.Context(), projectID); err != nil {
		h.log.Error("delete project sessions", "project_id", projectID, "error", err)
	} else if n > 0 {
		h.log.Info("deleted project sessions", "project_id", projectID, "count", n)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

func (h *Handler) respondErr(c *gin.Context, op string, err error) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	h.log.Error(op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

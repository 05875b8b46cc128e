package artifacts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codesign-connect/codesign-backend/internal/auth"
	"github.com/codesign-connect/codesign-backend/internal/platform/logger"
)

// SessionGuard reports whether a session belongs to the user. Artifact
// routes treat a failed check the same as a missing document.
type SessionGuard interface {
	OwnedByUser(ctx context.Context, sessionID, userID string) (bool, error)
}

// Register mounts POST /{kind}, GET /{kind}/:session_id and
// PUT /{kind}/:session_id for every artifact kind.
func Register(rg *gin.RouterGroup, log *logger.Logger, db DB, guard SessionGuard) {
	for _, k := range Kinds {
		h := &kindHandler{
			log:   log.With("handler", k.Path),
			kind:  k,
			store: NewStore(db, k.Table),
			guard: guard,
		}
		rg.POST("/"+k.Path, h.create)
		rg.GET("/"+k.Path+"/:session_id", h.get)
		rg.PUT("/"+k.Path+"/:session_id", h.update)
	}
}

type kindHandler struct {
	log   *logger.Logger
	kind  Kind
	store *Store
	guard SessionGuard
}

func (h *kindHandler) create(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	var ref struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(raw, &ref); err != nil || strings.TrimSpace(ref.SessionID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id required"})
		return
	}

	payload, ok := h.decodePayload(c, raw)
	if !ok {
		return
	}
	if !h.checkSession(c, ref.SessionID) {
		return
	}

	a, err := h.store.Create(c.Request.Context(), uuid.NewString(), ref.SessionID, payload)
	if err != nil {
		if errors.Is(err, ErrExists) {
			c.JSON(http.StatusConflict, gin.H{"error": h.kind.Label + " already exists for this session"})
			return
		}
		h.log.Error("create artifact", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.respond(c, a)
}

func (h *kindHandler) get(c *gin.Context) {
	sessionID := c.Param("session_id")
	if !h.checkSession(c, sessionID) {
		return
	}

	a, err := h.store.GetBySession(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": h.kind.Label + " not found"})
			return
		}
		h.log.Error("get artifact", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.respond(c, a)
}

func (h *kindHandler) update(c *gin.Context) {
	sessionID := c.Param("session_id")

	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	payload, ok := h.decodePayload(c, raw)
	if !ok {
		return
	}
	if !h.checkSession(c, sessionID) {
		return
	}

	a, err := h.store.Upsert(c.Request.Context(), uuid.NewString(), sessionID, payload)
	if err != nil {
		h.log.Error("upsert artifact", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.respond(c, a)
}

// decodePayload parses the request body into the kind's payload,
// validates it and re-serializes only the payload fields.
func (h *kindHandler) decodePayload(c *gin.Context, raw []byte) (json.RawMessage, bool) {
	p := h.kind.New()
	if err := json.Unmarshal(raw, p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return nil, false
	}
	if err := p.Normalize(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	payload, err := json.Marshal(p)
	if err != nil {
		h.log.Error("encode payload", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}
	return payload, true
}

// checkSession hides other users' sessions behind a 404, the same way
// project routes do.
func (h *kindHandler) checkSession(c *gin.Context, sessionID string) bool {
	user := auth.CurrentUser(c)
	owned, err := h.guard.OwnedByUser(c.Request.Context(), sessionID, user.ID)
	if err != nil {
		h.log.Error("check session ownership", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return false
	}
	if !owned {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return false
	}
	return true
}

// respond flattens the payload next to the document envelope, the shape
// clients were built against.
func (h *kindHandler) respond(c *gin.Context, a *Artifact) {
	body := gin.H{}
	if err := json.Unmarshal(a.Payload, &body); err != nil {
		h.log.Error("decode stored payload", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	body["id"] = a.ID
	body["session_id"] = a.SessionID
	body["created_at"] = a.CreatedAt
	body["updated_at"] = a.UpdatedAt
	c.JSON(http.StatusOK, body)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yourusername/outreach-api/internal/middleware"
	"github.com/yourusername/outreach-api/internal/model"
	"github.com/yourusername/outreach-api/internal/workflow"
)

// SessionStore is what the session endpoints need from the store
type SessionStore interface {
	Create() *workflow.Session
	Get(id uuid.UUID) (*workflow.Session, bool)
	Delete(id uuid.UUID) bool
}

type SessionHandler struct {
	store SessionStore
}

func NewSessionHandler(store SessionStore) *SessionHandler {
	return &SessionHandler{store: store}
}

// Create handles POST /sessions
func (h *SessionHandler) Create(c *gin.Context) {
	sess := h.store.Create()
	c.JSON(http.StatusCreated, sess.Snapshot())
}

// Get handles GET /sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.GetSession(c).Snapshot())
}

// Delete handles DELETE /sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	h.store.Delete(middleware.GetSession(c).ID)
	c.Status(http.StatusNoContent)
}

// Transition handles POST /sessions/:id/{advance,retreat,reset}
func (h *SessionHandler) Transition(t model.Transition) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := middleware.GetSession(c).Transition(c.Request.Context(), t)
		if err != nil {
			respondErrorWithSession(c, err, snap)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

// Restart handles POST /sessions/:id/restart
func (h *SessionHandler) Restart(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.GetSession(c).Restart())
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/outreach-api/internal/middleware"
	"github.com/yourusername/outreach-api/internal/model"
)

type HistoryLister interface {
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.MessageRecord, error)
}

type HistoryHandler struct {
	repo HistoryLister
}

// NewHistoryHandler accepts a nil repo when history is disabled
func NewHistoryHandler(repo HistoryLister) *HistoryHandler {
	return &HistoryHandler{repo: repo}
}

// List handles GET /sessions/:id/history
func (h *HistoryHandler) List(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message history is not enabled", "kind": "history_disabled"})
		return
	}

	sess := middleware.GetSession(c)
	records, err := h.repo.ListBySession(c.Request.Context(), sess.ID)
	if err != nil {
		log.Error().Err(err).Str("session", sess.ID.String()).Msg("Failed to list message history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list message history", "kind": "internal"})
		return
	}

	if records == nil {
		records = []model.MessageRecord{}
	}
	c.JSON(http.StatusOK, records)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/outreach-api/internal/middleware"
	"github.com/yourusername/outreach-api/internal/model"
)

type OutreachHandler struct{}

func NewOutreachHandler() *OutreachHandler {
	return &OutreachHandler{}
}

// SetCompany handles PUT /sessions/:id/company
func (h *OutreachHandler) SetCompany(c *gin.Context) {
	var info model.CompanyJobInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "kind": "invalid_request"})
		return
	}

	snap, err := middleware.GetSession(c).SetCompanyJobInfo(info)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// SetOptions handles PUT /sessions/:id/options
func (h *OutreachHandler) SetOptions(c *gin.Context) {
	var opts model.MessageOptions
	if err := c.ShouldBindJSON(&opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "kind": "invalid_request"})
		return
	}

	snap, err := middleware.GetSession(c).SetOptions(opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Preview handles POST /sessions/:id/preview
// Regenerates only when an input changed since the last result
func (h *OutreachHandler) Preview(c *gin.Context) {
	snap, err := middleware.GetSession(c).Preview(c.Request.Context())
	if err != nil {
		respondErrorWithSession(c, err, snap)
		return
	}
	c.JSON(http.StatusOK, snap)
}

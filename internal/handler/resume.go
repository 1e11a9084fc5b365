package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/outreach-api/internal/middleware"
	"github.com/yourusername/outreach-api/internal/service"
)

type ResumeHandler struct {
	maxUploadBytes int64
}

func NewResumeHandler(maxUploadBytes int64) *ResumeHandler {
	return &ResumeHandler{maxUploadBytes: maxUploadBytes}
}

// Upload handles POST /sessions/:id/resume
// Accepts a PDF, DOCX or TXT file via multipart form and extracts a structured resume
func (h *ResumeHandler) Upload(c *gin.Context) {
	sess := middleware.GetSession(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large", "kind": "file_too_large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded", "kind": "invalid_request"})
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file", "kind": "internal"})
		return
	}

	declared := declaredType(header.Header.Get("Content-Type"), header.Filename)

	log.Info().
		Str("session", sess.ID.String()).
		Str("filename", header.Filename).
		Str("type", declared).
		Int("bytes", len(fileBytes)).
		Msg("Resume uploaded")

	snap, err := sess.UploadResume(c.Request.Context(), fileBytes, declared)
	if err != nil {
		respondErrorWithSession(c, err, snap)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// declaredType prefers the part's Content-Type and falls back to the file
// extension when the client sent none or a generic one
func declaredType(contentType, filename string) string {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType != "application/octet-stream" {
		return contentType
	}
	if guessed := service.MimeFromFilename(filename); guessed != "" {
		return guessed
	}
	return contentType
}

// Update handles PUT /sessions/:id/resume
// Replaces the structured resume with a user edit
func (h *ResumeHandler) Update(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "kind": "invalid_request"})
		return
	}

	snap, err := middleware.GetSession(c).UpdateResume(body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

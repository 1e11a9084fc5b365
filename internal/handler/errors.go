package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/outreach-api/internal/service"
	"github.com/yourusername/outreach-api/internal/workflow"
)

// statusFor maps a pipeline error to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, workflow.ErrNotAtPreview), errors.Is(err, workflow.ErrNoResult):
		return http.StatusConflict
	}

	switch service.KindOf(err) {
	case service.KindInvalidOption, service.KindInvalidResume:
		return http.StatusBadRequest
	case service.KindUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case service.KindParseError:
		return http.StatusUnprocessableEntity
	case service.KindMissingCredential:
		return http.StatusServiceUnavailable
	case service.KindTransient, service.KindService, service.KindMalformedResponse, service.KindNoVariantsProduced:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func errorBody(err error) gin.H {
	status := statusFor(err)
	kind := string(service.KindOf(err))
	msg := err.Error()

	switch {
	case status == http.StatusConflict:
		kind = "conflict"
	case status == http.StatusInternalServerError:
		kind = "internal"
		msg = "Internal server error"
	}
	return gin.H{"error": msg, "kind": kind}
}

// respondError writes the error body. Failures never end the session; the
// client may retry or change inputs.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
	}
	c.JSON(status, errorBody(err))
}

// respondErrorWithSession also returns the session state, which a failed
// pipeline run still changed (stage, notices)
func respondErrorWithSession(c *gin.Context, err error, snap workflow.Snapshot) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
	}
	body := errorBody(err)
	body["session"] = snap
	c.JSON(status, body)
}

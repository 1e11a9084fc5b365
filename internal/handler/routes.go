package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/yourusername/outreach-api/internal/middleware"
	"github.com/yourusername/outreach-api/internal/model"
)

type Handlers struct {
	Sessions *SessionHandler
	Resumes  *ResumeHandler
	Outreach *OutreachHandler
	Exports  *ExportHandler
	History  *HistoryHandler
}

// RegisterRoutes mounts the session API on r. Middleware in mw runs before
// session resolution on every route.
func RegisterRoutes(r gin.IRouter, store SessionStore, h Handlers, mw ...gin.HandlerFunc) {
	r.POST("/sessions", append(mw, h.Sessions.Create)...)

	s := r.Group("/sessions/:id", mw...)
	s.Use(middleware.ResolveSession(store))
	{
		s.GET("", h.Sessions.Get)
		s.DELETE("", h.Sessions.Delete)

		// Workflow
		s.POST("/advance", h.Sessions.Transition(model.TransitionAdvance))
		s.POST("/retreat", h.Sessions.Transition(model.TransitionRetreat))
		s.POST("/reset", h.Sessions.Transition(model.TransitionReset))
		s.POST("/restart", h.Sessions.Restart)

		// Inputs
		s.POST("/resume", h.Resumes.Upload)
		s.PUT("/resume", h.Resumes.Update)
		s.PUT("/company", h.Outreach.SetCompany)
		s.PUT("/options", h.Outreach.SetOptions)

		// Output
		s.POST("/preview", h.Outreach.Preview)
		s.GET("/export", h.Exports.Zip)
		s.GET("/export/:n", h.Exports.Variant)
		s.POST("/export/save", h.Exports.Save)
		s.GET("/history", h.History.List)
	}
}

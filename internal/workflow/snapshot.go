package workflow

import (
	"github.com/google/uuid"
	"github.com/yourusername/outreach-api/internal/model"
	"github.com/yourusername/outreach-api/internal/service"
)

// Snapshot is a point-in-time copy of a session
type Snapshot struct {
	ID         uuid.UUID                `json:"id"`
	Stage      model.Stage              `json:"stage"`
	ResumeText string                   `json:"resumeText,omitempty"`
	Resume     model.ResumeRecord       `json:"resume"`
	CompanyJob model.CompanyJobInfo     `json:"companyJob"`
	Options    model.MessageOptions     `json:"options"`
	Request    *model.GenerationRequest `json:"request,omitempty"`
	Result     *model.GenerationResult  `json:"result,omitempty"`
	Notices    []Notice                 `json:"notices,omitempty"`
}

// Notice is a non-fatal condition the user should see
type Notice struct {
	Kind    service.Kind `json:"kind"`
	Field   string       `json:"field,omitempty"`
	Message string       `json:"message"`
}

// caller holds s.mu
func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		ID:         s.ID,
		Stage:      s.stage,
		ResumeText: s.resumeText,
		Resume:     s.resume.Clone(),
		CompanyJob: s.info,
		Options:    s.options,
	}
	snap.Options.PlatformOptions = s.options.PlatformOptions.Clone()
	snap.Options.FocusAreas = model.CloneStrings(s.options.FocusAreas)

	if s.lastRequest != nil {
		req := *s.lastRequest
		snap.Request = &req
	}
	if s.lastResult != nil {
		snap.Result = &model.GenerationResult{
			Variants:    model.CloneStrings(s.lastResult.Variants),
			GeneratedAt: s.lastResult.GeneratedAt,
		}
	}
	for _, n := range s.notices {
		snap.Notices = append(snap.Notices, Notice{Kind: n.Kind, Field: n.Field, Message: n.Message})
	}
	return snap
}

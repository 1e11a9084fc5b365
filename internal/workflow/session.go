package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/outreach-api/internal/model"
	"github.com/yourusername/outreach-api/internal/service"
)

// ErrNotAtPreview is returned when the preview is requested outside the preview stage
var ErrNotAtPreview = errors.New("session is not at the preview/export stage")

// ErrNoResult is returned when exporting before any variants exist
var ErrNoResult = errors.New("no generated messages yet")

// ── Collaborators ──────────────────────────────────────

type TextExtractor func(data []byte, declaredType string) (string, error)

type ResumeExtractor interface {
	Extract(ctx context.Context, resumeText string) (model.ResumeRecord, error)
}

type Enricher interface {
	Enrich(ctx context.Context, cache *service.CompanyCache, company string) service.Enrichment
}

type Generator interface {
	Generate(ctx context.Context, req *model.GenerationRequest) ([]string, error)
}

// HistoryRecorder persists produced variants. Optional.
type HistoryRecorder interface {
	Save(ctx context.Context, sessionID uuid.UUID, req *model.GenerationRequest, variants []string) error
}

// Pipeline bundles the components every session drives
type Pipeline struct {
	ExtractText TextExtractor
	Resumes     ResumeExtractor
	Enricher    Enricher
	Generator   Generator
	History     HistoryRecorder
}

// ── Session ────────────────────────────────────────────

// Session is the isolated state of one user's walk through the workflow.
// All methods serialize on the session's own lock, so the pipeline for a
// session never runs twice at once.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu       sync.Mutex
	pipeline *Pipeline

	stage       model.Stage
	resumeText  string
	resume      model.ResumeRecord
	info        model.CompanyJobInfo
	options     model.MessageOptions
	cache       *service.CompanyCache
	lastRequest *model.GenerationRequest
	lastResult  *model.GenerationResult
	notices     []*service.Error
}

func NewSession(id uuid.UUID, pipeline *Pipeline) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		pipeline:  pipeline,
		options:   model.DefaultOptions(),
		cache:     service.NewCompanyCache(),
	}
}

// Snapshot returns a copy of the session state safe to serialize
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// UploadResume extracts text from an uploaded file and then a structured
// record from the text. The extracted text is kept even when structured
// extraction fails so the user can retry. A record from different text is
// dropped as soon as the new text is accepted, so text and record never
// describe different resumes.
func (s *Session) UploadResume(ctx context.Context, data []byte, declaredType string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, err := s.pipeline.ExtractText(data, declaredType)
	if err != nil {
		return s.snapshot(), err
	}
	if text != s.resumeText {
		s.resumeText = text
		s.resume = model.ResumeRecord{}
	}

	rec, err := s.pipeline.Resumes.Extract(ctx, text)
	if err != nil {
		return s.snapshot(), err
	}
	s.resume = rec

	log.Info().Str("session", s.ID.String()).Bool("raw", rec.IsRaw()).Msg("Resume uploaded")
	return s.snapshot(), nil
}

// UpdateResume replaces the structured resume with a user edit. The edit
// must pass the same validation as extracted output.
func (s *Session) UpdateResume(data []byte) (Snapshot, error) {
	resume, err := model.ParseStructuredResume(data)
	if err != nil {
		return Snapshot{}, &service.Error{Kind: service.KindInvalidResume, Message: "edited resume is invalid", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.resume = model.ResumeRecord{Structured: resume}
	return s.snapshot(), nil
}

// SetCompanyJobInfo records the target company and role
func (s *Session) SetCompanyJobInfo(info model.CompanyJobInfo) (Snapshot, error) {
	info = info.Normalize()
	if info.CompanyName == "" {
		return Snapshot{}, &service.Error{Kind: service.KindInvalidOption, Field: "company_name", Message: "company name is required"}
	}
	if info.JobTitle == "" {
		return Snapshot{}, &service.Error{Kind: service.KindInvalidOption, Field: "job_title", Message: "job title is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = info
	return s.snapshot(), nil
}

// SetOptions validates and records the message options. A platform that
// defines constraints gets its defaults when none are supplied.
func (s *Session) SetOptions(opts model.MessageOptions) (Snapshot, error) {
	err := service.ValidateRequest(&model.GenerationRequest{
		Platform:    opts.Platform,
		Tone:        opts.Tone,
		Length:      opts.Length,
		FocusAreas:  opts.FocusAreas,
		NumVariants: opts.NumVariants,
	})
	if err != nil {
		return Snapshot{}, err
	}

	if opts.PlatformOptions.IsZero() {
		opts.PlatformOptions = model.DefaultPlatformOptions(opts.Platform)
	}
	opts.FocusAreas = model.CloneStrings(opts.FocusAreas)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.options = opts
	return s.snapshot(), nil
}

// Transition applies t. Advancing into the preview stage runs the
// enrichment and generation pipeline; its error is returned alongside the
// new state, which is kept either way.
func (s *Session) Transition(ctx context.Context, t model.Transition) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.stage
	s.stage = s.stage.Next(t)

	log.Debug().
		Str("session", s.ID.String()).
		Str("transition", string(t)).
		Stringer("from", from).
		Stringer("to", s.stage).
		Msg("Workflow transition")

	if s.stage == model.StagePreviewExport && from != model.StagePreviewExport {
		err := s.preview(ctx)
		return s.snapshot(), err
	}
	return s.snapshot(), nil
}

// Preview revisits the preview stage, regenerating only if an input changed
func (s *Session) Preview(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage != model.StagePreviewExport {
		return s.snapshot(), ErrNotAtPreview
	}
	err := s.preview(ctx)
	return s.snapshot(), err
}

// Restart clears everything the session accumulated and returns to the first stage
func (s *Session) Restart() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stage = model.StageUpload
	s.resumeText = ""
	s.resume = model.ResumeRecord{}
	s.info = model.CompanyJobInfo{}
	s.options = model.DefaultOptions()
	s.cache = service.NewCompanyCache()
	s.lastRequest = nil
	s.lastResult = nil
	s.notices = nil
	return s.snapshot()
}

// Variants returns the platform and a copy of the last generated variants
func (s *Session) Variants() (string, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastResult == nil || len(s.lastResult.Variants) == 0 {
		return "", nil, ErrNoResult
	}
	return s.lastRequest.Platform, model.CloneStrings(s.lastResult.Variants), nil
}

// preview enriches the company, builds the current request and generates
// only when it differs from the request behind the stored result. The
// stored request and result are replaced together, and only on success.
// Caller holds s.mu.
func (s *Session) preview(ctx context.Context) error {
	if s.resume.Empty() {
		return &service.Error{Kind: service.KindInvalidResume, Message: "upload a resume before generating messages"}
	}

	enriched := s.pipeline.Enricher.Enrich(ctx, s.cache, s.info.CompanyName)
	req := s.buildRequest(enriched.Profile)

	s.notices = s.notices[:0]
	for _, n := range enriched.Notices {
		if n.Field == "description" && s.info.CompanyDescription != "" {
			continue
		}
		s.notices = append(s.notices, n)
	}

	if s.lastResult != nil && req.Equal(s.lastRequest) {
		log.Debug().Str("session", s.ID.String()).Msg("Generation inputs unchanged, reusing result")
		return nil
	}

	variants, err := s.pipeline.Generator.Generate(ctx, req)
	if err != nil {
		log.Warn().Err(err).Str("session", s.ID.String()).Msg("Message generation failed")
		return err
	}

	s.lastRequest = req
	s.lastResult = &model.GenerationResult{Variants: variants, GeneratedAt: time.Now().UTC()}

	if s.pipeline.History != nil {
		if err := s.pipeline.History.Save(ctx, s.ID, req, variants); err != nil {
			log.Error().Err(err).Str("session", s.ID.String()).Msg("Failed to persist message history")
		}
	}
	return nil
}

func (s *Session) buildRequest(profile model.CompanyProfile) *model.GenerationRequest {
	description := profile.Description
	if s.info.CompanyDescription != "" {
		description = s.info.CompanyDescription
	}

	return &model.GenerationRequest{
		Resume:             s.resume.Clone(),
		CompanyName:        s.info.CompanyName,
		CompanyDescription: description,
		CompanyProjects:    model.CloneStrings(profile.Projects),
		CompanyVMG:         model.CloneStrings(profile.VisionMissionGoals),
		JobTitle:           s.info.JobTitle,
		Platform:           s.options.Platform,
		Tone:               s.options.Tone,
		Length:             s.options.Length,
		PlatformOptions:    s.options.PlatformOptions.Clone(),
		FocusAreas:         model.CloneStrings(s.options.FocusAreas),
		NumVariants:        s.options.NumVariants,
	}
}

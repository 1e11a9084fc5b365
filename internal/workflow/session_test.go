package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/outreach-api/internal/model"
	"github.com/yourusername/outreach-api/internal/service"
)

// ── Fakes ──────────────────────────────────────────────

type fakeResumes struct {
	rec   model.ResumeRecord
	err   error
	calls int
}

func (f *fakeResumes) Extract(_ context.Context, _ string) (model.ResumeRecord, error) {
	f.calls++
	return f.rec, f.err
}

type fakeEnricher struct {
	profile model.CompanyProfile
	notices []*service.Error
	calls   int
}

func (f *fakeEnricher) Enrich(_ context.Context, _ *service.CompanyCache, company string) service.Enrichment {
	f.calls++
	p := f.profile
	p.Name = company
	return service.Enrichment{Profile: p, Notices: f.notices}
}

type fakeGenerator struct {
	variants []string
	err      error
	calls    int
	requests []*model.GenerationRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req *model.GenerationRequest) ([]string, error) {
	f.calls++
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.variants, nil
}

type fakeHistory struct {
	saved int
	err   error
}

func (f *fakeHistory) Save(_ context.Context, _ uuid.UUID, _ *model.GenerationRequest, _ []string) error {
	f.saved++
	return f.err
}

type fixture struct {
	session   *Session
	resumes   *fakeResumes
	enricher  *fakeEnricher
	generator *fakeGenerator
	history   *fakeHistory
}

func newFixture() *fixture {
	f := &fixture{
		resumes: &fakeResumes{rec: model.ResumeRecord{Structured: &model.StructuredResume{Skills: []string{"Python", "AWS"}}}},
		enricher: &fakeEnricher{profile: model.CompanyProfile{
			Description: "Acme builds rockets.",
			Projects:    []string{"Project Falcon"},
		}},
		generator: &fakeGenerator{variants: []string{"Hello Acme"}},
		history:   &fakeHistory{},
	}
	f.session = NewSession(uuid.New(), &Pipeline{
		ExtractText: service.ExtractText,
		Resumes:     f.resumes,
		Enricher:    f.enricher,
		Generator:   f.generator,
		History:     f.history,
	})
	return f
}

// toPreview fills every stage and advances into the preview
func (f *fixture) toPreview(t *testing.T) Snapshot {
	t.Helper()
	ctx := context.Background()

	_, err := f.session.UploadResume(ctx, []byte("5 years Python, AWS"), "text/plain")
	require.NoError(t, err)
	_, err = f.session.Transition(ctx, model.TransitionAdvance)
	require.NoError(t, err)

	_, err = f.session.SetCompanyJobInfo(model.CompanyJobInfo{CompanyName: "Acme", JobTitle: "Backend Engineer"})
	require.NoError(t, err)
	_, err = f.session.Transition(ctx, model.TransitionAdvance)
	require.NoError(t, err)

	_, err = f.session.SetOptions(model.MessageOptions{
		Platform:    model.PlatformEmail,
		Tone:        model.ToneFormal,
		Length:      model.LengthMedium,
		FocusAreas:  []string{model.FocusSkills},
		NumVariants: 1,
	})
	require.NoError(t, err)

	snap, err := f.session.Transition(ctx, model.TransitionAdvance)
	require.NoError(t, err)
	require.Equal(t, model.StagePreviewExport, snap.Stage)
	return snap
}

// ── Tests ──────────────────────────────────────────────

func TestSession_NewStartsAtUpload(t *testing.T) {
	snap := newFixture().session.Snapshot()

	assert.Equal(t, model.StageUpload, snap.Stage)
	assert.Equal(t, model.DefaultOptions(), snap.Options)
	assert.Nil(t, snap.Result)
}

func TestSession_PreviewIsIdempotent(t *testing.T) {
	f := newFixture()
	first := f.toPreview(t)

	second, err := f.session.Preview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, f.generator.calls)
	assert.Equal(t, 2, f.enricher.calls)
	assert.Equal(t, first.Result, second.Result)
	assert.Equal(t, 1, f.history.saved)
}

func TestSession_ToneChangeRegenerates(t *testing.T) {
	f := newFixture()
	f.toPreview(t)
	ctx := context.Background()

	_, err := f.session.Transition(ctx, model.TransitionRetreat)
	require.NoError(t, err)
	_, err = f.session.SetOptions(model.MessageOptions{
		Platform:    model.PlatformEmail,
		Tone:        model.ToneEnthusiastic,
		Length:      model.LengthMedium,
		FocusAreas:  []string{model.FocusSkills},
		NumVariants: 1,
	})
	require.NoError(t, err)

	f.generator.variants = []string{"Hi Acme!!"}
	snap, err := f.session.Transition(ctx, model.TransitionAdvance)
	require.NoError(t, err)

	assert.Equal(t, 2, f.generator.calls)
	assert.Equal(t, []string{"Hi Acme!!"}, snap.Result.Variants)
	assert.Equal(t, model.ToneEnthusiastic, snap.Request.Tone)
}

func TestSession_EnrichmentChangeRegenerates(t *testing.T) {
	f := newFixture()
	f.toPreview(t)

	f.enricher.profile.VisionMissionGoals = []string{"Reach orbit"}
	_, err := f.session.Preview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, f.generator.calls)
	assert.Equal(t, []string{"Reach orbit"}, f.generator.requests[1].CompanyVMG)
}

func TestSession_AdvanceAtPreviewIsNoOp(t *testing.T) {
	f := newFixture()
	f.toPreview(t)

	snap, err := f.session.Transition(context.Background(), model.TransitionAdvance)
	require.NoError(t, err)
	assert.Equal(t, model.StagePreviewExport, snap.Stage)
	assert.Equal(t, 1, f.enricher.calls)
}

func TestSession_ResetKeepsData(t *testing.T) {
	f := newFixture()
	f.toPreview(t)
	ctx := context.Background()

	snap, err := f.session.Transition(ctx, model.TransitionReset)
	require.NoError(t, err)
	assert.Equal(t, model.StageUpload, snap.Stage)
	assert.Equal(t, "Acme", snap.CompanyJob.CompanyName)
	assert.NotNil(t, snap.Result)

	for i := 0; i < 3; i++ {
		snap, err = f.session.Transition(ctx, model.TransitionAdvance)
		require.NoError(t, err)
	}
	assert.Equal(t, model.StagePreviewExport, snap.Stage)
	assert.Equal(t, 1, f.generator.calls)
}

func TestSession_RestartClearsEverything(t *testing.T) {
	f := newFixture()
	f.toPreview(t)

	snap := f.session.Restart()

	assert.Equal(t, model.StageUpload, snap.Stage)
	assert.Empty(t, snap.ResumeText)
	assert.True(t, snap.Resume.Empty())
	assert.Equal(t, model.CompanyJobInfo{}, snap.CompanyJob)
	assert.Equal(t, model.DefaultOptions(), snap.Options)
	assert.Nil(t, snap.Request)
	assert.Nil(t, snap.Result)

	_, _, err := f.session.Variants()
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestSession_GenerationFailureKeepsPreviousResult(t *testing.T) {
	f := newFixture()
	f.toPreview(t)

	f.enricher.profile.Projects = []string{"Project Falcon", "Lunar lander"}
	f.generator.err = &service.Error{Kind: service.KindTransient, Message: "timed out"}

	snap, err := f.session.Preview(context.Background())
	assert.ErrorIs(t, err, service.ErrTransient)
	assert.Equal(t, []string{"Hello Acme"}, snap.Result.Variants)
	assert.Equal(t, []string{"Project Falcon"}, snap.Request.CompanyProjects)

	// the failed request was not stored, so the next visit retries
	f.generator.err = nil
	f.generator.variants = []string{"Hello again"}
	snap, err = f.session.Preview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, f.generator.calls)
	assert.Equal(t, []string{"Hello again"}, snap.Result.Variants)
}

func TestSession_ManualDescriptionOverridesSearch(t *testing.T) {
	f := newFixture()
	f.enricher.profile.Description = ""
	f.enricher.notices = []*service.Error{
		{Kind: service.KindNoResultsFound, Field: "description", Message: "no description found for Acme"},
		{Kind: service.KindNoResultsFound, Field: "vision_mission_goals", Message: "no vision/mission/goals found for Acme"},
	}
	ctx := context.Background()

	_, err := f.session.UploadResume(ctx, []byte("resume"), "text/plain")
	require.NoError(t, err)
	_, err = f.session.SetCompanyJobInfo(model.CompanyJobInfo{
		CompanyName:        "Acme",
		CompanyDescription: "  A rocket company.  ",
		JobTitle:           "Engineer",
	})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = f.session.Transition(ctx, model.TransitionAdvance)
		require.NoError(t, err)
	}

	snap := f.session.Snapshot()
	assert.Equal(t, "A rocket company.", snap.Request.CompanyDescription)
	require.Len(t, snap.Notices, 1)
	assert.Equal(t, "vision_mission_goals", snap.Notices[0].Field)
}

func TestSession_PreviewRequiresResume(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.session.SetCompanyJobInfo(model.CompanyJobInfo{CompanyName: "Acme", JobTitle: "Engineer"})
	require.NoError(t, err)
	_, _ = f.session.Transition(ctx, model.TransitionAdvance)
	_, _ = f.session.Transition(ctx, model.TransitionAdvance)

	snap, err := f.session.Transition(ctx, model.TransitionAdvance)
	assert.ErrorIs(t, err, service.ErrInvalidResume)
	assert.Equal(t, model.StagePreviewExport, snap.Stage)
	assert.Zero(t, f.generator.calls)
}

func TestSession_PreviewOutsideStage(t *testing.T) {
	_, err := newFixture().session.Preview(context.Background())
	assert.ErrorIs(t, err, ErrNotAtPreview)
}

func TestSession_UploadErrors(t *testing.T) {
	f := newFixture()

	_, err := f.session.UploadResume(context.Background(), []byte("GIF89a"), "image/gif")
	assert.ErrorIs(t, err, service.ErrUnsupportedFormat)
	assert.Zero(t, f.resumes.calls)

	f.resumes.err = &service.Error{Kind: service.KindMissingCredential, Message: "no key"}
	snap, err := f.session.UploadResume(context.Background(), []byte("5 years Python"), "text/plain")
	assert.ErrorIs(t, err, service.ErrMissingCredential)
	assert.Equal(t, "5 years Python", snap.ResumeText)
	assert.True(t, snap.Resume.Empty())
}

func TestSession_FailedReuploadDropsPreviousRecord(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.toPreview(t)

	f.resumes.err = &service.Error{Kind: service.KindTransient, Message: "overloaded"}
	snap, err := f.session.UploadResume(ctx, []byte("Resume B: Go, Kubernetes"), "text/plain")
	assert.ErrorIs(t, err, service.ErrTransient)
	assert.Equal(t, "Resume B: Go, Kubernetes", snap.ResumeText)
	assert.True(t, snap.Resume.Empty())

	// the old record must not feed the next generation
	_, err = f.session.Preview(ctx)
	assert.ErrorIs(t, err, service.ErrInvalidResume)
	assert.Equal(t, 1, f.generator.calls)

	// a successful retry restores generation
	f.resumes.err = nil
	f.resumes.rec = model.ResumeRecord{Structured: &model.StructuredResume{Skills: []string{"Go", "Kubernetes"}}}
	_, err = f.session.UploadResume(ctx, []byte("Resume B: Go, Kubernetes"), "text/plain")
	require.NoError(t, err)

	snap, err = f.session.Preview(ctx)
	require.NoError(t, err)
	require.Len(t, f.generator.requests, 2)
	assert.Equal(t, []string{"Go", "Kubernetes"}, f.generator.requests[1].Resume.Structured.Skills)
	assert.Equal(t, []string{"Go", "Kubernetes"}, snap.Resume.Structured.Skills)
}

func TestSession_UpdateResume(t *testing.T) {
	f := newFixture()

	_, err := f.session.UpdateResume([]byte(`{"skills":["Go"],"experience":[{"company":"Acme"}]}`))
	assert.ErrorIs(t, err, service.ErrInvalidResume)

	snap, err := f.session.UpdateResume([]byte(`{"skills":["Go"],"experience":[],"education":[],"achievements":[],"projects":[]}`))
	require.NoError(t, err)
	require.False(t, snap.Resume.IsRaw())
	assert.Equal(t, []string{"Go"}, snap.Resume.Structured.Skills)
}

func TestSession_SetCompanyJobInfoRequiresFields(t *testing.T) {
	f := newFixture()

	_, err := f.session.SetCompanyJobInfo(model.CompanyJobInfo{CompanyName: "  ", JobTitle: "Engineer"})
	assert.ErrorIs(t, err, service.ErrInvalidOption)

	_, err = f.session.SetCompanyJobInfo(model.CompanyJobInfo{CompanyName: "Acme"})
	assert.ErrorIs(t, err, service.ErrInvalidOption)
}

func TestSession_SetOptions(t *testing.T) {
	f := newFixture()

	_, err := f.session.SetOptions(model.MessageOptions{
		Platform: model.PlatformSMS, Tone: "aggressive", Length: model.LengthShort, NumVariants: 1,
	})
	assert.ErrorIs(t, err, service.ErrInvalidOption)
	assert.Equal(t, model.DefaultOptions(), f.session.Snapshot().Options)

	snap, err := f.session.SetOptions(model.MessageOptions{
		Platform: model.PlatformSMS, Tone: model.ToneFormal, Length: model.LengthShort, NumVariants: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, snap.Options.PlatformOptions.MaxLength)
	assert.Equal(t, 160, *snap.Options.PlatformOptions.MaxLength)
}

func TestSession_HistoryFailureDoesNotFailPreview(t *testing.T) {
	f := newFixture()
	f.history.err = errors.New("db down")

	snap := f.toPreview(t)
	assert.Equal(t, []string{"Hello Acme"}, snap.Result.Variants)
	assert.Equal(t, 1, f.history.saved)
}

func TestSession_Variants(t *testing.T) {
	f := newFixture()

	_, _, err := f.session.Variants()
	assert.ErrorIs(t, err, ErrNoResult)

	f.toPreview(t)
	platform, variants, err := f.session.Variants()
	require.NoError(t, err)
	assert.Equal(t, model.PlatformEmail, platform)
	assert.Equal(t, []string{"Hello Acme"}, variants)
}

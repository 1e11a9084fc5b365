package model

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// ── Resume section types ───────────────────────────────

type Experience struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Dates       string `json:"dates"`
	Description string `json:"description"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Dates       string `json:"dates"`
}

// StructuredResume is the validated record extracted from resume text
type StructuredResume struct {
	Skills       []string     `json:"skills"`
	Experience   []Experience `json:"experience"`
	Education    []Education  `json:"education"`
	Achievements []string     `json:"achievements"`
	Projects     []string     `json:"projects"`
}

// Clone returns a deep copy so snapshots are not affected by later edits
func (r *StructuredResume) Clone() *StructuredResume {
	if r == nil {
		return nil
	}
	out := &StructuredResume{
		Skills:       CloneStrings(r.Skills),
		Achievements: CloneStrings(r.Achievements),
		Projects:     CloneStrings(r.Projects),
	}
	if len(r.Experience) > 0 {
		out.Experience = append([]Experience(nil), r.Experience...)
	}
	if len(r.Education) > 0 {
		out.Education = append([]Education(nil), r.Education...)
	}
	return out
}

// ResumeRecord holds either a structured resume or the raw model output
// that could not be parsed into one.
type ResumeRecord struct {
	Structured *StructuredResume `json:"structured,omitempty"`
	RawOutput  string            `json:"raw_output,omitempty"`
}

// IsRaw reports whether the record is the unstructured fallback
func (r ResumeRecord) IsRaw() bool {
	return r.Structured == nil
}

// Empty reports whether nothing has been extracted yet
func (r ResumeRecord) Empty() bool {
	return r.Structured == nil && r.RawOutput == ""
}

// PromptValue is the value serialized into generation prompts
func (r ResumeRecord) PromptValue() any {
	if r.Structured != nil {
		return r.Structured
	}
	return map[string]string{"raw_output": r.RawOutput}
}

func (r ResumeRecord) Clone() ResumeRecord {
	return ResumeRecord{Structured: r.Structured.Clone(), RawOutput: r.RawOutput}
}

// ── Company enrichment ─────────────────────────────────

// CompanyProfile is the normalized public information about a target company
type CompanyProfile struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Projects           []string `json:"projects"`
	VisionMissionGoals []string `json:"visionMissionGoals"`
}

// ── Generation ─────────────────────────────────────────

// PlatformOptions are the platform-specific constraints passed through to the prompt.
// Only these keys are recognized; anything else is dropped at decode time.
type PlatformOptions struct {
	MaxLength *int  `json:"max_length,omitempty"`
	UseEmojis *bool `json:"use_emojis,omitempty"`
}

func (o PlatformOptions) IsZero() bool {
	return o.MaxLength == nil && o.UseEmojis == nil
}

func (o PlatformOptions) Clone() PlatformOptions {
	var out PlatformOptions
	if o.MaxLength != nil {
		n := *o.MaxLength
		out.MaxLength = &n
	}
	if o.UseEmojis != nil {
		b := *o.UseEmojis
		out.UseEmojis = &b
	}
	return out
}

// GenerationRequest is the full parameter tuple for one generation.
// Two requests are compared structurally to decide staleness.
type GenerationRequest struct {
	Resume             ResumeRecord    `json:"resume"`
	CompanyName        string          `json:"companyName"`
	CompanyDescription string          `json:"companyDescription"`
	CompanyProjects    []string        `json:"companyProjects"`
	CompanyVMG         []string        `json:"companyVisionMissionGoals"`
	JobTitle           string          `json:"jobTitle"`
	Platform           string          `json:"platform"`
	Tone               string          `json:"tone"`
	Length             string          `json:"length"`
	PlatformOptions    PlatformOptions `json:"platformOptions"`
	FocusAreas         []string        `json:"focusAreas"`
	NumVariants        int             `json:"numVariants"`
}

// Equal performs a full structural comparison, following pointers
func (r *GenerationRequest) Equal(other *GenerationRequest) bool {
	if r == nil || other == nil {
		return r == other
	}
	return reflect.DeepEqual(*r, *other)
}

// GenerationResult is the ordered set of variants produced from one request
type GenerationResult struct {
	Variants    []string  `json:"variants"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// MessageRecord is one persisted variant from a past generation
type MessageRecord struct {
	ID           uuid.UUID `json:"id"`
	SessionID    uuid.UUID `json:"sessionId"`
	CompanyName  string    `json:"companyName"`
	JobTitle     string    `json:"jobTitle"`
	Platform     string    `json:"platform"`
	Tone         string    `json:"tone"`
	Length       string    `json:"length"`
	VariantIndex int       `json:"variantIndex"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CloneStrings copies s, normalizing empty input to nil so clones compare equal
func CloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return append([]string(nil), s...)
}

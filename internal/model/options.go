package model

import "strings"

// Message tones
const (
	ToneFormal         = "formal"
	ToneEnthusiastic   = "enthusiastic"
	ToneConversational = "conversational"
)

// Message lengths
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// Delivery platforms
const (
	PlatformEmail     = "Email"
	PlatformLinkedIn  = "LinkedIn"
	PlatformWhatsApp  = "WhatsApp"
	PlatformTwitterDM = "Twitter DM"
	PlatformSMS       = "SMS"
)

// Resume aspects a message can emphasize
const (
	FocusSkills       = "skills"
	FocusExperience   = "experience"
	FocusCultureFit   = "culture fit"
	FocusAchievements = "achievements"
	FocusProjects     = "projects"
)

const (
	MinVariants = 1
	MaxVariants = 3
)

var (
	Tones      = []string{ToneFormal, ToneEnthusiastic, ToneConversational}
	Lengths    = []string{LengthShort, LengthMedium, LengthLong}
	Platforms  = []string{PlatformEmail, PlatformLinkedIn, PlatformWhatsApp, PlatformTwitterDM, PlatformSMS}
	FocusAreas = []string{FocusSkills, FocusExperience, FocusCultureFit, FocusAchievements, FocusProjects}
)

func ValidTone(s string) bool      { return contains(Tones, s) }
func ValidLength(s string) bool    { return contains(Lengths, s) }
func ValidPlatform(s string) bool  { return contains(Platforms, s) }
func ValidFocusArea(s string) bool { return contains(FocusAreas, s) }

// DefaultPlatformOptions returns the constraints a platform defines when the
// caller supplied none. Platforms without constraints get the zero value.
func DefaultPlatformOptions(platform string) PlatformOptions {
	switch platform {
	case PlatformSMS:
		n := 160
		return PlatformOptions{MaxLength: &n}
	case PlatformTwitterDM:
		n := 280
		return PlatformOptions{MaxLength: &n}
	case PlatformWhatsApp:
		b := true
		return PlatformOptions{UseEmojis: &b}
	}
	return PlatformOptions{}
}

// DefaultOptions are the message options a new session starts with
func DefaultOptions() MessageOptions {
	return MessageOptions{
		Platform:    PlatformEmail,
		Tone:        ToneFormal,
		Length:      LengthMedium,
		FocusAreas:  []string{FocusSkills, FocusExperience},
		NumVariants: 1,
	}
}

// MessageOptions is what the user picks on the message options stage
type MessageOptions struct {
	Platform        string          `json:"platform"`
	Tone            string          `json:"tone"`
	Length          string          `json:"length"`
	PlatformOptions PlatformOptions `json:"platformOptions"`
	FocusAreas      []string        `json:"focusAreas"`
	NumVariants     int             `json:"numVariants"`
}

// CompanyJobInfo is what the user enters on the company/job stage
type CompanyJobInfo struct {
	CompanyName        string `json:"companyName"`
	CompanyWebsite     string `json:"companyWebsite,omitempty"`
	CompanyDescription string `json:"companyDescription,omitempty"`
	JobTitle           string `json:"jobTitle"`
}

// Normalize trims user-entered text
func (c CompanyJobInfo) Normalize() CompanyJobInfo {
	return CompanyJobInfo{
		CompanyName:        strings.TrimSpace(c.CompanyName),
		CompanyWebsite:     strings.TrimSpace(c.CompanyWebsite),
		CompanyDescription: strings.TrimSpace(c.CompanyDescription),
		JobTitle:           strings.TrimSpace(c.JobTitle),
	}
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

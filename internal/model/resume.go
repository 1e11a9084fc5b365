package model

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Pointer fields make a missing key distinguishable from an empty string.
type experiencePayload struct {
	Company     *string `json:"company" validate:"required"`
	Title       *string `json:"title" validate:"required"`
	Dates       *string `json:"dates" validate:"required"`
	Description *string `json:"description" validate:"required"`
}

type educationPayload struct {
	Degree      *string `json:"degree" validate:"required"`
	Institution *string `json:"institution" validate:"required"`
	Dates       *string `json:"dates" validate:"required"`
}

type resumePayload struct {
	Skills       []string            `json:"skills"`
	Experience   []experiencePayload `json:"experience" validate:"dive"`
	Education    []educationPayload  `json:"education" validate:"dive"`
	Achievements []string            `json:"achievements"`
	Projects     []string            `json:"projects"`
}

// ParseStructuredResume decodes and validates a resume record. Every
// experience and education entry must carry all of its keys as strings;
// one bad entry rejects the whole record.
func ParseStructuredResume(data []byte) (*StructuredResume, error) {
	var p resumePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding resume: %w", err)
	}
	if err := validate.Struct(&p); err != nil {
		return nil, fmt.Errorf("validating resume: %w", err)
	}

	r := &StructuredResume{
		Skills:       CloneStrings(p.Skills),
		Achievements: CloneStrings(p.Achievements),
		Projects:     CloneStrings(p.Projects),
	}
	for _, e := range p.Experience {
		r.Experience = append(r.Experience, Experience{
			Company:     *e.Company,
			Title:       *e.Title,
			Dates:       *e.Dates,
			Description: *e.Description,
		})
	}
	for _, e := range p.Education {
		r.Education = append(r.Education, Education{
			Degree:      *e.Degree,
			Institution: *e.Institution,
			Dates:       *e.Dates,
		})
	}
	return r, nil
}

package model

// Stage is a step of the outreach workflow
type Stage int

const (
	StageUpload Stage = iota
	StageCompanyJobInfo
	StageMessageOptions
	StagePreviewExport
)

// Transition moves the workflow between stages
type Transition string

const (
	TransitionAdvance Transition = "advance"
	TransitionRetreat Transition = "retreat"
	TransitionReset   Transition = "reset"
)

var stageNames = map[Stage]string{
	StageUpload:         "upload",
	StageCompanyJobInfo: "company_job_info",
	StageMessageOptions: "message_options",
	StagePreviewExport:  "preview_export",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Next returns the stage reached from s by t. Stages move by exactly one
// step; advance at the last stage and retreat at the first are no-ops.
func (s Stage) Next(t Transition) Stage {
	switch t {
	case TransitionAdvance:
		if s < StagePreviewExport {
			return s + 1
		}
	case TransitionRetreat:
		if s > StageUpload {
			return s - 1
		}
	case TransitionReset:
		return StageUpload
	}
	return s
}

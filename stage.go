package postforge

// Stage is a step of the generation pipeline.
type Stage string

// Pipeline stages in order. StageErrored is reachable from any
// non-terminal stage; StagePersisted is terminal.
const (
	StagePending      Stage = "pending"
	StageExtracting   Stage = "extracting"
	StageExtracted    Stage = "extracted"
	StagePrompting    Stage = "prompting"
	StageGeneratedRaw Stage = "generated_raw"
	StageValidated    Stage = "validated"
	StagePersisted    Stage = "persisted"
	StageErrored      Stage = "errored"
)

// Phase returns the user-facing name of the part of the pipeline a stage
// belongs to: "extraction", "generation", "validation" or "persistence".
func (s Stage) Phase() string {
	switch s {
	case StagePending, StageExtracting, StageExtracted:
		return "extraction"
	case StagePrompting:
		return "generation"
	case StageGeneratedRaw:
		return "validation"
	case StageValidated, StagePersisted:
		return "persistence"
	}
	return ""
}

// StageEvent reports a pipeline transition.
type StageEvent struct {
	URL    string
	PostID string
	Stage  Stage
	Err    error
}

// StageFunc is called on every pipeline transition.
type StageFunc func(StageEvent)

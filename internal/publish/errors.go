package publish

import (
	"errors"
	"fmt"
)

// Sentinel errors for the publish flow.
var (
	ErrNoContent       = errors.New("no content provided")
	ErrAmbiguousSource = errors.New("topic and content are mutually exclusive")
	ErrNoWriter        = errors.New("article generation is not configured")
	ErrNoPlatform      = errors.New("platform credentials are not configured")
)

// Stage names a step of the flow.
type Stage string

// Stages that can abort a run.
const (
	StageArticle Stage = "article"
	StageRender  Stage = "render"
	StageSave    Stage = "save"
	StageDraft   Stage = "draft"
)

// StageError reports the step a run stopped at.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

package session

import (
	"errors"
	"fmt"
)

var (
	// ErrCollaboratorUnavailable matches every CollaboratorError.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

	// ErrExhaustedRotation matches every ExhaustedRotationError.
	ErrExhaustedRotation = errors.New("no unseen task after regenerating")

	// ErrHintLimit is returned once a task's hints are used up.
	ErrHintLimit = errors.New("hint limit reached for this task")

	// ErrUnknownTask is returned when a hint or submission names a task
	// that is not the one currently presented.
	ErrUnknownTask = errors.New("task is not the current task of this session")

	// ErrSessionClosed is returned by every operation after Close.
	ErrSessionClosed = errors.New("session is closed")

	// ErrSessionComplete is returned by Next once all cycles are used.
	ErrSessionComplete = errors.New("all cycles of this session are done")
)

// CollaboratorError wraps a failure of the task store, the generator, the
// analyzer or the attempt store. The cycle it happened in is skipped.
type CollaboratorError struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

func (e *CollaboratorError) Is(target error) bool {
	return target == ErrCollaboratorUnavailable
}

// ExhaustedRotationError reports that every generation attempt for a skill
// returned a task the session had already presented.
type ExhaustedRotationError struct {
	Skill    string
	Attempts int
}

func (e *ExhaustedRotationError) Error() string {
	return fmt.Sprintf("no unseen task for %q after %d generation attempts", e.Skill, e.Attempts)
}

func (e *ExhaustedRotationError) Is(target error) bool {
	return target == ErrExhaustedRotation
}

// IsSkippable reports whether err means "skip this cycle and carry on".
func IsSkippable(err error) bool {
	return errors.Is(err, ErrCollaboratorUnavailable) || errors.Is(err, ErrExhaustedRotation)
}

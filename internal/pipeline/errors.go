package pipeline

import (
	"errors"
	"fmt"
)

// ErrUnanswerable means the model judged the question out of scope for the
// match database. It is user-facing and non-retryable.
var ErrUnanswerable = errors.New("question cannot be answered from the match database")

// Stage identifies which pipeline stage an external dependency failed in.
type Stage string

const (
	StageGeneration Stage = "generation"
	StageExecution  Stage = "execution"
	StageSynthesis  Stage = "synthesis"
)

// StageError wraps an external-dependency failure with the stage it occurred
// in. Callers surface a generic message and log the cause; the wrapped error
// text must never reach the end user.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageError(s Stage, err error) error {
	return &StageError{Stage: s, Err: err}
}

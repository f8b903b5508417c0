package assessment

import (
	"errors"
	"fmt"
)

// Sentinel errors for the assessment pipeline. Workflows wrap them in a
// StageError so logs carry the candidate and interview they belong to.
var (
	ErrResumeNotFound = errors.New("no matching interview or resume data")
	ErrGeneration     = errors.New("model generation failed")
	ErrFormat         = errors.New("unexpected generator output format")
	ErrLengthMismatch = errors.New("given and expected answer counts differ")
	ErrAnswersMissing = errors.New("interview has no answered questions")
	ErrPersistence    = errors.New("interview update was not applied")
)

// StageError annotates a pipeline failure with the workflow stage and the
// interview it concerns. errors.Is sees through it to the sentinel.
type StageError struct {
	Stage       string
	Email       string
	InterviewID int
	Err         error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s (email=%s, interview=%d): %s", e.Stage, e.Email, e.InterviewID, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage, email string, id int, err error) error {
	return &StageError{Stage: stage, Email: email, InterviewID: id, Err: err}
}

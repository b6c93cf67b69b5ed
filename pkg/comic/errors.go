package comic

import (
	"errors"
	"fmt"
)

// Kind classifies a request-level pipeline failure. Analyzer and renderer
// errors are absorbed into degraded output and never carry one of these.
type Kind string

const (
	KindValidation Kind = "VALIDATION_ERROR"
	KindStory      Kind = "STORY_GENERATION_ERROR"
	KindTimeout    Kind = "TIMEOUT"
	KindCritical   Kind = "CRITICAL_FAILURE"
)

// Error is a request-level pipeline failure.
type Error struct {
	Kind    Kind
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.err }

func validationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func storyError(err error) *Error {
	return &Error{Kind: KindStory, Message: fmt.Sprintf("Story Model Failed: %v", err), err: err}
}

func timeoutError(stage string, err error) *Error {
	return &Error{Kind: KindTimeout, Message: fmt.Sprintf("%s timed out", stage), err: err}
}

func criticalError(err error) *Error {
	return &Error{Kind: KindCritical, Message: fmt.Sprint(err), err: err}
}

// KindOf extracts the failure kind from any error returned by the pipeline.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindCritical
}

// MessageOf extracts the caller-facing message from a pipeline error.
func MessageOf(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}

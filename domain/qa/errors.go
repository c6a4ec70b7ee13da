package qa

import (
	"errors"
	"fmt"
)

// Sentinel errors for the pipeline failure taxonomy. Stage-local failures
// (malformed model output, transient call errors) are retried at the stage
// boundary and never cross it raw; what the orchestrator sees is one of
// these.
var (
	// ErrMalformedOutput indicates a model response that failed schema
	// validation. Retryable at the stage boundary.
	ErrMalformedOutput = errors.New("qa: malformed model output")

	// ErrUpstreamUnavailable indicates the model endpoint or database is
	// unreachable.
	ErrUpstreamUnavailable = errors.New("qa: upstream unavailable")
)

// GenerationError indicates an LLM stage exhausted its retries. The user
// sees a generic failure message; the stage name and cause stay in the logs.
type GenerationError struct {
	Stage string
	Err   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("qa: %s stage failed after retries: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying cause.
func (e *GenerationError) Unwrap() error { return e.Err }

// DataIntegrityError indicates a chunk references a subject or lecture with
// no matching record. Fatal to the request; never silently skipped.
type DataIntegrityError struct {
	Kind string
	ID   string
}

// Error implements the error interface.
func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("qa: dangling %s reference %q", e.Kind, e.ID)
}

// ConfigurationError indicates the taxonomy and the persisted subject set
// have diverged. This is a deploy-time invariant, not a per-request failure.
type ConfigurationError struct {
	Label string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("qa: taxonomy label %q has no persisted subject", e.Label)
}

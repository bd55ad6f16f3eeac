package intros

import "errors"

var (
	// ErrValidation means required input is missing or empty. Always a 400;
	// the completion service is never called when validation fails.
	ErrValidation = errors.New("missing or invalid fields")
	// ErrGeneration means the service responded but the generated intro was
	// unusable after trimming.
	ErrGeneration = errors.New("failed to generate intro")
)

// PipelineError reports the stage a pipeline run failed at. It wraps the
// underlying failure so sentinel checks pass through unchanged.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *PipelineError) Unwrap() error { return e.Err }

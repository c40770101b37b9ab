package scoring

import "errors"

// Sentinel error kinds for scoring.
var (
	// ErrModelFailed marks a model call that ran but produced no usable
	// prediction (non-zero exit, unparsable output, rejected request). The
	// pipeline recovers from it with the fallback formula.
	ErrModelFailed = errors.New("model scoring failed")

	// ErrNoModel is returned by the pipeline's model slot when no model is
	// configured. It is treated like ErrModelFailed.
	ErrNoModel = errors.New("no model configured")
)

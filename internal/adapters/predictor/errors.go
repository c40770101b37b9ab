package predictor

import (
	"fmt"

	"github.com/okian/devmatch/internal/domain/scoring"
)

// Recoverable model failures. Both wrap scoring.ErrModelFailed so the
// scoring pipeline falls back to its formula.
var (
	ErrNonZeroExit   = fmt.Errorf("%w: model process exited with non-zero status", scoring.ErrModelFailed)
	ErrInvalidOutput = fmt.Errorf("%w: invalid model output", scoring.ErrModelFailed)
	ErrBadStatus     = fmt.Errorf("%w: model endpoint rejected the request", scoring.ErrModelFailed)
)

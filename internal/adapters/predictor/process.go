// Package predictor adapts external prediction models to scoring.Scorer.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/okian/devmatch/internal/domain/scoring"
	"github.com/okian/devmatch/pkg/logger"
)

// Default model process invocation.
const (
	DefaultCommand = "python3"
	DefaultScript  = "recommendation_model.py"
)

const maxStderrInError = 512

// defaultWaitDelay bounds how long Score waits for the output pipes to close
// after the process was killed. Grandchildren holding stdout would otherwise
// keep Run blocked past the deadline.
const defaultWaitDelay = 500 * time.Millisecond

// ProcessScorer runs one model process per call. The feature record is
// written to stdin as JSON, or appended as the last argument when
// WithInputAsArgument is set.
type ProcessScorer struct {
	command  string
	args     []string
	dir      string
	env      []string
	argInput bool
	logger   logger.Logger
}

// NewProcessScorer creates a scorer running command with args. An empty
// command runs the default script, which reads its input from argv.
func NewProcessScorer(command string, args []string, opts ...ProcessOption) *ProcessScorer {
	argInput := false
	if command == "" {
		command = DefaultCommand
		if len(args) == 0 {
			args = []string{DefaultScript}
			argInput = true
		}
	}
	s := &ProcessScorer{
		command:  command,
		args:     append([]string(nil), args...),
		argInput: argInput,
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score runs the model process once.
//
// A non-zero exit or unusable stdout yields an error wrapping
// scoring.ErrModelFailed. A process that cannot be started, or that is
// killed because ctx ended, yields a plain error.
func (s *ProcessScorer) Score(ctx context.Context, in scoring.Input) (float64, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return 0, fmt.Errorf("encode model input: %w", err)
	}

	args := s.args
	if s.argInput {
		args = append(append([]string(nil), s.args...), string(payload))
	}

	cmd := exec.CommandContext(ctx, s.command, args...)
	// Kill the whole process group on cancel so wrappers and their children go too.
	killProcessGroup(cmd)
	cmd.WaitDelay = defaultWaitDelay
	cmd.Dir = s.dir
	if len(s.env) > 0 {
		cmd.Env = s.env
	}
	if !s.argInput {
		cmd.Stdin = bytes.NewReader(payload)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, fmt.Errorf("model process %s: %w", s.command, ctxErr)
	}

	var exitErr *exec.ExitError
	switch {
	case errors.As(runErr, &exitErr):
		msg := truncate(strings.TrimSpace(stderr.String()), maxStderrInError)
		s.logger.Warn(ctx, "model process failed",
			logger.String("command", s.command),
			logger.Int("exit_code", exitErr.ExitCode()),
			logger.String("stderr", msg),
		)
		return 0, fmt.Errorf("%w: code %d: %s", ErrNonZeroExit, exitErr.ExitCode(), msg)
	case runErr != nil:
		return 0, fmt.Errorf("start model process %s: %w", s.command, runErr)
	}

	pred, err := ParsePrediction(stdout.Bytes())
	if err != nil {
		s.logger.Warn(ctx, "model process produced no prediction",
			logger.String("command", s.command),
			logger.Error(err),
		)
		return 0, err
	}
	return pred, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Invocation reports the command, its fixed arguments and whether the
// feature record is appended as an argument.
func (s *ProcessScorer) Invocation() (string, []string, bool) {
	return s.command, append([]string(nil), s.args...), s.argInput
}

package render

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ivlev/slidecast/internal/probe"
)

// EncoderError carries the failing step and ffmpeg's own diagnostic
// verbatim. The pipeline halts on the first one; no silent fallback.
type EncoderError struct {
	Step   string
	Output string
	Err    error
}

func (e *EncoderError) Error() string {
	return fmt.Sprintf("encoder failed at step %q: %v\n%s", e.Step, e.Err, strings.TrimSpace(e.Output))
}

func (e *EncoderError) Unwrap() error {
	return e.Err
}

// Executor runs a plan's steps against ffmpeg, one at a time. Each
// step's output feeds a later step, so there is no parallelism here.
type Executor struct {
	logger     zerolog.Logger
	ffmpegPath string
}

func NewExecutor(logger zerolog.Logger) (*Executor, error) {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, probe.ErrToolUnavailable
	}

	return &Executor{
		logger:     logger.With().Str("component", "render").Logger(),
		ffmpegPath: path,
	}, nil
}

// Run executes every step in order and stops at the first failure.
func (e *Executor) Run(ctx context.Context, plan *Plan) error {
	for i, step := range plan.Steps {
		e.logger.Info().
			Str("step", step.Name).
			Int("n", i+1).
			Int("of", len(plan.Steps)).
			Msg("encoding")
		e.logger.Debug().Strs("args", step.Args).Msg("ffmpeg")

		cmd := exec.CommandContext(ctx, e.ffmpegPath, step.Args...)
		out, err := cmd.CombinedOutput()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &EncoderError{Step: step.Name, Output: string(out), Err: err}
		}
	}

	e.logger.Info().Str("output", plan.Output).Msg("render complete")
	return nil
}

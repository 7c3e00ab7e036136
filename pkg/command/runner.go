package command

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strconv"
	"time"

	"github.com/cuemby/whale/pkg/events"
	"github.com/cuemby/whale/pkg/log"
	"github.com/cuemby/whale/pkg/metrics"
	"github.com/google/uuid"
)

// Runner executes docker CLI invocations as subprocesses
type Runner struct {
	// Timeout bounds each invocation. Zero means no limit beyond the
	// caller's context.
	Timeout time.Duration

	// Env, when non-nil, replaces the inherited environment of the child.
	Env []string

	publisher events.Publisher
}

// NewRunner creates a new subprocess runner
func NewRunner() *Runner {
	return &Runner{}
}

// WithTimeout sets the per-invocation timeout
func (r *Runner) WithTimeout(timeout time.Duration) *Runner {
	r.Timeout = timeout
	return r
}

// WithEvents publishes a command.failed event for every failed invocation
func (r *Runner) WithEvents(p events.Publisher) *Runner {
	r.publisher = p
	return r
}

// Execute runs args[0] with args[1:] and returns its stdout
func (r *Runner) Execute(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", &ExecutionError{ExitCode: -1, Err: errors.New("empty command")}
	}

	invocationID := uuid.New().String()
	logger := log.WithInvocation(invocationID)
	subcommand := Subcommand(args)
	timer := metrics.NewTimer()

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if r.Env != nil {
		cmd.Env = r.Env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug().Strs("args", args).Msg("Running docker command")
	err := cmd.Run()
	timer.ObserveDurationVec(metrics.CommandDuration, subcommand)

	if err != nil {
		execErr := &ExecutionError{
			Args:     append([]string(nil), args...),
			ExitCode: -1,
			Stderr:   stderr.String(),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			execErr.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			execErr.Err = ctxErr
		}

		metrics.CommandsTotal.WithLabelValues(subcommand, metrics.StatusFailure).Inc()
		logger.Debug().
			Int("exit_code", execErr.ExitCode).
			Dur("duration", timer.Duration()).
			Str("stderr", execErr.Stderr).
			Msg("Docker command failed")
		r.publishFailure(invocationID, subcommand, execErr)
		return "", execErr
	}

	metrics.CommandsTotal.WithLabelValues(subcommand, metrics.StatusSuccess).Inc()
	logger.Debug().
		Dur("duration", timer.Duration()).
		Int("stdout_bytes", stdout.Len()).
		Msg("Docker command completed")

	return stdout.String(), nil
}

func (r *Runner) publishFailure(invocationID, subcommand string, err *ExecutionError) {
	if r.publisher == nil {
		return
	}
	r.publisher.Publish(&events.Event{
		Type:    events.EventCommandFailed,
		Message: err.Error(),
		Metadata: map[string]string{
			"invocation_id": invocationID,
			"subcommand":    subcommand,
			"exit_code":     strconv.Itoa(err.ExitCode),
		},
	})
}

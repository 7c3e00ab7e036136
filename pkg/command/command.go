package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrExecution matches every *ExecutionError via errors.Is.
var ErrExecution = errors.New("command execution failed")

// Executor runs one docker CLI invocation synchronously. args[0] is the
// binary. On success the captured stdout is returned; a non-zero exit is
// reported as *ExecutionError.
type Executor interface {
	Execute(ctx context.Context, args []string) (string, error)
}

// ExecutorFunc adapts a function to the Executor interface
type ExecutorFunc func(ctx context.Context, args []string) (string, error)

// Execute calls f(ctx, args)
func (f ExecutorFunc) Execute(ctx context.Context, args []string) (string, error) {
	return f(ctx, args)
}

// ExecutionError reports a docker CLI invocation that exited non-zero or
// could not be started (ExitCode -1).
type ExecutionError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("command %q exited with code %d", strings.Join(e.Args, " "), e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is interface
func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecution
}

// Subcommand returns the leading non-flag words after the binary, up to
// two (e.g. "context inspect"). Used as a bounded metrics label.
func Subcommand(args []string) string {
	var words []string
	skipValue := false
	for i, arg := range args {
		if i == 0 {
			continue
		}
		if skipValue {
			skipValue = false
			continue
		}
		if strings.HasPrefix(arg, "-") {
			skipValue = globalFlagTakesValue(arg)
			continue
		}
		words = append(words, arg)
		if len(words) == 2 {
			break
		}
	}
	return strings.Join(words, " ")
}

// globalFlagTakesValue reports whether a docker global flag consumes the
// following argument.
func globalFlagTakesValue(flag string) bool {
	if strings.Contains(flag, "=") {
		return false
	}
	switch flag {
	case "--config", "--context", "-c", "--host", "-H", "--log-level", "-l",
		"--tlscacert", "--tlscert", "--tlskey":
		return true
	}
	return false
}

// Package commandtest provides a scripted command.Executor for tests.
package commandtest

import (
	"context"
	"strings"
	"sync"

	"github.com/cuemby/whale/pkg/command"
)

type response struct {
	stdout string
	err    error
}

// Recorder is a command.Executor that answers from a script and records
// every invocation. Responses are keyed by the space-joined argument
// vector. Several responses for one key are served in order and the last
// one repeats. Unscripted commands fail with exit code 127.
type Recorder struct {
	mu        sync.Mutex
	responses map[string][]response
	calls     [][]string
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{responses: make(map[string][]response)}
}

// On scripts a successful invocation of cmdline printing stdout
func (r *Recorder) On(cmdline, stdout string) *Recorder {
	return r.push(cmdline, response{stdout: stdout})
}

// OnError scripts a failing invocation of cmdline
func (r *Recorder) OnError(cmdline string, exitCode int, stderr string) *Recorder {
	return r.push(cmdline, response{err: &command.ExecutionError{
		Args:     strings.Fields(cmdline),
		ExitCode: exitCode,
		Stderr:   stderr,
	}})
}

func (r *Recorder) push(cmdline string, resp response) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[cmdline] = append(r.responses[cmdline], resp)
	return r
}

// Execute implements command.Executor
func (r *Recorder) Execute(_ context.Context, args []string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, append([]string(nil), args...))

	key := strings.Join(args, " ")
	queue := r.responses[key]
	if len(queue) == 0 {
		return "", &command.ExecutionError{
			Args:     append([]string(nil), args...),
			ExitCode: 127,
			Stderr:   "unscripted command: " + key,
		}
	}

	resp := queue[0]
	if len(queue) > 1 {
		r.responses[key] = queue[1:]
	}
	return resp.stdout, resp.err
}

// Calls returns every recorded invocation, space-joined, in order
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = strings.Join(c, " ")
	}
	return out
}

// CallCount returns the total number of invocations
func (r *Recorder) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// Count returns how many times cmdline was invoked
func (r *Recorder) Count(cmdline string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, c := range r.calls {
		if strings.Join(c, " ") == cmdline {
			n++
		}
	}
	return n
}

// Package testutil provides test utilities and helpers for projector tests.
package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/projectorcli/projector/internal/exec"
)

// CallRecord captures one invocation of the recording runner.
type CallRecord struct {
	Method    string // "run" or "output"
	Name      string
	Args      []string
	Dir       string
	Env       []string
	Timestamp time.Time
	Response  string
	ExitCode  int
	Err       error
}

// CommandLine renders the recorded command for assertions.
func (r CallRecord) CommandLine() string {
	return exec.CommandLine(r.Name, r.Args)
}

// stub is a scripted result matched by command-line prefix.
type stub struct {
	prefix   string
	response string
	err      error
}

// RecordingRunner is an exec.Runner fake that records every call and serves
// scripted results. Unmatched commands succeed with empty output.
type RecordingRunner struct {
	mu    sync.Mutex
	calls []CallRecord
	stubs []stub
}

var _ exec.Runner = (*RecordingRunner)(nil)

// NewRecordingRunner creates an empty RecordingRunner.
func NewRecordingRunner() *RecordingRunner {
	return &RecordingRunner{}
}

// Stub scripts the result for commands whose rendered command line starts
// with prefix. Longest matching prefix wins; later stubs win ties.
func (r *RecordingRunner) Stub(prefix, response string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stubs = append(r.stubs, stub{prefix: prefix, response: response, err: err})
}

// Run implements exec.Runner.
func (r *RecordingRunner) Run(ctx context.Context, opts exec.RunOpts, name string, args ...string) error {
	_, err := r.record(ctx, "run", opts, name, args)
	return err
}

// Output implements exec.Runner.
func (r *RecordingRunner) Output(ctx context.Context, opts exec.RunOpts, name string, args ...string) (string, error) {
	return r.record(ctx, "output", opts, name, args)
}

func (r *RecordingRunner) record(ctx context.Context, method string, opts exec.RunOpts, name string, args []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	response, err := r.match(exec.CommandLine(name, args))
	exitCode := 0
	if execErr, ok := err.(*exec.ExecError); ok {
		exitCode = execErr.ExitCode
	} else if err != nil {
		exitCode = 1
	}

	r.calls = append(r.calls, CallRecord{
		Method:    method,
		Name:      name,
		Args:      append([]string(nil), args...),
		Dir:       opts.Dir,
		Env:       append([]string(nil), opts.Env...),
		Timestamp: time.Now(),
		Response:  response,
		ExitCode:  exitCode,
		Err:       err,
	})
	return response, err
}

func (r *RecordingRunner) match(commandLine string) (string, error) {
	best := -1
	for i, s := range r.stubs {
		if !strings.HasPrefix(commandLine, s.prefix) {
			continue
		}
		if best == -1 || len(s.prefix) >= len(r.stubs[best].prefix) {
			best = i
		}
	}
	if best == -1 {
		return "", nil
	}
	return r.stubs[best].response, r.stubs[best].err
}

// Calls returns a copy of the recorded calls in order.
func (r *RecordingRunner) Calls() []CallRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]CallRecord(nil), r.calls...)
}

// CommandLines returns the rendered command line of every recorded call.
func (r *RecordingRunner) CommandLines() []string {
	calls := r.Calls()
	lines := make([]string, 0, len(calls))
	for _, call := range calls {
		lines = append(lines, call.CommandLine())
	}
	return lines
}

// Reset drops all recorded calls, keeping the stubs.
func (r *RecordingRunner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Package exec runs external processes for the projector CLI. It wraps
// os/exec behind a small Runner interface so pipelines can be tested with a
// recording fake, and converts non-zero exits into typed errors carrying the
// exit code.
package exec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// RunOpts carries per-invocation settings.
type RunOpts struct {
	// Dir is the working directory for the process. Empty means the
	// current directory.
	Dir string
	// Env holds extra KEY=value entries appended to the inherited
	// environment.
	Env []string
}

// Runner executes external commands. Implementations must return *ExecError
// for processes that start but exit non-zero.
type Runner interface {
	// Run executes the command, streaming its output.
	Run(ctx context.Context, opts RunOpts, name string, args ...string) error
	// Output executes the command and returns its captured stdout.
	Output(ctx context.Context, opts RunOpts, name string, args ...string) (string, error)
}

// ExecError reports a process that ran and exited non-zero.
type ExecError struct {
	Name     string
	Args     []string
	ExitCode int
	Err      error
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	return fmt.Sprintf("%s exited with status %d", CommandLine(e.Name, e.Args), e.ExitCode)
}

// Unwrap returns the underlying os/exec error.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// CommandRunner is the production Runner. Output streams to the configured
// writers (stdout/stderr by default).
type CommandRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Compile-time interface check.
var _ Runner = (*CommandRunner)(nil)

// NewCommandRunner creates a CommandRunner writing to the process stdio.
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes the command, streaming stdout and stderr.
func (r *CommandRunner) Run(ctx context.Context, opts RunOpts, name string, args ...string) error {
	cmd := r.buildCommand(ctx, opts, name, args)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	log.Info("Executing " + CommandLine(name, args))
	return r.wait(ctx, cmd, name, args)
}

// Output executes the command and returns captured stdout. Stderr is
// captured too and folded into the returned error on failure.
func (r *CommandRunner) Output(ctx context.Context, opts RunOpts, name string, args ...string) (string, error) {
	cmd := r.buildCommand(ctx, opts, name, args)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("Executing " + CommandLine(name, args))
	if err := r.wait(ctx, cmd, name, args); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return stdout.String(), fmt.Errorf("%w: %s", err, msg)
		}
		return stdout.String(), err
	}
	return stdout.String(), nil
}

func (r *CommandRunner) buildCommand(ctx context.Context, opts RunOpts, name string, args []string) *osexec.Cmd {
	cmd := osexec.CommandContext(ctx, name, args...)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	return cmd
}

func (r *CommandRunner) wait(ctx context.Context, cmd *osexec.Cmd, name string, args []string) error {
	err := cmd.Run()
	if err == nil {
		return nil
	}

	// Context cancellation wins over the exit status it caused.
	if ctx.Err() != nil {
		return fmt.Errorf("running %s: %w", name, ctx.Err())
	}

	var exitErr *osexec.ExitError
	if ok := asExitError(err, &exitErr); ok {
		return &ExecError{
			Name:     name,
			Args:     args,
			ExitCode: exitErr.ExitCode(),
			Err:      err,
		}
	}
	return fmt.Errorf("starting %s: %w", name, err)
}

func asExitError(err error, target **osexec.ExitError) bool {
	e, ok := err.(*osexec.ExitError)
	if !ok {
		return false
	}
	*target = e
	return true
}

// LookPath reports whether name resolves to an executable on PATH.
func LookPath(name string) (string, error) {
	return osexec.LookPath(name)
}

// CommandLine renders a command and its arguments for display and logging.
func CommandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

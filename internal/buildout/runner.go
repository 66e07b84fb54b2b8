package buildout

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/projectorcli/projector/internal/exec"
)

// baseArgs are passed to every buildout invocation ahead of the stack's
// tokens.
var baseArgs = []string{"-s"}

// Runner invokes the project's buildout and interpreters through an
// exec.Runner, folding in the ParamStack's current tokens.
type Runner struct {
	exec   exec.Runner
	stack  *ParamStack
	python string
}

// NewRunner creates a Runner. pythonCommand is the system interpreter used
// for bootstrapping (tool config python_command, default "python").
func NewRunner(r exec.Runner, stack *ParamStack, pythonCommand string) *Runner {
	if pythonCommand == "" {
		pythonCommand = "python"
	}
	return &Runner{exec: r, stack: stack, python: pythonCommand}
}

// Stack returns the parameter stack the runner folds into buildout calls.
func (r *Runner) Stack() *ParamStack {
	return r.stack
}

// Buildout runs the project's bin/buildout with the base arguments, the
// stack's current tokens, and args, in that order.
func (r *Runner) Buildout(ctx context.Context, dir string, args ...string) error {
	argv := append([]string{}, baseArgs...)
	argv = append(argv, r.stack.Tokens()...)
	argv = append(argv, args...)
	return r.exec.Run(ctx, exec.RunOpts{Dir: dir}, BuildoutBin(dir), argv...)
}

// Python runs the configured system interpreter in dir. Outside a virtualenv
// (no VIRTUAL_ENV in the environment) -S is inserted so site-packages do not
// leak into the bootstrap.
func (r *Runner) Python(ctx context.Context, dir string, args ...string) error {
	argv := make([]string, 0, len(args)+1)
	if !insideVirtualenv() {
		argv = append(argv, "-S")
	}
	argv = append(argv, args...)
	return r.exec.Run(ctx, exec.RunOpts{Dir: dir}, r.python, argv...)
}

// ProjectPython runs the project's own bin/python.
func (r *Runner) ProjectPython(ctx context.Context, dir string, args ...string) error {
	return r.exec.Run(ctx, exec.RunOpts{Dir: dir}, PythonBin(dir), args...)
}

// EasyInstall runs the project's bin/easy_install.
func (r *Runner) EasyInstall(ctx context.Context, dir string, args ...string) error {
	return r.exec.Run(ctx, exec.RunOpts{Dir: dir}, EasyInstallBin(dir), args...)
}

func insideVirtualenv() bool {
	return os.Getenv("VIRTUAL_ENV") != ""
}

// BuildoutBin returns the path of the project's buildout executable.
func BuildoutBin(dir string) string {
	return filepath.Join(dir, "bin", "buildout"+exeSuffix())
}

// PythonBin returns the path of the project's interpreter.
func PythonBin(dir string) string {
	return filepath.Join(dir, "bin", "python"+exeSuffix())
}

// EasyInstallBin returns the path of the project's easy_install script.
func EasyInstallBin(dir string) string {
	return filepath.Join(dir, "bin", "easy_install"+exeSuffix())
}

// IsolatedPythonBin returns the path of the isolated interpreter that the
// python-distribution section installs.
func IsolatedPythonBin(dir string) string {
	return filepath.Join(dir, "parts", "python", "bin", "python"+exeSuffix())
}

func exeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

// IsExecutable reports whether path exists as a regular file.
func IsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Package prereqs holds the preflight checks commands run before touching a
// project. Checks are cheap and side-effect free; each returns a typed error
// with remediation when its precondition does not hold.
package prereqs

import (
	"os"
	"path/filepath"

	"github.com/projectorcli/projector/internal/buildcfg"
	"github.com/projectorcli/projector/internal/errors"
	"github.com/projectorcli/projector/internal/exec"
)

// EnsureProject verifies that dir contains a buildout.cfg.
func EnsureProject(dir string) error {
	path := filepath.Join(dir, buildcfg.DefaultName)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return errors.NotAProject(dir)
	}
	return nil
}

// EnsureGitCLI verifies that the git binary is on PATH. Most repository
// operations go through the embedded git implementation; merges during a
// release still shell out.
func EnsureGitCLI() error {
	if _, err := exec.LookPath("git"); err != nil {
		return errors.GitCliNotFound()
	}
	return nil
}

// EnsurePython verifies that the configured bootstrap interpreter is on PATH.
func EnsurePython(pythonCommand string) error {
	if pythonCommand == "" {
		pythonCommand = "python"
	}
	if _, err := exec.LookPath(pythonCommand); err != nil {
		return errors.PythonNotFound(pythonCommand)
	}
	return nil
}

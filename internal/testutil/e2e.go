package testutil

import (
	"bytes"
	"fmt"
	"os"
	osexec "os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"
)

var (
	// projectorBinaryPath caches the built projector binary path.
	projectorBinaryPath string
	projectorBuildOnce  sync.Once
	projectorBuildErr   error
)

// E2EEnv is an isolated environment for end-to-end tests: its own HOME, a
// bin directory that leads PATH for stub commands, and a work directory to
// run projector in.
type E2EEnv struct {
	t       *testing.T
	tempDir string
	binDir  string
	workDir string
}

// CommandResult captures one projector invocation.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// NewE2EEnv creates an isolated environment and builds the projector binary
// once per test session.
func NewE2EEnv(t *testing.T) *E2EEnv {
	t.Helper()

	env := &E2EEnv{t: t, tempDir: t.TempDir()}
	env.binDir = filepath.Join(env.tempDir, "bin")
	env.workDir = filepath.Join(env.tempDir, "work")
	for _, dir := range []string{env.binDir, env.workDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("creating %s: %v", dir, err)
		}
	}

	env.buildProjector()
	env.writeGitIdentity()
	return env
}

func (e *E2EEnv) buildProjector() {
	e.t.Helper()

	projectorBuildOnce.Do(func() {
		projectorBinaryPath, projectorBuildErr = buildProjectorBinary()
	})
	if projectorBuildErr != nil {
		e.t.Fatalf("building projector: %v", projectorBuildErr)
	}
}

func buildProjectorBinary() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("determining current file location")
	}
	repoRoot := filepath.Join(filepath.Dir(currentFile), "..", "..")

	tmpDir, err := os.MkdirTemp("", "projector-build-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir for build: %w", err)
	}

	binaryPath := filepath.Join(tmpDir, "projector")
	cmd := osexec.Command("go", "build", "-o", binaryPath, "./cmd/projector")
	cmd.Dir = repoRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("building projector: %w\noutput: %s", err, output)
	}
	return binaryPath, nil
}

// writeGitIdentity gives the isolated HOME a git identity so merge commits
// made through the git CLI succeed.
func (e *E2EEnv) writeGitIdentity() {
	e.t.Helper()

	config := "[user]\n\tname = Projector Test\n\temail = test@projector.test\n" +
		"[init]\n\tdefaultBranch = master\n"
	if err := os.WriteFile(filepath.Join(e.tempDir, ".gitconfig"), []byte(config), 0o644); err != nil {
		e.t.Fatalf("writing .gitconfig: %v", err)
	}
}

// StubCommand installs an executable shell script named name into the
// environment's bin directory, shadowing any real command on PATH.
func (e *E2EEnv) StubCommand(name, script string) {
	e.t.Helper()

	path := filepath.Join(e.binDir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		e.t.Fatalf("writing stub %s: %v", name, err)
	}
}

// WriteFile writes a file under the work directory.
func (e *E2EEnv) WriteFile(name, content string) {
	e.t.Helper()

	path := filepath.Join(e.workDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("writing %s: %v", path, err)
	}
}

// WorkDir returns the directory projector commands run in.
func (e *E2EEnv) WorkDir() string {
	return e.workDir
}

// Path returns an absolute path under the work directory.
func (e *E2EEnv) Path(elem ...string) string {
	return filepath.Join(append([]string{e.workDir}, elem...)...)
}

// Run executes projector with args in the isolated environment.
func (e *E2EEnv) Run(args ...string) CommandResult {
	return e.RunIn(e.workDir, args...)
}

// RunIn executes projector with args in dir.
func (e *E2EEnv) RunIn(dir string, args ...string) CommandResult {
	e.t.Helper()

	start := time.Now()
	cmd := osexec.Command(projectorBinaryPath, args...)
	cmd.Dir = dir
	cmd.Env = e.isolatedEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	result := CommandResult{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if err != nil {
		if exitErr, ok := err.(*osexec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
		}
	}
	return result
}

// Git runs a git command in dir and fails the test on error.
func (e *E2EEnv) Git(dir string, args ...string) string {
	e.t.Helper()

	cmd := osexec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = e.isolatedEnv()
	output, err := cmd.CombinedOutput()
	if err != nil {
		e.t.Fatalf("git %v failed: %v\noutput: %s", args, err, output)
	}
	return string(output)
}

func (e *E2EEnv) isolatedEnv() []string {
	systemPath := os.Getenv("PATH")
	isolatedPath := e.binDir
	if systemPath != "" {
		isolatedPath = e.binDir + string(os.PathListSeparator) + systemPath
	}

	env := []string{
		"PATH=" + isolatedPath,
		"HOME=" + e.tempDir,
		"NO_COLOR=1",
	}
	for _, key := range []string{"TERM", "LANG", "LC_ALL", "TMPDIR"} {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
		}
	}
	return env
}

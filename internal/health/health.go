// Package health implements the environment checks behind 'projector
// doctor'. It verifies that the external tools and project files the build
// pipeline depends on are present, returning a structured report.
package health

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/projectorcli/projector/internal/buildcfg"
	"github.com/projectorcli/projector/internal/buildout"
	"github.com/projectorcli/projector/internal/exec"
	"github.com/projectorcli/projector/internal/output"
)

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Informational checks report state without affecting the overall
	// verdict.
	Informational bool
}

// Report collects all check results.
type Report struct {
	Checks []CheckResult
	Passed bool
}

// Run executes every check against the given project directory and tool
// configuration.
func Run(projectDir, pythonCommand string) *Report {
	report := &Report{Passed: true}

	report.add(checkGitCLI())
	report.add(checkPython(pythonCommand))
	report.add(checkBuildoutConfig(projectDir))
	report.add(checkDownloadCache(projectDir))
	report.add(checkBuildoutExecutable(projectDir))

	return report
}

func (r *Report) add(check CheckResult) {
	r.Checks = append(r.Checks, check)
	if !check.Passed && !check.Informational {
		r.Passed = false
	}
}

func checkGitCLI() CheckResult {
	path, err := exec.LookPath("git")
	if err != nil {
		return CheckResult{
			Name:    "git",
			Passed:  false,
			Message: "git not found in PATH",
		}
	}
	return CheckResult{Name: "git", Passed: true, Message: path}
}

func checkPython(pythonCommand string) CheckResult {
	if pythonCommand == "" {
		pythonCommand = "python"
	}
	path, err := exec.LookPath(pythonCommand)
	if err != nil {
		return CheckResult{
			Name:    "python",
			Passed:  false,
			Message: fmt.Sprintf("%s not found in PATH", pythonCommand),
		}
	}
	return CheckResult{Name: "python", Passed: true, Message: path}
}

func checkBuildoutConfig(projectDir string) CheckResult {
	path := filepath.Join(projectDir, buildcfg.DefaultName)
	var count int
	err := buildcfg.With(path, buildcfg.ReadOnly, func(store *buildcfg.Store) error {
		count = len(store.Sections())
		return nil
	})
	if err != nil {
		return CheckResult{
			Name:    "buildout.cfg",
			Passed:  false,
			Message: err.Error(),
		}
	}
	return CheckResult{
		Name:    "buildout.cfg",
		Passed:  true,
		Message: fmt.Sprintf("%d sections", count),
	}
}

func checkDownloadCache(projectDir string) CheckResult {
	path := filepath.Join(projectDir, buildcfg.DefaultName)
	var cache string
	err := buildcfg.With(path, buildcfg.ReadOnly, func(store *buildcfg.Store) error {
		cache, _ = store.Get("buildout", "download-cache")
		return nil
	})
	if err != nil || cache == "" {
		return CheckResult{
			Name:    "download-cache",
			Passed:  false,
			Message: "not configured in the [buildout] section",
		}
	}
	return CheckResult{Name: "download-cache", Passed: true, Message: cache}
}

// checkBuildoutExecutable is informational: a fresh checkout legitimately
// has no bin/buildout until the first build.
func checkBuildoutExecutable(projectDir string) CheckResult {
	bin := buildout.BuildoutBin(projectDir)
	if !buildout.IsExecutable(bin) {
		return CheckResult{
			Name:          "bin/buildout",
			Passed:        false,
			Informational: true,
			Message:       "missing; run 'projector build scripts' to bootstrap",
		}
	}
	return CheckResult{
		Name:          "bin/buildout",
		Passed:        true,
		Informational: true,
		Message:       bin,
	}
}

// Format renders the report for console output.
func Format(report *Report, symbols output.Symbols) string {
	var b strings.Builder
	for _, check := range report.Checks {
		mark := symbols.Checkmark
		if !check.Passed {
			mark = symbols.Failure
			if check.Informational {
				mark = symbols.Arrow
			}
		}
		fmt.Fprintf(&b, "%s %s: %s\n", mark, check.Name, check.Message)
	}
	if report.Passed {
		fmt.Fprintf(&b, "\n%s environment looks good\n", symbols.Checkmark)
	} else {
		fmt.Fprintf(&b, "\n%s some checks failed\n", symbols.Failure)
	}
	return b.String()
}

//go:build e2e

// Package e2e exercises the projector binary end to end.
//
// To run these tests:
//
//	go test -tags=e2e ./tests/e2e/...
package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectorcli/projector/internal/testutil"
)

func TestBasicCommands(t *testing.T) {
	tests := map[string]struct {
		args          []string
		wantExitCode  int
		wantStdoutSub string
		wantStderrSub string
	}{
		"version": {
			args:          []string{"version"},
			wantExitCode:  0,
			wantStdoutSub: "projector",
		},
		"help": {
			args:          []string{"--help"},
			wantExitCode:  0,
			wantStdoutSub: "projector",
		},
		"unknown command": {
			args:          []string{"frobnicate"},
			wantExitCode:  1,
			wantStderrSub: "frobnicate",
		},
		"build scripts outside a project": {
			args:          []string{"build", "scripts"},
			wantExitCode:  1,
			wantStderrSub: "no buildout.cfg found",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env := testutil.NewE2EEnv(t)
			// A stub python keeps the preflight check independent of the
			// host.
			env.StubCommand("python", "exit 0")

			result := env.Run(tt.args...)

			require.Equal(t, tt.wantExitCode, result.ExitCode,
				"unexpected exit code\nstdout: %s\nstderr: %s", result.Stdout, result.Stderr)
			if tt.wantStdoutSub != "" {
				assert.Contains(t, result.Stdout, tt.wantStdoutSub)
			}
			if tt.wantStderrSub != "" {
				assert.Contains(t, result.Stderr, tt.wantStderrSub)
			}
		})
	}
}

func TestConfigCommands(t *testing.T) {
	env := testutil.NewE2EEnv(t)

	result := env.Run("config", "init")
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)

	result = env.Run("config", "init")
	require.Equal(t, 1, result.ExitCode, "second init must refuse to overwrite")
	assert.Contains(t, result.Stderr, "already exists")

	result = env.Run("config", "init", "--force")
	require.Equal(t, 0, result.ExitCode)

	result = env.Run("config", "show")
	require.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Stdout, "python_command")
}

func TestDoctorFailsOutsideProject(t *testing.T) {
	env := testutil.NewE2EEnv(t)
	env.StubCommand("python", "exit 0")

	result := env.Run("doctor")
	require.Equal(t, 1, result.ExitCode)
	assert.Contains(t, result.Stdout, "buildout.cfg")
}

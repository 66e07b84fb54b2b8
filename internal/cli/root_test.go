package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and restores the global flag state
// afterwards.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		flagConfig = ""
		flagProjectDir = "."
		flagSkipPreflight = false
		flagDebug = false
		flagVerbose = false
		rootCmd.SetArgs(nil)
	})

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmdStructure(t *testing.T) {
	assert.Equal(t, "projector", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotEmpty(t, rootCmd.Example)
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)
}

func TestRootCmdPersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "project-dir", "skip-preflight", "debug", "verbose"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "flag %s should exist", name)
	}
}

func TestRootCmdSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, name := range []string{"build", "repository", "config", "doctor", "version"} {
		assert.True(t, names[name], "should have %s command", name)
	}
}

func TestBuildSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range buildCmd.Commands() {
		names[cmd.Name()] = true
	}

	assert.True(t, names["scripts"])
	assert.True(t, names["relocate"])
	assert.True(t, names["watch"])
}

func TestWatchSharesScriptsFlags(t *testing.T) {
	for _, name := range []string{"clean", "force-bootstrap", "no-submodules", "no-setup-py",
		"no-scripts", "no-readline", "use-isolated-python", "newest", "offline"} {
		assert.NotNil(t, buildScriptsCmd.Flags().Lookup(name), "scripts should have --%s", name)
		assert.NotNil(t, buildWatchCmd.Flags().Lookup(name), "watch should have --%s", name)
	}
}

func TestRelocateRequiresExactlyOneMode(t *testing.T) {
	tests := map[string][]string{
		"neither": {"build", "relocate"},
		"both":    {"build", "relocate", "--absolute", "--relative"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "exactly one of --absolute or --relative")

			// Flag values persist on the global command; reset for the next
			// case.
			require.NoError(t, buildRelocateCmd.Flags().Set("absolute", "false"))
			require.NoError(t, buildRelocateCmd.Flags().Set("relative", "false"))
		})
	}
}

func TestRepositoryInitArgCount(t *testing.T) {
	_, err := execute(t, "repository", "init", "only.two", "args")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 4 arg(s)")
}

func TestRepositoryCloneArgCount(t *testing.T) {
	_, err := execute(t, "repository", "clone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "projector")
	assert.Contains(t, out, "commit")
}

func TestConfigInitWritesTemplate(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "--project-dir", dir, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	path := filepath.Join(dir, ".projector", "config.yml")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "python_command")

	// Refuses to overwrite without --force.
	_, err = execute(t, "--project-dir", dir, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "--project-dir", dir, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigShowPrintsEffectiveConfig(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "--project-dir", dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "python_command: python")
	assert.Contains(t, out, "master_branch: master")
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, ExitSuccess)
	assert.Equal(t, 1, ExitFailure)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProjectConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(ProjectConfigDir(dir), 0o755))
	require.NoError(t, os.WriteFile(ProjectConfigPath(dir), []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "python", cfg.PythonCommand)
	assert.True(t, cfg.ShowProgress)
	assert.Equal(t, "master", cfg.Flow.MasterBranch)
	assert.Equal(t, "develop", cfg.Flow.DevelopBranch)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoadProjectConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeProjectConfig(t, dir, "python_command: python3\nflow:\n  develop_branch: dev\n")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "python3", cfg.PythonCommand)
	assert.Equal(t, "dev", cfg.Flow.DevelopBranch)
	assert.Equal(t, "master", cfg.Flow.MasterBranch, "untouched keys keep defaults")
}

func TestLoadEnvironmentBeatsProjectFile(t *testing.T) {
	dir := t.TempDir()
	writeProjectConfig(t, dir, "python_command: python3\n")
	t.Setenv("PROJECTOR_PYTHON_COMMAND", "python3.11")
	t.Setenv("PROJECTOR_FLOW__MASTER_BRANCH", "main")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "python3.11", cfg.PythonCommand)
	assert.Equal(t, "main", cfg.Flow.MasterBranch)
}

func TestLoadExplicitFileWins(t *testing.T) {
	dir := t.TempDir()
	writeProjectConfig(t, dir, "python_command: python3\n")
	explicit := filepath.Join(t.TempDir(), "override.yml")
	require.NoError(t, os.WriteFile(explicit, []byte("python_command: pypy\n"), 0o644))

	cfg, err := LoadWithOptions(LoadOptions{ProjectDir: dir, ExplicitPath: explicit})
	require.NoError(t, err)

	assert.Equal(t, "pypy", cfg.PythonCommand)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	_, err := LoadWithOptions(LoadOptions{
		ProjectDir:   t.TempDir(),
		ExplicitPath: "/nonexistent/config.yml",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadLegacyJSONProjectConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(ProjectConfigDir(dir), 0o755))
	legacy := LegacyProjectConfigPath(dir)
	require.NoError(t, os.WriteFile(legacy, []byte(`{"python_command": "python2.7"}`), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "python2.7", cfg.PythonCommand)
}

func TestLoadInvalidYAMLReportsParseError(t *testing.T) {
	dir := t.TempDir()
	writeProjectConfig(t, dir, "python_command: [unclosed\n")

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		mutate  func(*Config)
		wantErr string
	}{
		"valid defaults": {
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		"empty python command": {
			mutate:  func(c *Config) { c.PythonCommand = "" },
			wantErr: "python_command",
		},
		"equal branches": {
			mutate:  func(c *Config) { c.Flow.DevelopBranch = c.Flow.MasterBranch },
			wantErr: "must differ",
		},
		"zero debounce": {
			mutate:  func(c *Config) { c.Watch.Debounce = 0 },
			wantErr: "debounce",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(t.TempDir())
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
		})
	}
}

func TestRenderRoundTrips(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	out, err := cfg.Render()
	require.NoError(t, err)
	assert.Contains(t, out, "python_command: python")
	assert.Contains(t, out, "master_branch: master")
}

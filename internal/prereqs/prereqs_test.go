package prereqs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureProject(t *testing.T) {
	dir := t.TempDir()

	err := EnsureProject(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no buildout.cfg found")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "buildout.cfg"), []byte("[buildout]\n"), 0o644))
	assert.NoError(t, EnsureProject(dir))
}

func TestEnsureProjectRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "buildout.cfg"), 0o755))

	assert.Error(t, EnsureProject(dir))
}

func TestEnsurePythonMissingCommand(t *testing.T) {
	err := EnsurePython("definitely-not-an-interpreter")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely-not-an-interpreter command not found")
}

func TestEnsurePythonDefaultsCommandName(t *testing.T) {
	// An empty configured command falls back to "python"; whichever way the
	// lookup goes, the error must name the resolved command, not the empty
	// string.
	if err := EnsurePython(""); err != nil {
		assert.Contains(t, err.Error(), "python command not found")
	}
}

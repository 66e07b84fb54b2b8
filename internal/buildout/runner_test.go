package buildout

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectorcli/projector/internal/testutil"
)

func TestBuildoutArgumentOrder(t *testing.T) {
	runner := testutil.NewRecordingRunner()
	stack := NewParamStack()
	b := NewRunner(runner, stack, "python")

	scope := stack.Activate("-n", "buildout:develop=")
	defer scope.Release()

	require.NoError(t, b.Buildout(context.Background(), "/proj", "install", "setup.py"))

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, filepath.Join("/proj", "bin", "buildout"), calls[0].Name)
	assert.Equal(t, []string{"-s", "-n", "buildout:develop=", "install", "setup.py"}, calls[0].Args)
	assert.Equal(t, "/proj", calls[0].Dir)
}

func TestBuildoutReflectsStackAtCallTime(t *testing.T) {
	runner := testutil.NewRecordingRunner()
	stack := NewParamStack()
	b := NewRunner(runner, stack, "python")
	ctx := context.Background()

	scope := stack.Activate("-o")
	require.NoError(t, b.Buildout(ctx, ".", "install", "sub"))
	scope.Release()
	require.NoError(t, b.Buildout(ctx, ".", "install", "sub"))

	calls := runner.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"-s", "-o", "install", "sub"}, calls[0].Args)
	assert.Equal(t, []string{"-s", "install", "sub"}, calls[1].Args, "released token must not leak")
}

func TestPythonInsertsNoSiteFlagOutsideVirtualenv(t *testing.T) {
	runner := testutil.NewRecordingRunner()
	b := NewRunner(runner, NewParamStack(), "python")

	t.Setenv("VIRTUAL_ENV", "")
	require.NoError(t, b.Python(context.Background(), ".", "bootstrap.py", "-d", "-t"))

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "python", calls[0].Name)
	assert.Equal(t, []string{"-S", "bootstrap.py", "-d", "-t"}, calls[0].Args)
}

func TestPythonOmitsNoSiteFlagInsideVirtualenv(t *testing.T) {
	runner := testutil.NewRecordingRunner()
	b := NewRunner(runner, NewParamStack(), "python3")

	t.Setenv("VIRTUAL_ENV", "/home/user/.venv")
	require.NoError(t, b.Python(context.Background(), ".", "bootstrap.py", "-d", "-t"))

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "python3", calls[0].Name)
	assert.Equal(t, []string{"bootstrap.py", "-d", "-t"}, calls[0].Args)
}

func TestDefaultPythonCommand(t *testing.T) {
	b := NewRunner(testutil.NewRecordingRunner(), NewParamStack(), "")
	assert.Equal(t, "python", b.python)
}

func TestBinPaths(t *testing.T) {
	assert.Equal(t, filepath.Join("p", "bin", "buildout"), BuildoutBin("p"))
	assert.Equal(t, filepath.Join("p", "bin", "python"), PythonBin("p"))
	assert.Equal(t, filepath.Join("p", "bin", "easy_install"), EasyInstallBin("p"))
	assert.Equal(t, filepath.Join("p", "parts", "python", "bin", "python"), IsolatedPythonBin("p"))
}

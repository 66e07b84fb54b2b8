package gitflow

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectorcli/projector/internal/git"
	"github.com/projectorcli/projector/internal/testutil"
)

func newFlowRepo(t *testing.T) (*Flow, *git.Repository, *testutil.RecordingRunner) {
	t.Helper()
	repo, err := git.Init(t.TempDir(), "master")
	require.NoError(t, err)
	runner := testutil.NewRecordingRunner()
	return New(runner, "master", "develop"), repo, runner
}

func TestInitOnEmptyRepository(t *testing.T) {
	flow, repo, _ := newFlowRepo(t)

	require.NoError(t, flow.Init(context.Background(), repo))

	assert.True(t, repo.HasCommits(), "flow init creates the initial commit")
	assert.True(t, repo.BranchExists("master"))
	assert.True(t, repo.BranchExists("develop"))

	branch, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "develop", branch)
}

func TestInitIsIdempotent(t *testing.T) {
	flow, repo, _ := newFlowRepo(t)
	ctx := context.Background()

	require.NoError(t, flow.Init(ctx, repo))
	require.NoError(t, flow.Init(ctx, repo))

	branch, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "develop", branch)
}

func TestReleaseVersion(t *testing.T) {
	flow, repo, runner := newFlowRepo(t)
	ctx := context.Background()
	require.NoError(t, flow.Init(ctx, repo))

	require.NoError(t, flow.ReleaseVersion(ctx, repo, "v0"))

	assert.True(t, repo.TagExists("v0"))
	assert.True(t, repo.TagExists("v0-develop"))
	assert.False(t, repo.BranchExists("release/v0"), "release branch is deleted after the finish")

	branch, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "develop", branch)

	// Both merge sides go through the git CLI.
	var merges []string
	for _, line := range runner.CommandLines() {
		if strings.HasPrefix(line, "git merge") {
			merges = append(merges, line)
		}
	}
	require.Len(t, merges, 2)
	assert.Contains(t, merges[0], "Merge branch 'release/v0'")
}

func TestReleaseVersionCustomBranchNames(t *testing.T) {
	repo, err := git.Init(t.TempDir(), "main")
	require.NoError(t, err)
	flow := New(testutil.NewRecordingRunner(), "main", "dev")
	ctx := context.Background()

	require.NoError(t, flow.Init(ctx, repo))
	require.NoError(t, flow.ReleaseVersion(ctx, repo, "v0"))

	branch, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "dev", branch)
	assert.True(t, repo.TagExists("v0"))
}

// Package gitflow implements the subset of the git-flow branching model
// projector uses: flow initialization with forced defaults and the release
// cut that produces the initial version tags. Branch and tag operations run
// through the git package; merges go through the git CLI, which go-git does
// not generally support.
package gitflow

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/projectorcli/projector/internal/errors"
	"github.com/projectorcli/projector/internal/exec"
	"github.com/projectorcli/projector/internal/git"
)

// Branch prefixes recorded in the repository config, matching git-flow's
// forced defaults.
var prefixes = map[string]string{
	"feature":    "feature/",
	"release":    "release/",
	"hotfix":     "hotfix/",
	"support":    "support/",
	"versiontag": "",
}

// Flow drives the branching model for one repository.
type Flow struct {
	runner  exec.Runner
	master  string
	develop string
}

// New creates a Flow. master and develop are the long-lived branch names
// (tool config flow.master_branch / flow.develop_branch).
func New(runner exec.Runner, master, develop string) *Flow {
	return &Flow{runner: runner, master: master, develop: develop}
}

// MasterBranch returns the production branch name.
func (f *Flow) MasterBranch() string {
	return f.master
}

// DevelopBranch returns the integration branch name.
func (f *Flow) DevelopBranch() string {
	return f.develop
}

// Init initializes the flow with forced defaults: ensures at least one
// commit exists, ensures the develop branch exists, records the flow
// configuration in the repository, and leaves develop checked out.
func (f *Flow) Init(ctx context.Context, repo *git.Repository) error {
	log.Debug("gitflow init", "dir", repo.Dir())

	if !repo.HasCommits() {
		if _, err := repo.Commit("Initial commit", true); err != nil {
			return errors.Wrap(err, errors.VCS)
		}
	}

	if !repo.BranchExists(f.develop) {
		if repo.BranchExists(f.master) {
			if err := repo.Checkout(f.master); err != nil {
				return errors.CheckoutFailed(f.master, err)
			}
		}
		if err := repo.CreateBranch(f.develop); err != nil {
			return errors.Wrap(err, errors.VCS)
		}
	} else if err := repo.Checkout(f.develop); err != nil {
		return errors.CheckoutFailed(f.develop, err)
	}

	if err := f.recordConfig(repo); err != nil {
		return err
	}
	return nil
}

// recordConfig writes the flow branch names and prefixes into the repo
// config, the way git-flow init does.
func (f *Flow) recordConfig(repo *git.Repository) error {
	if err := repo.SetConfigOption("gitflow", "branch", "master", f.master); err != nil {
		return errors.Wrap(err, errors.VCS)
	}
	if err := repo.SetConfigOption("gitflow", "branch", "develop", f.develop); err != nil {
		return errors.Wrap(err, errors.VCS)
	}
	for key, value := range prefixes {
		if err := repo.SetConfigOption("gitflow", "prefix", key, value); err != nil {
			return errors.Wrap(err, errors.VCS)
		}
	}
	return nil
}

// ReleaseVersion cuts and finishes a release through the flow: the release
// branch is created from develop, merged into master (tagged there with an
// annotated tag), merged back into develop, and deleted. The develop side
// then gets an empty marker commit and a lightweight <tag>-develop tag.
func (f *Flow) ReleaseVersion(ctx context.Context, repo *git.Repository, tag string) error {
	log.Debug("gitflow release", "tag", tag)
	release := prefixes["release"] + tag

	if err := repo.Checkout(f.develop); err != nil {
		return errors.CheckoutFailed(f.develop, err)
	}
	if err := repo.CreateBranch(release); err != nil {
		return errors.Wrap(err, errors.VCS)
	}

	if err := repo.Checkout(f.master); err != nil {
		return errors.CheckoutFailed(f.master, err)
	}
	if err := f.merge(ctx, repo, release); err != nil {
		return err
	}
	if err := repo.CreateAnnotatedTag(tag, tag); err != nil {
		return errors.Wrap(err, errors.VCS)
	}

	if err := repo.Checkout(f.develop); err != nil {
		return errors.CheckoutFailed(f.develop, err)
	}
	if err := f.merge(ctx, repo, release); err != nil {
		return err
	}
	if err := repo.DeleteBranch(release); err != nil {
		return errors.Wrap(err, errors.VCS)
	}

	message := fmt.Sprintf("empty commit after version %s", tag)
	if _, err := repo.Commit(message, true); err != nil {
		return errors.Wrap(err, errors.VCS)
	}
	if err := repo.CreateTag(tag + "-develop"); err != nil {
		return errors.Wrap(err, errors.VCS)
	}
	return nil
}

// merge merges branch into the checked-out branch via the git CLI.
// Fast-forward and already-up-to-date merges exit zero and need no handling.
func (f *Flow) merge(ctx context.Context, repo *git.Repository, branch string) error {
	message := fmt.Sprintf("Merge branch '%s'", branch)
	err := f.runner.Run(ctx, exec.RunOpts{Dir: repo.Dir()},
		"git", "merge", "--no-ff", "-m", message, branch)
	if err != nil {
		return errors.WrapWithMessage(err, errors.VCS,
			fmt.Sprintf("merging %s", branch),
			"Resolve the merge by hand, then re-run")
	}
	return nil
}

// Package git wraps the go-git library with the repository operations
// projector needs: init, clone, checkout, staging, commits, tags, remotes,
// and repo-local configuration. Everything runs in-process; the git CLI is
// only needed for merges, which live in the gitflow package.
package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repository is a handle on one local git repository.
type Repository struct {
	repo *gogit.Repository
	dir  string
}

// IsRepository reports whether dir contains a .git directory.
func IsRepository(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, gogit.GitDirName))
	return err == nil && info.IsDir()
}

// Init creates a new repository in dir with HEAD pointing at defaultBranch.
func Init(dir, defaultBranch string) (*Repository, error) {
	log.Debug("git init", "dir", dir, "branch", defaultBranch)
	repo, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName(defaultBranch),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("initializing repository in %s: %w", dir, err)
	}
	return &Repository{repo: repo, dir: dir}, nil
}

// Open opens an existing repository rooted at dir.
func Open(dir string) (*Repository, error) {
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", dir, err)
	}
	return &Repository{repo: repo, dir: dir}, nil
}

// Clone clones origin into dir.
func Clone(ctx context.Context, dir, origin string) (*Repository, error) {
	log.Debug("git clone", "origin", origin, "dir", dir)
	repo, err := gogit.PlainCloneContext(ctx, dir, false, &gogit.CloneOptions{
		URL: origin,
	})
	if err != nil {
		return nil, fmt.Errorf("cloning %s: %w", origin, err)
	}
	return &Repository{repo: repo, dir: dir}, nil
}

// Dir returns the repository root.
func (r *Repository) Dir() string {
	return r.dir
}

// AddRemote registers a named remote.
func (r *Repository) AddRemote(name, url string) error {
	_, err := r.repo.CreateRemote(&config.RemoteConfig{
		Name: name,
		URLs: []string{url},
	})
	if err != nil {
		return fmt.Errorf("adding remote %s: %w", name, err)
	}
	return nil
}

// Checkout switches the worktree to a branch or tag. A local branch wins;
// when only a remote-tracking branch of that name exists, a local branch is
// created from it. Untracked files are kept.
func (r *Repository) Checkout(name string) error {
	log.Debug("git checkout", "ref", name)
	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	branchRef := plumbing.NewBranchReferenceName(name)
	if _, err := r.repo.Reference(branchRef, false); err == nil {
		return worktree.Checkout(&gogit.CheckoutOptions{Branch: branchRef, Keep: true})
	}

	remoteRef := plumbing.NewRemoteReferenceName("origin", name)
	if ref, err := r.repo.Reference(remoteRef, true); err == nil {
		return worktree.Checkout(&gogit.CheckoutOptions{
			Hash:   ref.Hash(),
			Branch: branchRef,
			Create: true,
			Keep:   true,
		})
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(name))
	if err != nil {
		return fmt.Errorf("reference %q not found: %w", name, err)
	}
	return worktree.Checkout(&gogit.CheckoutOptions{Hash: *hash, Keep: true})
}

// CreateBranch creates a branch at HEAD and checks it out.
func (r *Repository) CreateBranch(name string) error {
	log.Debug("git branch", "name", name)
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD: %w", err)
	}
	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	err = worktree.Checkout(&gogit.CheckoutOptions{
		Hash:   head.Hash(),
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
		Keep:   true,
	})
	if err != nil {
		return fmt.Errorf("creating branch %s: %w", name, err)
	}
	return nil
}

// DeleteBranch removes a local branch reference.
func (r *Repository) DeleteBranch(name string) error {
	err := r.repo.Storer.RemoveReference(plumbing.NewBranchReferenceName(name))
	if err != nil {
		return fmt.Errorf("deleting branch %s: %w", name, err)
	}
	return nil
}

// BranchExists reports whether a local branch with that name exists.
func (r *Repository) BranchExists(name string) bool {
	_, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), false)
	return err == nil
}

// CurrentBranch returns the checked-out branch name, or "" for detached HEAD.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", nil
	}
	return head.Name().Short(), nil
}

// HasCommits reports whether the repository has at least one commit.
func (r *Repository) HasCommits() bool {
	_, err := r.repo.Head()
	return err == nil
}

// HeadHash returns the hash HEAD points at.
func (r *Repository) HeadHash() (plumbing.Hash, error) {
	head, err := r.repo.Head()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("getting HEAD: %w", err)
	}
	return head.Hash(), nil
}

// AddAll stages every change in the worktree.
func (r *Repository) AddAll() error {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	if err := worktree.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return fmt.Errorf("staging all changes: %w", err)
	}
	return nil
}

// AddPath stages a single path.
func (r *Repository) AddPath(path string) error {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	if _, err := worktree.Add(path); err != nil {
		return fmt.Errorf("staging %s: %w", path, err)
	}
	return nil
}

// Commit records the staged state. The author comes from the git config,
// falling back to a fixed tool identity when none is set.
func (r *Repository) Commit(message string, allowEmpty bool) (plumbing.Hash, error) {
	log.Debug("git commit", "message", message)
	worktree, err := r.repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("getting worktree: %w", err)
	}
	hash, err := worktree.Commit(message, &gogit.CommitOptions{
		Author:            r.signature(),
		AllowEmptyCommits: allowEmpty,
	})
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("committing %q: %w", message, err)
	}
	return hash, nil
}

// CreateTag creates a lightweight tag at HEAD.
func (r *Repository) CreateTag(name string) error {
	head, err := r.HeadHash()
	if err != nil {
		return err
	}
	if _, err := r.repo.CreateTag(name, head, nil); err != nil {
		return fmt.Errorf("creating tag %s: %w", name, err)
	}
	return nil
}

// CreateAnnotatedTag creates an annotated tag at HEAD.
func (r *Repository) CreateAnnotatedTag(name, message string) error {
	head, err := r.HeadHash()
	if err != nil {
		return err
	}
	_, err = r.repo.CreateTag(name, head, &gogit.CreateTagOptions{
		Tagger:  r.signature(),
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("creating annotated tag %s: %w", name, err)
	}
	return nil
}

// TagExists reports whether a tag with that name exists.
func (r *Repository) TagExists(name string) bool {
	_, err := r.repo.Reference(plumbing.NewTagReferenceName(name), false)
	return err == nil
}

// SetConfigOption writes one option into the repository configuration.
// subsection may be empty.
func (r *Repository) SetConfigOption(section, subsection, key, value string) error {
	cfg, err := r.repo.Config()
	if err != nil {
		return fmt.Errorf("reading repository config: %w", err)
	}
	if subsection == "" {
		cfg.Raw.Section(section).SetOption(key, value)
	} else {
		cfg.Raw.Section(section).Subsection(subsection).SetOption(key, value)
	}
	if err := r.repo.SetConfig(cfg); err != nil {
		return fmt.Errorf("writing repository config: %w", err)
	}
	return nil
}

// IsClean reports whether the worktree has no uncommitted changes.
func (r *Repository) IsClean() (bool, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("reading worktree status: %w", err)
	}
	return status.IsClean(), nil
}

// signature builds the commit author, preferring the user's git config.
func (r *Repository) signature() *object.Signature {
	name, email := "projector", "projector@localhost"
	if cfg, err := r.repo.ConfigScoped(config.GlobalScope); err == nil {
		if cfg.User.Name != "" {
			name = cfg.User.Name
		}
		if cfg.User.Email != "" {
			email = cfg.User.Email
		}
	}
	return &object.Signature{Name: name, Email: email, When: time.Now()}
}

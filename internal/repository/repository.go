// Package repository implements the project scaffolding pipelines: init
// creates a new git-flow project with a full skeleton, clone fetches an
// existing one and prepares it for development.
package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/projectorcli/projector/internal/buildcfg"
	"github.com/projectorcli/projector/internal/errors"
	"github.com/projectorcli/projector/internal/exec"
	"github.com/projectorcli/projector/internal/git"
	"github.com/projectorcli/projector/internal/gitflow"
	"github.com/projectorcli/projector/internal/skeleton"
)

// InitialVersionTag is the release cut right after init.
const InitialVersionTag = "v0"

// namespaceInit is the content of every namespace-package __init__.py.
const namespaceInit = `__import__("pkg_resources").declare_namespace(__name__)` + "\n"

// InitOptions carries the arguments of repository init.
type InitOptions struct {
	Name             string
	Origin           string
	ShortDescription string
	LongDescription  string
	Mkdir            bool
}

// Pipeline runs the repository commands.
type Pipeline struct {
	flow   *gitflow.Flow
	runner exec.Runner
}

// New creates a Pipeline. The runner is only used for the merges inside the
// flow's release finish.
func New(runner exec.Runner, flow *gitflow.Flow) *Pipeline {
	return &Pipeline{flow: flow, runner: runner}
}

// Namespaces derives the ordered strict dotted prefixes of a project name:
// "a.b.c" yields ["a", "a.b"]. A name without dots has no namespaces.
func Namespaces(name string) []string {
	var namespaces []string
	parts := strings.Split(name, ".")
	for _, item := range parts[:len(parts)-1] {
		if len(namespaces) == 0 {
			namespaces = append(namespaces, item)
			continue
		}
		namespaces = append(namespaces, namespaces[len(namespaces)-1]+"."+item)
	}
	return namespaces
}

// PackageDirs returns the src/ subdirectories to create: every namespace
// plus the full name, dots replaced with the path separator.
func PackageDirs(name string) []string {
	dirs := make([]string, 0, 4)
	for _, ns := range append(Namespaces(name), name) {
		dirs = append(dirs, strings.ReplaceAll(ns, ".", string(os.PathSeparator)))
	}
	return dirs
}

// DirName derives the directory a project is created in from its name or
// origin URL: a .git suffix is trimmed and the last path element taken.
func DirName(source string) string {
	source = strings.TrimSuffix(source, ".git")
	source = strings.TrimRight(source, "/")
	if idx := strings.LastIndex(source, "/"); idx >= 0 {
		source = source[idx+1:]
	}
	return source
}

// versionFilePath is the forward-slash path of the generated version file.
func versionFilePath(name string) string {
	return strings.Join(append([]string{"src"}, append(strings.Split(name, "."), "__version__.py")...), "/")
}

// generateUpgradeCode returns a fresh time-based UUID in braces, the format
// Windows installers expect for upgrade codes.
func generateUpgradeCode() (string, error) {
	id, err := uuid.NewUUID()
	if err != nil {
		return "", fmt.Errorf("generating upgrade code: %w", err)
	}
	return "{" + id.String() + "}", nil
}

// indent joins a multi-line description with tab-indented continuation
// lines, the form ini multi-line values use.
func indent(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i == 0 {
			continue
		}
		lines[i] = "\t" + line
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Init creates a new project in dir (or a subdirectory of it with Mkdir).
// It returns the directory the project was created in.
func (p *Pipeline) Init(ctx context.Context, dir string, opts InitOptions) (string, error) {
	target := dir
	if opts.Mkdir {
		sub, err := makeProjectDir(dir, DirName(opts.Name))
		if err != nil {
			return "", err
		}
		target = sub
	}

	if git.IsRepository(target) {
		return "", errors.AlreadyARepository()
	}

	log.Info("Initializing repository", "name", opts.Name, "dir", target)

	repo, err := git.Init(target, p.flow.MasterBranch())
	if err != nil {
		return "", errors.Wrap(err, errors.VCS)
	}
	if err := repo.AddRemote("origin", opts.Origin); err != nil {
		return "", errors.Wrap(err, errors.VCS)
	}

	if err := p.flow.Init(ctx, repo); err != nil {
		return "", err
	}
	if err := p.flow.ReleaseVersion(ctx, repo, InitialVersionTag); err != nil {
		return "", err
	}
	if err := repo.Checkout(p.flow.DevelopBranch()); err != nil {
		return "", errors.CheckoutFailed(p.flow.DevelopBranch(), err)
	}

	if err := skeleton.Install(target); err != nil {
		return "", errors.Wrap(err, errors.Precondition)
	}
	if err := writeProjectConfig(target, opts); err != nil {
		return "", err
	}
	if err := generateSrc(target, opts.Name); err != nil {
		return "", err
	}
	if err := appendToGitignore(target, versionFilePath(opts.Name)); err != nil {
		return "", err
	}

	if err := repo.AddAll(); err != nil {
		return "", errors.Wrap(err, errors.VCS)
	}
	if _, err := repo.Commit("added all project files", false); err != nil {
		return "", errors.Wrap(err, errors.VCS)
	}
	return target, nil
}

// Clone fetches origin into a new subdirectory of dir, checks out develop,
// and initializes the flow. It returns the clone directory.
func (p *Pipeline) Clone(ctx context.Context, dir, origin string) (string, error) {
	target, err := makeProjectDir(dir, DirName(origin))
	if err != nil {
		return "", err
	}

	log.Info("Cloning repository", "origin", origin, "dir", target)

	repo, err := git.Clone(ctx, target, origin)
	if err != nil {
		// PlainClone leaves a partial directory behind on failure.
		os.RemoveAll(target)
		return "", errors.Wrap(err, errors.VCS)
	}
	if err := repo.Checkout(p.flow.DevelopBranch()); err != nil {
		return "", errors.CheckoutFailed(p.flow.DevelopBranch(), err)
	}
	if err := p.flow.Init(ctx, repo); err != nil {
		return "", err
	}
	return target, nil
}

// makeProjectDir creates the project subdirectory, failing when it exists.
func makeProjectDir(dir, name string) (string, error) {
	target := filepath.Join(dir, name)
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return "", errors.DirectoryAlreadyExists(target)
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", target, err)
	}
	return target, nil
}

// writeProjectConfig fills the [project] section of the skeleton's
// buildout.cfg in one write-back scope.
func writeProjectConfig(dir string, opts InitOptions) error {
	code, err := generateUpgradeCode()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, buildcfg.DefaultName)
	return buildcfg.With(path, buildcfg.ReadWrite, func(store *buildcfg.Store) error {
		store.Set("project", "name", opts.Name)
		store.Set("project", "namespace_packages", pythonList(Namespaces(opts.Name)))
		store.Set("project", "version_file", versionFilePath(opts.Name))
		store.Set("project", "description", opts.ShortDescription)
		store.Set("project", "long_description", indent(opts.LongDescription))
		store.Set("project", "upgrade_code", code)
		store.Set("project", "product_name", opts.Name)
		return nil
	})
}

// pythonList renders names as a Python list literal, the form the version
// templating recipe substitutes into setup.py.
func pythonList(names []string) string {
	quoted := make([]string, 0, len(names))
	for _, name := range names {
		quoted = append(quoted, "'"+name+"'")
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// generateSrc creates the src/ tree with namespace-package initializers.
func generateSrc(dir, name string) error {
	src := filepath.Join(dir, "src")
	if err := os.Mkdir(src, 0o755); err != nil {
		return fmt.Errorf("creating src: %w", err)
	}
	for _, pkg := range PackageDirs(name) {
		pkgDir := filepath.Join(src, pkg)
		if err := os.MkdirAll(pkgDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", pkgDir, err)
		}
		initFile := filepath.Join(pkgDir, "__init__.py")
		if err := os.WriteFile(initFile, []byte(namespaceInit), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", initFile, err)
		}
	}
	return nil
}

// appendToGitignore adds the generated version file to the ignore list.
func appendToGitignore(dir, entry string) error {
	path := filepath.Join(dir, ".gitignore")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening .gitignore: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString("\n" + entry + "\n"); err != nil {
		return fmt.Errorf("appending to .gitignore: %w", err)
	}
	return nil
}

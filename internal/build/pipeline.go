// Package build implements the ordered buildout orchestration pipeline
// behind 'projector build'. Steps run strictly in order; each may be skipped
// by a flag, a skip never cascades, and the first failure aborts the run
// with no rollback. Re-running is safe: every step checks whether its work
// is already done.
package build

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/projectorcli/projector/internal/buildcfg"
	"github.com/projectorcli/projector/internal/buildout"
	"github.com/projectorcli/projector/internal/config"
	"github.com/projectorcli/projector/internal/errors"
	"github.com/projectorcli/projector/internal/exec"
	"github.com/projectorcli/projector/internal/output"
)

// Options is the build-relevant flag subset, read once at dispatch and
// immutable for the rest of the run.
type Options struct {
	Clean             bool
	ForceBootstrap    bool
	NoSubmodules      bool
	NoSetupPy         bool
	NoScripts         bool
	NoReadline        bool
	UseIsolatedPython bool
	Newest            bool
	Offline           bool
}

// totalSteps is the number of steps the scripts pipeline reports.
const totalSteps = 7

// Pipeline runs the build commands for one project directory.
type Pipeline struct {
	dir     string
	opts    Options
	cfg     *config.Config
	exec    exec.Runner
	stack   *buildout.ParamStack
	runner  *buildout.Runner
	printer *output.Printer

	// goos is overridable so the platform-dependent readline step can be
	// tested everywhere.
	goos string
}

// New creates a Pipeline. The parameter stack is owned by this instance;
// nothing leaks across invocations.
func New(dir string, opts Options, cfg *config.Config, ex exec.Runner, printer *output.Printer) *Pipeline {
	stack := buildout.NewParamStack()
	return &Pipeline{
		dir:     dir,
		opts:    opts,
		cfg:     cfg,
		exec:    ex,
		stack:   stack,
		runner:  buildout.NewRunner(ex, stack, cfg.PythonCommand),
		printer: printer,
		goos:    runtime.GOOS,
	}
}

// Stack exposes the parameter stack for tests.
func (p *Pipeline) Stack() *buildout.ParamStack {
	return p.stack
}

// Scripts runs the ordered pipeline that generates setup.py and the console
// scripts.
func (p *Pipeline) Scripts(ctx context.Context) error {
	if p.opts.Clean {
		p.printer.StepHeader(1, totalSteps, "Clean")
		if err := p.cleanBuild(); err != nil {
			return err
		}
	} else {
		p.printer.Skip("Clean", "no --clean")
	}

	p.printer.StepHeader(2, totalSteps, "Cache directories")
	if err := p.ensureCacheDirectories(); err != nil {
		return err
	}

	if err := p.bootstrapIfNecessary(ctx); err != nil {
		return err
	}

	// Pipeline-wide parameter scope; steps 4-7 run inside it.
	scope := p.stack.Activate(p.pipelineTokens()...)
	defer scope.Release()

	if !p.opts.NoSubmodules {
		p.printer.StepHeader(4, totalSteps, "Submodule update")
		if err := p.submoduleUpdate(ctx); err != nil {
			return err
		}
	} else {
		p.printer.Skip("Submodule update", "--no-submodules")
	}

	if !p.opts.NoSetupPy {
		p.printer.StepHeader(5, totalSteps, "Generate setup.py")
		if err := p.createSetupPy(ctx); err != nil {
			return err
		}
	} else {
		p.printer.Skip("Generate setup.py", "--no-setup-py")
	}

	if !p.opts.NoScripts {
		p.printer.StepHeader(6, totalSteps, "Generate console scripts")
		if err := p.createScripts(ctx); err != nil {
			return err
		}
	} else {
		p.printer.Skip("Generate console scripts", "--no-scripts")
	}

	if !p.opts.NoReadline {
		p.printer.StepHeader(7, totalSteps, "Line-editing support")
		if err := p.installReadline(ctx); err != nil {
			return err
		}
	} else {
		p.printer.Skip("Line-editing support", "--no-readline")
	}

	return nil
}

// pipelineTokens returns the run-wide buildout arguments. The flags are
// independent; both may be present.
func (p *Pipeline) pipelineTokens() []string {
	var tokens []string
	if p.opts.Newest {
		tokens = append(tokens, "-n")
	}
	if p.opts.Offline {
		tokens = append(tokens, "-o")
	}
	return tokens
}

// cleanBuild removes the generated directories and files. Absent entries
// are a no-op.
func (p *Pipeline) cleanBuild() error {
	directories := []string{"bin", "eggs", "develop-eggs"}
	files := []string{"setup.py"}

	for _, name := range files {
		path := filepath.Join(p.dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
		log.Debug("removed", "path", path)
	}
	for _, name := range directories {
		path := filepath.Join(p.dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
		log.Debug("removed", "path", path)
	}
	return nil
}

// ensureCacheDirectories creates <download-cache>/dist if absent. Running
// it again is a no-op.
func (p *Pipeline) ensureCacheDirectories() error {
	var cache string
	err := buildcfg.With(p.configPath(), buildcfg.ReadOnly, func(store *buildcfg.Store) error {
		value, ok := store.Get("buildout", "download-cache")
		if !ok {
			return errors.DownloadCacheNotConfigured()
		}
		cache = value
		return nil
	})
	if err != nil {
		return err
	}

	if !filepath.IsAbs(cache) {
		cache = filepath.Join(p.dir, cache)
	}
	dist := filepath.Join(cache, "dist")
	if err := os.MkdirAll(dist, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dist, err)
	}
	return nil
}

// bootstrapIfNecessary runs bootstrap.py when bin/buildout is missing or a
// refresh is forced. A missing bootstrap.py is fatal.
func (p *Pipeline) bootstrapIfNecessary(ctx context.Context) error {
	if _, err := os.Stat(filepath.Join(p.dir, "bootstrap.py")); os.IsNotExist(err) {
		return errors.BootstrapScriptMissing(p.dir)
	}

	if buildout.IsExecutable(buildout.BuildoutBin(p.dir)) && !p.opts.ForceBootstrap {
		p.printer.Skip("Bootstrap", "bin/buildout already exists")
		return nil
	}

	p.printer.StepHeader(3, totalSteps, "Bootstrap")
	return p.runner.Python(ctx, p.dir, "bootstrap.py", "-d", "-t")
}

// installSectionsByRecipe installs the config sections whose recipe matches.
// No matching sections means no buildout invocation at all.
func (p *Pipeline) installSectionsByRecipe(ctx context.Context, recipe string) error {
	var sections []string
	err := buildcfg.With(p.configPath(), buildcfg.ReadOnly, func(store *buildcfg.Store) error {
		sections = store.SectionsWithRecipe(recipe)
		return nil
	})
	if err != nil {
		return err
	}
	if len(sections) == 0 {
		p.printer.Detail(fmt.Sprintf("no sections with recipe %s", recipe))
		return nil
	}

	p.printer.StartSpinner(fmt.Sprintf("installing %s", strings.Join(sections, ", ")))
	defer p.printer.StopSpinner()
	return p.runner.Buildout(ctx, p.dir, append([]string{"install"}, sections...)...)
}

// submoduleUpdate installs the git-submodule sections with develop mode
// suppressed for the duration of the step.
func (p *Pipeline) submoduleUpdate(ctx context.Context) error {
	scope := p.stack.Activate("buildout:develop=")
	defer scope.Release()
	return p.installSectionsByRecipe(ctx, RecipeGitSubmodules)
}

// createSetupPy renders setup.py from the version templating sections, also
// with develop mode suppressed.
func (p *Pipeline) createSetupPy(ctx context.Context) error {
	scope := p.stack.Activate("buildout:develop=")
	defer scope.Release()
	return p.installSectionsByRecipe(ctx, RecipeVersionSetup)
}

// createScripts generates the console scripts, handling the isolated
// interpreter distribution when requested.
func (p *Pipeline) createScripts(ctx context.Context) error {
	if p.opts.UseIsolatedPython {
		if p.opts.Newest || !buildout.IsExecutable(buildout.IsolatedPythonBin(p.dir)) {
			if err := p.runner.Buildout(ctx, p.dir, "install", SectionPythonDist); err != nil {
				return err
			}
		}
		return p.createScriptsWithIsolatedPython(ctx)
	}

	// Most projects default buildout's own interpreter to the isolated
	// python; pin it back to the bootstrap interpreter for this install.
	scope := p.stack.Activate("buildout:python=buildout")
	defer scope.Release()
	return p.installSectionsByRecipe(ctx, RecipeConsoleScripts)
}

// createScriptsWithIsolatedPython installs the console-script sections and
// then verifies the build tool is still usable: bin/buildout must exist,
// and when its shebang points into the isolated interpreter it is
// re-bootstrapped against the bootstrap interpreter.
func (p *Pipeline) createScriptsWithIsolatedPython(ctx context.Context) error {
	if err := p.installSectionsByRecipe(ctx, RecipeConsoleScripts); err != nil {
		return err
	}

	if !buildout.IsExecutable(buildout.BuildoutBin(p.dir)) {
		return errors.BuildoutExecutableMissing()
	}
	if p.buildoutUsesIsolatedPython() {
		scope := p.stack.Activate("buildout:python=buildout")
		defer scope.Release()
		return p.runner.Python(ctx, p.dir, "bootstrap.py", "-d", "-t")
	}
	return nil
}

// buildoutUsesIsolatedPython reports whether bin/buildout's shebang points
// into parts/python.
func (p *Pipeline) buildoutUsesIsolatedPython() bool {
	f, err := os.Open(buildout.BuildoutBin(p.dir))
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return false
	}
	shebang := scanner.Text()
	return strings.HasPrefix(shebang, "#!") &&
		strings.Contains(shebang, filepath.Join("parts", "python"))
}

// installReadline installs line-editing support for the project
// interpreter. Unrecognized platforms skip; an importable module skips.
func (p *Pipeline) installReadline(ctx context.Context) error {
	module := readlineModule(p.goos)
	if module == "" {
		p.printer.Skip("Line-editing support", "platform "+p.goos)
		return nil
	}
	if p.runner.ProjectPython(ctx, p.dir, "-c", "import "+module) == nil {
		p.printer.Skip("Line-editing support", module+" already importable")
		return nil
	}
	return p.runner.EasyInstall(ctx, p.dir, module)
}

// readlineModule maps a platform to its line-editing package. Linux ships
// readline in the standard library.
func readlineModule(goos string) string {
	switch goos {
	case "darwin":
		return "readline"
	case "windows":
		return "pyreadline"
	}
	return ""
}

func (p *Pipeline) configPath() string {
	return filepath.Join(p.dir, buildcfg.DefaultName)
}

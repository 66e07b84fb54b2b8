package build

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/projectorcli/projector/internal/buildcfg"
	"github.com/projectorcli/projector/internal/errors"
	"github.com/projectorcli/projector/internal/git"
)

// Interpreter path templates written by Relocate. The relative form keeps
// scripts working when the project directory moves; the absolute form pins
// them to the current checkout.
const (
	relativePython = "parts/python/bin/python"
	absolutePython = "${buildout:directory}/parts/python/bin/python"
)

// Relocate switches the generated scripts between relative and absolute
// interpreter paths. Both settings go into buildout.cfg in one write-back
// scope; with commit, exactly that file is staged and committed.
func (p *Pipeline) Relocate(ctx context.Context, relative, commit bool) error {
	err := buildcfg.With(p.configPath(), buildcfg.ReadWrite, func(store *buildcfg.Store) error {
		if relative {
			store.Set("buildout", "relative-paths", "true")
			store.Set(SectionPythonDist, "executable", relativePython)
		} else {
			store.Set("buildout", "relative-paths", "false")
			store.Set(SectionPythonDist, "executable", absolutePython)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if commit {
		if err := p.commitConfig(relative); err != nil {
			return err
		}
	}

	log.Info("Configuration changed. Run `projector build scripts [--use-isolated-python]`.")
	return nil
}

// commitConfig stages and commits only buildout.cfg.
func (p *Pipeline) commitConfig(relative bool) error {
	repo, err := git.Open(p.dir)
	if err != nil {
		return errors.Wrap(err, errors.VCS)
	}
	if err := repo.AddPath(buildcfg.DefaultName); err != nil {
		return errors.Wrap(err, errors.VCS)
	}

	mode := "absolute"
	if relative {
		mode = "relative"
	}
	message := fmt.Sprintf("Changing shebang to %s paths", mode)
	if _, err := repo.Commit(message, false); err != nil {
		return errors.Wrap(err, errors.VCS)
	}
	return nil
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/projectorcli/projector/internal/exec"
	"github.com/projectorcli/projector/internal/gitflow"
	"github.com/projectorcli/projector/internal/output"
	"github.com/projectorcli/projector/internal/repository"
)

var repositoryCmd = &cobra.Command{
	Use:   "repository",
	Short: "Create and clone project repositories",
}

var repositoryInitCmd = &cobra.Command{
	Use:   "init [--mkdir] <project_name> <origin> <short_description> <long_description>",
	Short: "Scaffold a new project repository",
	Long: `Create a git repository with the project skeleton: buildout.cfg wired to
the build recipes, bootstrap.py, the namespace package source tree and the
git-flow branch layout with an initial v0 release.`,
	Example: `  # Initialize in the current directory
  projector repository init acme.widgets git://example.com/acme.widgets.git "Widgets" "Widget toolkit"

  # Initialize in a new subdirectory named after the project
  projector repository init --mkdir acme.widgets git://example.com/acme.widgets.git "Widgets" "Widget toolkit"`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		mkdir, _ := cmd.Flags().GetBool("mkdir")

		pipeline, printer, err := newRepositoryPipeline()
		if err != nil {
			return err
		}

		opts := repository.InitOptions{
			Name:             args[0],
			Origin:           args[1],
			ShortDescription: args[2],
			LongDescription:  args[3],
			Mkdir:            mkdir,
		}
		dir, err := pipeline.Init(cmd.Context(), flagProjectDir, opts)
		if err != nil {
			return err
		}
		printer.Success("created project " + opts.Name + " in " + dir)
		return nil
	},
}

var repositoryCloneCmd = &cobra.Command{
	Use:   "clone <origin>",
	Short: "Clone an existing project repository",
	Long: `Clone the repository into a subdirectory named after the origin URL and
check out its develop branch.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, printer, err := newRepositoryPipeline()
		if err != nil {
			return err
		}

		dir, err := pipeline.Clone(cmd.Context(), flagProjectDir, args[0])
		if err != nil {
			return err
		}
		printer.Success("cloned into " + dir)
		return nil
	},
}

// newRepositoryPipeline assembles the repository pipeline. Repository
// commands do not require an existing project.
func newRepositoryPipeline() (*repository.Pipeline, *output.Printer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := preflight(cfg, false); err != nil {
		return nil, nil, err
	}

	runner := exec.NewCommandRunner()
	flow := gitflow.New(runner, cfg.Flow.MasterBranch, cfg.Flow.DevelopBranch)
	return repository.New(runner, flow), newPrinter(cfg), nil
}

func init() {
	repositoryInitCmd.Flags().Bool("mkdir", false, "Create the project in a subdirectory named after it")

	repositoryCmd.AddCommand(repositoryInitCmd)
	repositoryCmd.AddCommand(repositoryCloneCmd)
	rootCmd.AddCommand(repositoryCmd)
}

// Package cli wires the projector commands. Command handlers read their
// flags once, pack them into options structs, and delegate to the internal
// packages; all user-facing failure formatting happens in Execute.
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/projectorcli/projector/internal/config"
	"github.com/projectorcli/projector/internal/errors"
	"github.com/projectorcli/projector/internal/output"
	"github.com/projectorcli/projector/internal/prereqs"
)

var (
	flagConfig        string
	flagProjectDir    string
	flagSkipPreflight bool
	flagDebug         bool
	flagVerbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "projector",
	Short: "Create and build Python packages backed by buildout",
	Long: `projector scaffolds Python package repositories and orchestrates their
buildout-based development environment: bootstrapping, submodules, setup.py
generation and console scripts.`,
	Example: `  # Create a new project
  projector repository init --mkdir acme.widgets git://example.com/acme.widgets.git "Widgets" "Widget toolkit"

  # Build the development environment
  projector build scripts

  # Rebuild automatically on configuration changes
  projector build watch

  # Check the environment
  projector doctor`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagDebug {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Explicit tool configuration file")
	rootCmd.PersistentFlags().StringVar(&flagProjectDir, "project-dir", ".", "Project directory to operate on")
	rootCmd.PersistentFlags().BoolVar(&flagSkipPreflight, "skip-preflight", false, "Skip environment preflight checks")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose output")
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		return ExitFailure
	}
	return ExitSuccess
}

func printError(err error) {
	if cliErr := errors.AsCLIError(err); cliErr != nil {
		fmt.Fprint(os.Stderr, errors.FormatError(cliErr))
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// loadConfig loads the tool configuration honoring the --config override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectDir:   flagProjectDir,
		ExplicitPath: flagConfig,
	})
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// preflight runs the environment checks unless --skip-preflight is set.
// requireProject additionally demands a buildout.cfg in the project
// directory.
func preflight(cfg *config.Config, requireProject bool) error {
	if flagSkipPreflight {
		log.Debug("preflight checks skipped")
		return nil
	}
	if err := prereqs.EnsureGitCLI(); err != nil {
		return err
	}
	if err := prereqs.EnsurePython(cfg.PythonCommand); err != nil {
		return err
	}
	if requireProject {
		return prereqs.EnsureProject(flagProjectDir)
	}
	return nil
}

// newPrinter builds the printer for one command run.
func newPrinter(cfg *config.Config) *output.Printer {
	return output.NewPrinter(flagVerbose, cfg.ShowProgress)
}

package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/projectorcli/projector/internal/build"
	"github.com/projectorcli/projector/internal/errors"
	"github.com/projectorcli/projector/internal/exec"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build and maintain the development environment",
}

var buildScriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "Bootstrap buildout and generate setup.py and console scripts",
	Long: `Run the build pipeline: clean (optional), cache directories, bootstrap,
submodule update, setup.py generation, console scripts and line-editing
support. Steps run in a fixed order; each --no-* flag skips its own step
only, and the first failing step aborts the run.`,
	Example: `  # Full build
  projector build scripts

  # Rebuild only the generated scripts
  projector build scripts --no-submodules --no-setup-py

  # Offline rebuild against the download cache
  projector build scripts --offline`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, err := newBuildPipeline(cmd)
		if err != nil {
			return err
		}
		return pipeline.Scripts(cmd.Context())
	},
}

var buildRelocateCmd = &cobra.Command{
	Use:   "relocate (--absolute | --relative)",
	Short: "Switch generated scripts between absolute and relative interpreter paths",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		absolute, _ := cmd.Flags().GetBool("absolute")
		relative, _ := cmd.Flags().GetBool("relative")
		commit, _ := cmd.Flags().GetBool("commit-changes")

		if absolute == relative {
			return errors.RelocateModeRequired()
		}

		pipeline, err := newBuildPipeline(cmd)
		if err != nil {
			return err
		}
		return pipeline.Relocate(cmd.Context(), relative, commit)
	},
}

var buildWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild whenever buildout.cfg changes",
	Long: `Run the scripts pipeline once, then watch buildout.cfg and re-run the
pipeline after each change. Rapid write bursts are debounced into a single
rebuild; a failing rebuild is reported and watching continues. Stop with
Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, err := newBuildPipeline(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return pipeline.Watch(ctx)
	},
}

// newBuildPipeline loads config, runs the preflight checks and assembles the
// pipeline from the command's flags.
func newBuildPipeline(cmd *cobra.Command) (*build.Pipeline, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := preflight(cfg, true); err != nil {
		return nil, err
	}

	opts := buildOptions(cmd)
	return build.New(flagProjectDir, opts, cfg, exec.NewCommandRunner(), newPrinter(cfg)), nil
}

// buildOptions packs the pipeline flags into an immutable options struct.
func buildOptions(cmd *cobra.Command) build.Options {
	boolFlag := func(name string) bool {
		value, _ := cmd.Flags().GetBool(name)
		return value
	}
	return build.Options{
		Clean:             boolFlag("clean"),
		ForceBootstrap:    boolFlag("force-bootstrap"),
		NoSubmodules:      boolFlag("no-submodules"),
		NoSetupPy:         boolFlag("no-setup-py"),
		NoScripts:         boolFlag("no-scripts"),
		NoReadline:        boolFlag("no-readline"),
		UseIsolatedPython: boolFlag("use-isolated-python"),
		Newest:            boolFlag("newest"),
		Offline:           boolFlag("offline"),
	}
}

// addScriptsFlags registers the pipeline flag set shared by scripts and
// watch.
func addScriptsFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("clean", false, "Remove generated directories and setup.py before building")
	cmd.Flags().Bool("force-bootstrap", false, "Run bootstrap.py even if bin/buildout exists")
	cmd.Flags().Bool("no-submodules", false, "Skip the submodule update step")
	cmd.Flags().Bool("no-setup-py", false, "Skip setup.py generation")
	cmd.Flags().Bool("no-scripts", false, "Skip console script generation")
	cmd.Flags().Bool("no-readline", false, "Skip line-editing support installation")
	cmd.Flags().Bool("use-isolated-python", false, "Build against the isolated interpreter distribution")
	cmd.Flags().BoolP("newest", "n", false, "Let buildout check for newer package versions")
	cmd.Flags().BoolP("offline", "o", false, "Run buildout in offline mode")
}

func init() {
	addScriptsFlags(buildScriptsCmd)
	addScriptsFlags(buildWatchCmd)

	buildRelocateCmd.Flags().Bool("absolute", false, "Pin scripts to the current checkout path")
	buildRelocateCmd.Flags().Bool("relative", false, "Make scripts relative to the project directory")
	buildRelocateCmd.Flags().Bool("commit-changes", false, "Commit the buildout.cfg change")

	buildCmd.AddCommand(buildScriptsCmd)
	buildCmd.AddCommand(buildRelocateCmd)
	buildCmd.AddCommand(buildWatchCmd)
	rootCmd.AddCommand(buildCmd)
}

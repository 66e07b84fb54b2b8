package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/projectorcli/projector/internal/errors"
	"github.com/projectorcli/projector/internal/health"
	"github.com/projectorcli/projector/internal/output"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the environment and project health",
	Long: `Verify that the tools and files the build pipeline depends on are
available: the git CLI, the configured Python interpreter, a readable
buildout.cfg and its download cache. The bin/buildout check is
informational.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		report := health.Run(flagProjectDir, cfg.PythonCommand)
		symbols := output.SelectSymbols(output.DetectTerminalCapabilities())
		fmt.Fprint(cmd.OutOrStdout(), health.Format(report, symbols))

		if !report.Passed {
			return errors.NewPreconditionError(
				"environment checks failed",
				"Address the failed checks above and run 'projector doctor' again",
			)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

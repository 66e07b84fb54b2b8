package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/projectorcli/projector/internal/config"
	"github.com/projectorcli/projector/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the projector tool configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [--force]",
	Short: "Write a commented default configuration file",
	Long: `Create .projector/config.yml in the project directory with the default
settings, commented. Refuses to overwrite an existing file unless --force
is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		path := config.ProjectConfigPath(flagProjectDir)
		if _, err := os.Stat(path); err == nil && !force {
			return errors.NewPreconditionError(
				fmt.Sprintf("%s already exists", path),
				"Use --force to overwrite it",
			)
		}

		if err := os.MkdirAll(config.ProjectConfigDir(flagProjectDir), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", config.ProjectConfigDir(flagProjectDir), err)
		}
		if err := os.WriteFile(path, []byte(config.DefaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after merging defaults, the user file, the
project file, environment variables and the --config override.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		rendered, err := cfg.Render()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

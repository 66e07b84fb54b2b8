package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/projectorcli/projector/internal/errors"
)

// Validate checks the configuration values for consistency.
func (c *Config) Validate() error {
	if c.PythonCommand == "" {
		return errors.NewConfigError(
			"python_command must not be empty",
			"Set python_command in .projector/config.yml, e.g. 'python_command: python'",
		)
	}
	if c.Flow.MasterBranch == c.Flow.DevelopBranch {
		return errors.NewConfigError(
			fmt.Sprintf("flow.master_branch and flow.develop_branch are both %q", c.Flow.MasterBranch),
			"The production and integration branches must differ",
		)
	}
	if c.Watch.Debounce <= 0 {
		return errors.NewConfigError(
			"watch.debounce must be positive",
			"Use a duration like '500ms' or '2s'",
		)
	}
	return nil
}

// validateYAMLSyntax streams through a YAML file with a decoder so syntax
// errors carry line information.
func validateYAMLSyntax(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	for {
		var n yaml.Node
		if err := dec.Decode(&n); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func yamlMarshal(v interface{}) ([]byte, error) {
	return yaml.Marshal(v)
}

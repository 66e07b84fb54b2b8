// Package config loads projector's own tool configuration with koanf.
// Values merge with priority: explicit --config file > environment variables
// (PROJECTOR_ prefix) > project config (.projector/config.yml) > user config
// (os.UserConfigDir()/projector/config.yml) > defaults. Legacy JSON project
// configs (.projector/config.json) are still honored.
//
// This is distinct from the project's buildout.cfg, which belongs to the
// target project and is handled by the buildcfg package.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/projectorcli/projector/internal/errors"
)

// FlowConfig names the long-lived branches of the git-flow model.
type FlowConfig struct {
	MasterBranch  string `koanf:"master_branch" yaml:"master_branch"`
	DevelopBranch string `koanf:"develop_branch" yaml:"develop_branch"`
}

// WatchConfig controls the build watch command.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce" yaml:"debounce"`
}

// Config is the projector tool configuration.
type Config struct {
	// PythonCommand is the system interpreter used for bootstrapping.
	PythonCommand string `koanf:"python_command" yaml:"python_command"`
	// ShowProgress enables the spinner around long buildout runs.
	ShowProgress bool `koanf:"show_progress" yaml:"show_progress"`
	// Debug enables debug logging.
	Debug bool        `koanf:"debug" yaml:"debug"`
	Flow  FlowConfig  `koanf:"flow" yaml:"flow"`
	Watch WatchConfig `koanf:"watch" yaml:"watch"`
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectDir is the directory whose .projector config is consulted.
	// Empty means the current directory.
	ProjectDir string
	// ExplicitPath is the --config file; it wins over every other file
	// source when set, and must exist.
	ExplicitPath string
}

// Load loads configuration for the given project directory.
func Load(projectDir string) (*Config, error) {
	return LoadWithOptions(LoadOptions{ProjectDir: projectDir})
}

// LoadWithOptions loads configuration with custom options.
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if err := loadUserConfig(k); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(k, opts.ProjectDir); err != nil {
		return nil, err
	}
	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}
	if err := loadExplicitConfig(k, opts.ExplicitPath); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDefaults applies the default configuration values.
func loadDefaults(k *koanf.Koanf) {
	for key, value := range Defaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config when present.
func loadUserConfig(k *koanf.Koanf) error {
	path, err := UserConfigPath()
	if err != nil {
		return nil
	}
	if !fileExists(path) {
		return nil
	}
	return loadYAMLFile(k, path)
}

// loadProjectConfig loads the project-level config. YAML is preferred; the
// legacy JSON file is used only when no YAML file exists.
func loadProjectConfig(k *koanf.Koanf, projectDir string) error {
	yamlPath := ProjectConfigPath(projectDir)
	legacyPath := LegacyProjectConfigPath(projectDir)

	switch {
	case fileExists(yamlPath):
		return loadYAMLFile(k, yamlPath)
	case fileExists(legacyPath):
		if err := k.Load(file.Provider(legacyPath), json.Parser()); err != nil {
			return errors.ConfigParseError(legacyPath, err)
		}
		return nil
	}
	return nil
}

// loadEnvironmentConfig loads PROJECTOR_* environment overrides. A double
// underscore separates nesting levels: PROJECTOR_FLOW__MASTER_BRANCH sets
// flow.master_branch.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider("PROJECTOR_", ".", envTransform), nil); err != nil {
		return fmt.Errorf("loading environment config: %w", err)
	}
	return nil
}

// loadExplicitConfig loads the --config file. Unlike discovered files, a
// missing explicit file is an error.
func loadExplicitConfig(k *koanf.Koanf, path string) error {
	if path == "" {
		return nil
	}
	if !fileExists(path) {
		return errors.NewConfigError(
			fmt.Sprintf("config file not found: %s", path),
			"Check the path given to --config",
		)
	}
	if strings.HasSuffix(path, ".json") {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return errors.ConfigParseError(path, err)
		}
		return nil
	}
	return loadYAMLFile(k, path)
}

// loadYAMLFile syntax-checks then loads one YAML file. The separate
// validation pass yields errors with line information.
func loadYAMLFile(k *koanf.Koanf, path string) error {
	if err := validateYAMLSyntax(path); err != nil {
		return errors.ConfigParseError(path, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return errors.ConfigParseError(path, err)
	}
	return nil
}

// envTransform converts environment variable names to config keys.
// PROJECTOR_FLOW__MASTER_BRANCH -> flow.master_branch
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "PROJECTOR_"))
	return strings.ReplaceAll(key, "__", ".")
}

// fileExists reports whether path exists and is readable.
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// Render returns the effective configuration as YAML.
func (c *Config) Render() (string, error) {
	out, err := yamlMarshal(c)
	if err != nil {
		return "", fmt.Errorf("rendering config: %w", err)
	}
	return string(out), nil
}

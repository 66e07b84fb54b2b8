package config

import (
	"os"
	"path/filepath"
)

// ConfigDirName is the per-project configuration directory.
const ConfigDirName = ".projector"

// UserConfigPath returns the path of the user-level config file:
// os.UserConfigDir()/projector/config.yml (XDG compliant on Linux).
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "projector", "config.yml"), nil
}

// ProjectConfigDir returns the project-level config directory.
func ProjectConfigDir(projectDir string) string {
	return filepath.Join(projectDir, ConfigDirName)
}

// ProjectConfigPath returns the project-level config file path.
func ProjectConfigPath(projectDir string) string {
	return filepath.Join(ProjectConfigDir(projectDir), "config.yml")
}

// LegacyProjectConfigPath returns the deprecated JSON config file path.
func LegacyProjectConfigPath(projectDir string) string {
	return filepath.Join(ProjectConfigDir(projectDir), "config.json")
}

package config

import "time"

// Defaults returns the default configuration values.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		// python_command: the system interpreter used to run bootstrap.py.
		// The project's own bin/python is always addressed directly.
		"python_command": "python",
		// show_progress: spinner around long buildout invocations (TTY only).
		"show_progress": true,
		"debug":         false,
		// flow: the long-lived branches of the git-flow model.
		"flow": map[string]interface{}{
			"master_branch":  "master",
			"develop_branch": "develop",
		},
		// watch: settling window for buildout.cfg change bursts.
		"watch": map[string]interface{}{
			"debounce": (500 * time.Millisecond).String(),
		},
	}
}

// DefaultConfigTemplate returns a fully commented config template written by
// 'projector config init'.
func DefaultConfigTemplate() string {
	return `# Projector configuration
# See 'projector config show' for the effective merged values.

# Interpreter settings
python_command: python        # System interpreter used to run bootstrap.py

# Output settings
show_progress: true           # Spinner around long buildout runs (TTY only)
debug: false                  # Debug logging (same as --debug)

# Branching model
flow:
  master_branch: master       # Production branch
  develop_branch: develop     # Integration branch

# build watch settings
watch:
  debounce: 500ms             # Settling window for buildout.cfg change bursts
`
}

package errors

import "fmt"

// Common error messages for the projector CLI.
// These templates ensure consistent, actionable error messages.

// NotAProject creates an error for a directory without a buildout.cfg.
func NotAProject(dir string) *CLIError {
	return NewPreconditionError(
		fmt.Sprintf("no buildout.cfg found in %s", dir),
		"Run 'projector repository init' to create a new project",
		"Or change into an existing project directory",
	)
}

// BootstrapScriptMissing creates an error for a missing bootstrap.py.
func BootstrapScriptMissing(dir string) *CLIError {
	return NewPreconditionError(
		fmt.Sprintf("bootstrap.py does not exist in %s", dir),
		"Restore bootstrap.py from the project skeleton",
		"Or re-create the project with 'projector repository init'",
	)
}

// BuildoutExecutableMissing creates an error for a missing bin/buildout.
func BuildoutExecutableMissing() *CLIError {
	return NewPreconditionError(
		"bin/buildout does not exist",
		"Run 'projector build scripts --force-bootstrap' to regenerate it",
	)
}

// DownloadCacheNotConfigured creates an error for a buildout.cfg without a
// download-cache setting.
func DownloadCacheNotConfigured() *CLIError {
	return NewConfigError(
		"buildout.cfg has no download-cache setting in the [buildout] section",
		"Add 'download-cache = .cache' to the [buildout] section",
	)
}

// DirectoryAlreadyExists creates an error for an init/clone target that exists.
func DirectoryAlreadyExists(dir string) *CLIError {
	return NewPreconditionError(
		fmt.Sprintf("directory %s already exists", dir),
		"Remove the directory or choose a different project name",
	)
}

// AlreadyARepository creates an error for init inside an existing repository.
func AlreadyARepository() *CLIError {
	return NewPreconditionError(
		"this directory is already a git repository",
		"Run 'projector repository init --mkdir' to create the project in a subdirectory",
	)
}

// CheckoutFailed creates an error for a failed branch or tag checkout.
func CheckoutFailed(ref string, err error) *CLIError {
	return WrapWithMessage(err, VCS,
		fmt.Sprintf("failed to checkout %s", ref),
		"Check that the branch or tag exists: git branch -a",
	)
}

// CommandFailed creates an error for a failed external process.
func CommandFailed(command string, err error) *CLIError {
	return WrapWithMessage(err, Execution,
		fmt.Sprintf("command failed: %s", command),
		"Re-run with --debug to see the full command trace",
	)
}

// RelocateModeRequired creates an error when relocate is called without a
// path mode, or with both.
func RelocateModeRequired() *CLIError {
	return NewValidationErrorWithUsage(
		"exactly one of --absolute or --relative is required",
		"projector build relocate (--absolute | --relative) [--commit-changes]",
		"Use --relative for scripts that move with the project directory",
		"Use --absolute to pin scripts to the current checkout path",
	)
}

// GitCliNotFound creates an error when the git CLI is not installed.
func GitCliNotFound() *CLIError {
	return NewPreconditionError(
		"git command not found",
		"Install git and make sure it is in your PATH",
		"Verify installation with: git --version",
	)
}

// PythonNotFound creates an error when the configured interpreter is missing.
func PythonNotFound(command string) *CLIError {
	return NewPreconditionError(
		fmt.Sprintf("%s command not found", command),
		"Install Python and make sure it is in your PATH",
		"Or set python_command in .projector/config.yml",
	)
}

// ConfigParseError creates an error for an invalid tool config file.
func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("failed to parse config file: %s", path),
		"Check the file for YAML syntax errors",
		"Reset to defaults with: projector config init --force",
	)
}

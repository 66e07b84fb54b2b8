package cli

// Exit codes for the projector CLI.
const (
	// ExitSuccess indicates successful command execution.
	ExitSuccess = 0

	// ExitFailure indicates any fatal error: validation, precondition,
	// external-tool or VCS failure.
	ExitFailure = 1
)

// Package errors provides structured error handling for the projector CLI.
// It includes categorized errors with actionable remediation guidance.
package errors

import "fmt"

// ErrorCategory represents the type of error that occurred.
type ErrorCategory int

const (
	// Validation errors are caused by invalid or missing command arguments.
	Validation ErrorCategory = iota
	// Configuration errors are caused by invalid or missing configuration,
	// in either the tool config or the project's buildout.cfg.
	Configuration
	// Precondition errors occur when a required file, directory, or tool is
	// missing, or when a target that must not exist already does.
	Precondition
	// Execution errors occur when an invoked external process fails.
	Execution
	// VCS errors occur when a version-control operation fails.
	VCS
)

// String returns a human-readable name for the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Validation:
		return "Validation Error"
	case Configuration:
		return "Configuration Error"
	case Precondition:
		return "Precondition Error"
	case Execution:
		return "Execution Error"
	case VCS:
		return "VCS Error"
	default:
		return "Error"
	}
}

// CLIError is a structured error with category and remediation guidance.
// Every CLIError is terminal for the current invocation: the process exits
// non-zero and nothing is retried.
type CLIError struct {
	// Category is the type of error (Validation, Precondition, etc.)
	Category ErrorCategory
	// Message is a human-readable description of what went wrong.
	Message string
	// Remediation is a list of actionable steps to resolve the error.
	Remediation []string
	// Usage shows the correct command syntax (optional, for validation errors).
	Usage string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying error to errors.Is and errors.As.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error with remediation steps.
func NewValidationError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Validation,
		Message:     message,
		Remediation: remediation,
	}
}

// NewValidationErrorWithUsage creates a validation error that includes correct usage syntax.
func NewValidationErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Validation,
		Message:     message,
		Usage:       usage,
		Remediation: remediation,
	}
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Configuration,
		Message:     message,
		Remediation: remediation,
	}
}

// NewPreconditionError creates a new precondition error.
func NewPreconditionError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Precondition,
		Message:     message,
		Remediation: remediation,
	}
}

// NewExecutionError creates a new execution error.
func NewExecutionError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Execution,
		Message:     message,
		Remediation: remediation,
	}
}

// NewVCSError creates a new version-control error.
func NewVCSError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    VCS,
		Message:     message,
		Remediation: remediation,
	}
}

// Wrap wraps an existing error with a CLIError, preserving the original message.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     err.Error(),
		Remediation: remediation,
		Cause:       err,
	}
}

// WrapWithMessage wraps an error with a custom message and category.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     fmt.Sprintf("%s: %v", message, err),
		Remediation: remediation,
		Cause:       err,
	}
}

// AsCLIError attempts to convert an error to a CLIError.
// Returns nil if the error is not a CLIError.
func AsCLIError(err error) *CLIError {
	cliErr, ok := err.(*CLIError)
	if ok {
		return cliErr
	}
	return nil
}

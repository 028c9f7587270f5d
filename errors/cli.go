package errors

import (
	"fmt"
	"strings"
)

// CLIError wraps an error with user-friendly context and suggestions.
type CLIError struct {
	// Err is the underlying error
	Err error

	// Message is a user-friendly description of what went wrong
	Message string

	// Suggestion is an actionable hint for the user
	Suggestion string

	// Details provides additional context (optional)
	Details string
}

func (e *CLIError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Details != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Details)
	}

	if e.Suggestion != "" {
		sb.WriteString("\n\n")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// WrapConnectionError wraps connection-related errors with guidance.
// Non-connection errors pass through unchanged.
func WrapConnectionError(err error, endpoint string) error {
	if err == nil {
		return nil
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "dial tcp") {
		return &CLIError{
			Err:        ErrConnectionFailed,
			Message:    fmt.Sprintf("Cannot reach %s", endpoint),
			Suggestion: "Check that:\n  - The endpoint URL is correct\n  - Your network connection is working",
		}
	}

	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
		return &CLIError{
			Err:        ErrConnectionFailed,
			Message:    fmt.Sprintf("Request to %s timed out", endpoint),
			Suggestion: "The endpoint may be overloaded.\nTry again in a moment.",
		}
	}

	return err
}

// NewNotInGitRepoError creates an error for commands that require a git
// repository.
func NewNotInGitRepoError() error {
	return &CLIError{
		Err:        ErrNotInGitRepo,
		Message:    "This command must be run from within a git repository.",
		Suggestion: "Run zuup from a repository clone, or pass projects and changes explicitly.",
	}
}

// NewNoTokenError creates an error for forge operations without a token.
func NewNoTokenError(provider string) error {
	envVar := strings.ToUpper(provider) + "_TOKEN"
	return &CLIError{
		Err:        ErrNoToken,
		Message:    fmt.Sprintf("No %s API token configured.", provider),
		Suggestion: fmt.Sprintf("Set %s or GIT_TOKEN with a valid personal access token.", envVar),
	}
}

package errors

import "errors"

// Common CLI errors with actionable guidance.
var (
	// ErrNotInGitRepo indicates the command requires a git repository.
	ErrNotInGitRepo = errors.New("not in a git repository")

	// ErrNoToken indicates no forge API token is configured.
	ErrNoToken = errors.New("no API token configured")

	// ErrConnectionFailed indicates a remote endpoint is unreachable.
	ErrConnectionFailed = errors.New("connection failed")
)

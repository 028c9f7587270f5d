package git

import "errors"

// Git operation errors.
var (
	// ErrNotGitRepo indicates the path is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrDirtyTree indicates the working tree has uncommitted changes.
	ErrDirtyTree = errors.New("working tree has uncommitted changes")

	// ErrTagExists indicates the tag already exists.
	ErrTagExists = errors.New("tag already exists")

	// ErrBranchNotFound indicates the branch does not exist.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrNoRemote indicates the requested remote is not configured.
	ErrNoRemote = errors.New("remote not configured")
)

// Error wraps a git command error with context.
type Error struct {
	Op     string // Operation that failed (e.g., "checkout", "create tag")
	Output string // Combined stdout/stderr output
	Err    error  // Underlying error
}

func (e *Error) Error() string {
	if e.Output != "" {
		return e.Op + ": " + e.Output
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

package release

import "errors"

// Release pipeline errors.
var (
	// ErrEmptyVersion indicates an empty version string.
	ErrEmptyVersion = errors.New("version must not be empty")

	// ErrInvalidVersion indicates a version string git cannot use as a tag.
	ErrInvalidVersion = errors.New("version is not a valid tag name")

	// ErrNoArtifacts indicates the build produced no files in the output dir.
	ErrNoArtifacts = errors.New("build produced no artifacts")
)

// VersionControlError indicates a git step failed (dirty tree, missing
// branch, duplicate tag, missing signing key).
type VersionControlError struct {
	Step string // Pipeline step that failed (e.g., "create tag")
	Err  error
}

func (e *VersionControlError) Error() string {
	return e.Step + ": " + e.Err.Error()
}

func (e *VersionControlError) Unwrap() error {
	return e.Err
}

// VerificationError indicates the style check or test matrix failed.
// The build step never runs after a verification failure.
type VerificationError struct {
	Command string // Verification command that failed
	Err     error
}

func (e *VerificationError) Error() string {
	return "verification failed (" + e.Command + "): " + e.Err.Error()
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// BuildError indicates the distribution packaging step failed or
// produced artifacts that violate the naming invariant.
type BuildError struct {
	Command string // Build command, empty for artifact collection failures
	Err     error
}

func (e *BuildError) Error() string {
	if e.Command != "" {
		return "build failed (" + e.Command + "): " + e.Err.Error()
	}
	return "build failed: " + e.Err.Error()
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// TagLeftBehindError wraps a failure that happened after the signed tag
// was created. The tag is intentionally not rolled back; the operator
// must inspect and remove it before retrying.
type TagLeftBehindError struct {
	Tag string
	Err error
}

func (e *TagLeftBehindError) Error() string {
	return e.Err.Error() + " (signed tag " + e.Tag +
		" was created and not rolled back; run `git tag -d " + e.Tag + "` before retrying)"
}

func (e *TagLeftBehindError) Unwrap() error {
	return e.Err
}

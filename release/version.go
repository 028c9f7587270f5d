package release

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ValidateVersion checks that a version string can serve as a git tag
// name. Uniqueness is not checked here; a duplicate tag fails at the
// tag-creation step.
func ValidateVersion(version string) error {
	if version == "" {
		return ErrEmptyVersion
	}
	if strings.ContainsAny(version, " \t\n") {
		return ErrInvalidVersion
	}
	// Refused by git check-ref-format
	for _, seq := range []string{"..", "~", "^", ":", "?", "*", "[", "\\"} {
		if strings.Contains(version, seq) {
			return ErrInvalidVersion
		}
	}
	if strings.HasPrefix(version, "-") || strings.HasSuffix(version, ".lock") {
		return ErrInvalidVersion
	}
	return nil
}

// IsPrerelease reports whether the version carries a semver prerelease
// suffix. Versions that do not parse as semver are treated as final
// releases; the pipeline accepts them either way.
func IsPrerelease(version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return v.Prerelease() != ""
}

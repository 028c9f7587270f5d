package forge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Sentinel errors returned by providers.
var (
	// ErrUnknownForge indicates the remote URL matches no supported platform.
	ErrUnknownForge = errors.New("unknown forge platform")

	// ErrReleaseExists indicates a release already exists for the tag.
	ErrReleaseExists = errors.New("release already exists for tag")

	// ErrTagNotFound indicates the tag was not pushed to the forge yet.
	ErrTagNotFound = errors.New("tag not found on forge")
)

// ReleaseOptions describes the release to publish.
type ReleaseOptions struct {
	// Tag is the existing tag the release points at.
	Tag string

	// Name is the release title.
	Name string

	// Body is the release description, typically the changelog.
	Body string

	// Prerelease marks the release as a pre-release.
	Prerelease bool

	// Assets are paths of artifact files to attach.
	Assets []string
}

// PublishedRelease describes a release created on a forge.
type PublishedRelease struct {
	ID  int64
	URL string
}

// Provider publishes releases to a hosting platform.
type Provider interface {
	// CreateRelease creates a release for an existing tag and uploads
	// the listed assets.
	CreateRelease(ctx context.Context, opts ReleaseOptions) (*PublishedRelease, error)
}

// Detect identifies the platform from a git remote URL.
// Returns "github" or "gitlab".
func Detect(remoteURL string) (string, error) {
	remoteURL = strings.ToLower(remoteURL)

	if strings.Contains(remoteURL, "github.com") {
		return "github", nil
	}
	if strings.Contains(remoteURL, "gitlab") {
		return "gitlab", nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownForge, remoteURL)
}

// ParseRepoFromURL extracts owner and repo from a git remote URL.
func ParseRepoFromURL(remoteURL string) (owner, repo string, err error) {
	// SSH URLs: git@github.com:owner/repo.git
	if strings.HasPrefix(remoteURL, "git@") {
		parts := strings.Split(remoteURL, ":")
		if len(parts) != 2 {
			return "", "", fmt.Errorf("invalid SSH URL format")
		}
		path := strings.TrimSuffix(parts[1], ".git")
		pathParts := strings.Split(path, "/")
		if len(pathParts) != 2 {
			return "", "", fmt.Errorf("invalid repository path")
		}
		return pathParts[0], pathParts[1], nil
	}

	// HTTPS URLs: https://github.com/owner/repo.git
	remoteURL = strings.TrimPrefix(remoteURL, "https://")
	remoteURL = strings.TrimPrefix(remoteURL, "http://")
	remoteURL = strings.TrimSuffix(remoteURL, ".git")

	parts := strings.Split(remoteURL, "/")
	if len(parts) < 3 {
		return "", "", fmt.Errorf("invalid URL format")
	}

	return parts[len(parts)-2], parts[len(parts)-1], nil
}

// ProviderFromEnv creates a provider from a remote URL and environment.
//
// Environment variables checked:
//   - GITHUB_TOKEN for GitHub
//   - GITLAB_TOKEN for GitLab
//   - GIT_TOKEN as fallback for either
func ProviderFromEnv(remoteURL string) (Provider, error) {
	platform, err := Detect(remoteURL)
	if err != nil {
		return nil, err
	}

	switch platform {
	case "github":
		token := os.Getenv("GITHUB_TOKEN")
		if token == "" {
			token = os.Getenv("GIT_TOKEN")
		}
		if token == "" {
			return nil, fmt.Errorf("GITHUB_TOKEN or GIT_TOKEN not set; set one of these environment variables with a valid personal access token")
		}
		return NewGitHubProviderFromURL(token, remoteURL)

	case "gitlab":
		token := os.Getenv("GITLAB_TOKEN")
		if token == "" {
			token = os.Getenv("GIT_TOKEN")
		}
		if token == "" {
			return nil, fmt.Errorf("GITLAB_TOKEN or GIT_TOKEN not set; set one of these environment variables with a valid personal access token")
		}
		return NewGitLabProviderFromURL(token, remoteURL)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownForge, platform)
	}
}

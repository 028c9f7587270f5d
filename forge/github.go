package forge

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// GitHubProvider implements Provider for GitHub repositories.
type GitHubProvider struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGitHubProvider creates a new GitHub provider.
// token is a personal access token or GitHub App token.
func NewGitHubProvider(token, owner, repo string) (*GitHubProvider, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	client := github.NewClient(tc)

	return &GitHubProvider{
		client: client,
		owner:  owner,
		repo:   repo,
	}, nil
}

// NewGitHubProviderFromURL creates a GitHub provider from a remote URL.
// Example: "https://github.com/sileht/zuup.git"
func NewGitHubProviderFromURL(token, remoteURL string) (*GitHubProvider, error) {
	owner, repo, err := ParseRepoFromURL(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("parse remote URL: %w", err)
	}
	return NewGitHubProvider(token, owner, repo)
}

// CreateRelease creates a GitHub release for an existing tag and
// uploads the assets.
func (p *GitHubProvider) CreateRelease(ctx context.Context, opts ReleaseOptions) (*PublishedRelease, error) {
	rel := &github.RepositoryRelease{
		TagName:    github.String(opts.Tag),
		Name:       github.String(opts.Name),
		Body:       github.String(opts.Body),
		Prerelease: github.Bool(opts.Prerelease),
	}

	created, resp, err := p.client.Repositories.CreateRelease(ctx, p.owner, p.repo, rel)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnprocessableEntity {
			if strings.Contains(err.Error(), "already_exists") {
				return nil, ErrReleaseExists
			}
		}
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrTagNotFound, opts.Tag)
		}
		return nil, fmt.Errorf("create release: %w", err)
	}

	for _, asset := range opts.Assets {
		if err := p.uploadAsset(ctx, created.GetID(), asset); err != nil {
			// The release exists at this point. Report the partial
			// upload rather than pretending nothing happened.
			return nil, fmt.Errorf("upload asset %s to release %s: %w",
				filepath.Base(asset), opts.Tag, err)
		}
	}

	return &PublishedRelease{
		ID:  created.GetID(),
		URL: created.GetHTMLURL(),
	}, nil
}

func (p *GitHubProvider) uploadAsset(ctx context.Context, releaseID int64, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	name := filepath.Base(path)
	_, _, err = p.client.Repositories.UploadReleaseAsset(ctx, p.owner, p.repo, releaseID,
		&github.UploadOptions{Name: name}, f)
	if err != nil {
		return err
	}

	slog.Debug("uploaded release asset", "asset", name, "release", releaseID)
	return nil
}

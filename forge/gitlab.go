package forge

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/xanzy/go-gitlab"
)

// GitLabProvider implements Provider for GitLab repositories.
type GitLabProvider struct {
	client    *gitlab.Client
	projectID string // numeric ID or "namespace/project"
}

// NewGitLabProvider creates a new GitLab provider.
// baseURL is the GitLab instance URL (empty for gitlab.com).
func NewGitLabProvider(token, baseURL, projectID string) (*GitLabProvider, error) {
	if token == "" {
		return nil, fmt.Errorf("GitLab token is required")
	}
	if projectID == "" {
		return nil, fmt.Errorf("project ID is required")
	}

	var client *gitlab.Client
	var err error

	if baseURL != "" {
		client, err = gitlab.NewClient(token, gitlab.WithBaseURL(baseURL))
	} else {
		client, err = gitlab.NewClient(token)
	}

	if err != nil {
		return nil, fmt.Errorf("create GitLab client: %w", err)
	}

	return &GitLabProvider{
		client:    client,
		projectID: projectID,
	}, nil
}

// NewGitLabProviderFromURL creates a GitLab provider from a remote URL.
// Example: "https://gitlab.com/namespace/project.git"
func NewGitLabProviderFromURL(token, remoteURL string) (*GitLabProvider, error) {
	owner, repo, err := ParseRepoFromURL(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("parse remote URL: %w", err)
	}

	// Self-hosted instances keep their own base URL.
	var baseURL string
	if !strings.Contains(remoteURL, "gitlab.com") {
		trimmed := strings.TrimPrefix(remoteURL, "https://")
		trimmed = strings.TrimPrefix(trimmed, "http://")
		parts := strings.Split(trimmed, "/")
		if len(parts) > 0 {
			baseURL = "https://" + parts[0]
		}
	}

	projectID := owner + "/" + repo
	return NewGitLabProvider(token, baseURL, projectID)
}

// CreateRelease creates a GitLab release for an existing tag. Assets
// are uploaded to the project and attached as release links.
func (p *GitLabProvider) CreateRelease(ctx context.Context, opts ReleaseOptions) (*PublishedRelease, error) {
	rel, resp, err := p.client.Releases.CreateRelease(p.projectID, &gitlab.CreateReleaseOptions{
		Name:        gitlab.Ptr(opts.Name),
		TagName:     gitlab.Ptr(opts.Tag),
		Description: gitlab.Ptr(opts.Body),
	}, gitlab.WithContext(ctx))
	if err != nil {
		if resp != nil {
			switch resp.StatusCode {
			case http.StatusConflict:
				return nil, ErrReleaseExists
			case http.StatusNotFound:
				return nil, fmt.Errorf("%w: %s", ErrTagNotFound, opts.Tag)
			}
		}
		return nil, fmt.Errorf("create release: %w", err)
	}

	for _, asset := range opts.Assets {
		if err := p.attachAsset(ctx, opts.Tag, asset); err != nil {
			return nil, fmt.Errorf("upload asset %s to release %s: %w",
				filepath.Base(asset), opts.Tag, err)
		}
	}

	return &PublishedRelease{URL: rel.Links.Self}, nil
}

func (p *GitLabProvider) attachAsset(ctx context.Context, tag, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	name := filepath.Base(path)
	uploaded, _, err := p.client.Projects.UploadFile(p.projectID, f, name, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("upload file: %w", err)
	}

	_, _, err = p.client.ReleaseLinks.CreateReleaseLink(p.projectID, tag, &gitlab.CreateReleaseLinkOptions{
		Name: gitlab.Ptr(name),
		URL:  gitlab.Ptr(uploaded.URL),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("create release link: %w", err)
	}

	return nil
}

package git

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Context manages git operations for a repository.
type Context struct {
	repoPath string        // Path to the repository
	runner   CommandRunner // Command runner (defaults to ExecRunner)
}

// Option configures Context.
type Option func(*Context)

// NewContext creates a new git context for the repository.
// It validates that the path is a git repository and applies any options.
func NewContext(repoPath string, opts ...Option) (*Context, error) {
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	// Verify it's a git repository
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = absPath
	if err := cmd.Run(); err != nil {
		return nil, ErrNotGitRepo
	}

	g := &Context{
		repoPath: absPath,
		runner:   NewExecRunner(),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// WithRunner sets a custom command runner for git operations.
// This is primarily used for testing to inject mock command execution.
func WithRunner(runner CommandRunner) Option {
	return func(g *Context) {
		g.runner = runner
	}
}

// RepoPath returns the path to the repository.
func (g *Context) RepoPath() string {
	return g.repoPath
}

// CurrentBranch returns the current branch name.
func (g *Context) CurrentBranch() (string, error) {
	branch, err := g.runGit("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", &Error{Op: "get current branch", Err: err}
	}
	return branch, nil
}

// Checkout switches to the specified ref (branch, tag, or commit).
func (g *Context) Checkout(ref string) error {
	if _, err := g.runGit("checkout", ref); err != nil {
		if strings.Contains(err.Error(), "did not match any") {
			return ErrBranchNotFound
		}
		return &Error{Op: "checkout " + ref, Err: err}
	}
	return nil
}

// CreateSignedTag creates a cryptographically signed annotated tag at HEAD.
// Returns ErrTagExists if the tag name is already taken.
func (g *Context) CreateSignedTag(name, message string) error {
	if _, err := g.runGit("tag", "-s", name, "-m", message); err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return ErrTagExists
		}
		return &Error{Op: "create signed tag " + name, Err: err}
	}
	return nil
}

// TagExists checks if a tag exists.
func (g *Context) TagExists(name string) bool {
	_, err := g.runGit("rev-parse", "--verify", "refs/tags/"+name)
	return err == nil
}

// Clean removes untracked files and directories from the working tree.
// When ignored is true, files matched by .gitignore are removed as well.
func (g *Context) Clean(ignored bool) error {
	args := []string{"clean", "-f", "-d"}
	if ignored {
		args = append(args, "-x")
	}
	if _, err := g.runGit(args...); err != nil {
		return &Error{Op: "clean", Err: err}
	}
	return nil
}

// Status returns the working tree status in short format.
func (g *Context) Status() (string, error) {
	status, err := g.runGit("status", "--short")
	if err != nil {
		return "", &Error{Op: "status", Err: err}
	}
	return status, nil
}

// IsClean returns true if the working tree has no uncommitted changes.
func (g *Context) IsClean() (bool, error) {
	status, err := g.Status()
	if err != nil {
		return false, err
	}
	return status == "", nil
}

// HeadCommit returns the current HEAD commit SHA.
func (g *Context) HeadCommit() (string, error) {
	sha, err := g.runGit("rev-parse", "HEAD")
	if err != nil {
		return "", &Error{Op: "get HEAD commit", Err: err}
	}
	return sha, nil
}

// GetRemoteURL returns the URL of the specified remote.
func (g *Context) GetRemoteURL(remote string) (string, error) {
	url, err := g.runGit("remote", "get-url", remote)
	if err != nil {
		if strings.Contains(err.Error(), "No such remote") {
			return "", ErrNoRemote
		}
		return "", &Error{Op: "get remote URL", Err: err}
	}
	return url, nil
}

// ConfigGet returns a local git config value.
func (g *Context) ConfigGet(key string) (string, error) {
	value, err := g.runGit("config", "--local", "--get", key)
	if err != nil {
		return "", &Error{Op: "config get " + key, Err: err}
	}
	return value, nil
}

// CommitMessages returns the full messages of commits in upstream..HEAD,
// newest first.
func (g *Context) CommitMessages(upstream string) ([]string, error) {
	shas, err := g.runGit("log", "--pretty=tformat:%H", upstream+"..HEAD")
	if err != nil {
		return nil, &Error{Op: "log " + upstream + "..HEAD", Err: err}
	}
	if shas == "" {
		return nil, nil
	}

	var messages []string
	for _, sha := range strings.Split(shas, "\n") {
		sha = strings.TrimSpace(sha)
		if sha == "" {
			continue
		}
		body, err := g.runGit("show", "-s", "--format=%B", sha)
		if err != nil {
			return nil, &Error{Op: "show " + sha, Err: err}
		}
		messages = append(messages, body)
	}
	return messages, nil
}

// runGit executes a git command and returns stdout.
func (g *Context) runGit(args ...string) (string, error) {
	return g.runner.Run(g.repoPath, "git", args...)
}

package release

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sileht/zuup/git"
)

// Default pipeline commands, matching the tox/setuptools layout of the
// zuup source tree.
var (
	DefaultVerifyCommands = []string{
		"tox -e pep8",
		"tox -e py27",
		"tox -e py34",
	}
	DefaultBuildCommand = "python setup.py sdist bdist_wheel"
)

// Artifact is a distribution file produced by the build step. It is
// created once, never mutated, and left on disk for the operator.
type Artifact struct {
	Path    string // Absolute path on disk
	Name    string // File name (embeds the release version)
	Digests Digests
}

// Release is the result of a successful publish run.
type Release struct {
	Version   string
	Tag       string // Tag name, identical to Version
	Commit    string // Commit the signed tag points at
	Artifacts []Artifact
}

// Config configures a Publisher.
type Config struct {
	// Branch is the primary integration branch. Defaults to "master".
	Branch string

	// DistDir is the build output directory, relative to the repo root.
	// Defaults to "dist".
	DistDir string

	// VerifyCommands is the verification suite, run in order through
	// `sh -c`. Defaults to DefaultVerifyCommands.
	VerifyCommands []string

	// BuildCommand builds the source and wheel distributions.
	// Defaults to DefaultBuildCommand.
	BuildCommand string

	// PushRemote is the remote named in the follow-up push command.
	// Defaults to "gerrit".
	PushRemote string

	// Out receives the human-readable report. Defaults to os.Stdout.
	Out io.Writer

	// Runner executes the verification and build commands.
	// Defaults to git.NewExecRunner().
	Runner git.CommandRunner
}

// Publisher turns a version string into signed, publishable
// distribution artifacts.
type Publisher struct {
	git *git.Context
	cfg Config
}

// NewPublisher creates a publisher for the repository, applying config
// defaults.
func NewPublisher(gitCtx *git.Context, cfg Config) *Publisher {
	if cfg.Branch == "" {
		cfg.Branch = "master"
	}
	if cfg.DistDir == "" {
		cfg.DistDir = "dist"
	}
	if len(cfg.VerifyCommands) == 0 {
		cfg.VerifyCommands = DefaultVerifyCommands
	}
	if cfg.BuildCommand == "" {
		cfg.BuildCommand = DefaultBuildCommand
	}
	if cfg.PushRemote == "" {
		cfg.PushRemote = "gerrit"
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Runner == nil {
		cfg.Runner = git.NewExecRunner()
	}
	return &Publisher{git: gitCtx, cfg: cfg}
}

// step is one fallible stage of the publish pipeline.
type step struct {
	name string
	run  func(ctx context.Context) error
}

// Publish runs the release pipeline for the given version. Steps run
// strictly in order and the first failure aborts the rest. There is no
// rollback: a failure after tag creation reports the tag that was left
// behind so the operator can remove it before retrying.
func (p *Publisher) Publish(ctx context.Context, version string) (*Release, error) {
	if err := ValidateVersion(version); err != nil {
		return nil, err
	}

	rel := &Release{Version: version, Tag: version}

	steps := []step{
		{"preflight", func(context.Context) error { return p.requireCleanTree() }},
		{"checkout branch", func(context.Context) error { return p.checkoutBranch() }},
		{"create tag", func(context.Context) error { return p.createTag(version) }},
		{"checkout tag", func(context.Context) error { return p.checkoutTag(rel) }},
		{"clean tree", func(context.Context) error { return p.cleanTree() }},
		{"remove stale output", func(context.Context) error { return p.removeBuildDirs() }},
		{"verify", func(ctx context.Context) error { return p.verify(ctx) }},
		{"build", func(ctx context.Context) error { return p.build(ctx) }},
		{"collect artifacts", func(context.Context) error { return p.collectArtifacts(rel) }},
	}

	tagged := false
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return nil, p.noRollback(tagged, version, err)
		}
		if err := s.run(ctx); err != nil {
			return nil, p.noRollback(tagged, version, err)
		}
		if s.name == "create tag" {
			tagged = true
		}
	}

	p.report(rel)
	return rel, nil
}

// noRollback annotates post-tag failures with the tag that remains.
func (p *Publisher) noRollback(tagged bool, tag string, err error) error {
	if !tagged {
		return err
	}
	return &TagLeftBehindError{Tag: tag, Err: err}
}

func (p *Publisher) requireCleanTree() error {
	clean, err := p.git.IsClean()
	if err != nil {
		return &VersionControlError{Step: "preflight", Err: err}
	}
	if !clean {
		return &VersionControlError{Step: "preflight", Err: git.ErrDirtyTree}
	}
	return nil
}

func (p *Publisher) checkoutBranch() error {
	if err := p.git.Checkout(p.cfg.Branch); err != nil {
		return &VersionControlError{Step: "checkout " + p.cfg.Branch, Err: err}
	}
	return nil
}

func (p *Publisher) createTag(version string) error {
	message := fmt.Sprintf("Release version %s", version)
	if err := p.git.CreateSignedTag(version, message); err != nil {
		return &VersionControlError{Step: "create tag " + version, Err: err}
	}
	return nil
}

func (p *Publisher) checkoutTag(rel *Release) error {
	if err := p.git.Checkout(rel.Tag); err != nil {
		return &VersionControlError{Step: "checkout tag " + rel.Tag, Err: err}
	}
	commit, err := p.git.HeadCommit()
	if err != nil {
		return &VersionControlError{Step: "resolve tagged commit", Err: err}
	}
	rel.Commit = commit
	return nil
}

func (p *Publisher) cleanTree() error {
	if err := p.git.Clean(true); err != nil {
		return &VersionControlError{Step: "clean tree", Err: err}
	}
	return nil
}

// removeBuildDirs deletes stale build output so artifacts only ever
// come from the tagged content.
func (p *Publisher) removeBuildDirs() error {
	root := p.git.RepoPath()

	stale := []string{
		filepath.Join(root, p.cfg.DistDir),
		filepath.Join(root, "build"),
	}
	eggInfo, err := filepath.Glob(filepath.Join(root, "*.egg-info"))
	if err != nil {
		return fmt.Errorf("glob egg-info: %w", err)
	}
	stale = append(stale, eggInfo...)

	for _, dir := range stale {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove %s: %w", dir, err)
		}
	}
	return nil
}

func (p *Publisher) verify(ctx context.Context) error {
	for _, command := range p.cfg.VerifyCommands {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := p.cfg.Runner.Run(p.git.RepoPath(), "sh", "-c", command); err != nil {
			return &VerificationError{Command: command, Err: err}
		}
	}
	return nil
}

func (p *Publisher) build(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.cfg.Runner.Run(p.git.RepoPath(), "sh", "-c", p.cfg.BuildCommand); err != nil {
		return &BuildError{Command: p.cfg.BuildCommand, Err: err}
	}
	return nil
}

func (p *Publisher) collectArtifacts(rel *Release) error {
	distDir := filepath.Join(p.git.RepoPath(), p.cfg.DistDir)

	entries, err := os.ReadDir(distDir)
	if err != nil {
		return &BuildError{Err: fmt.Errorf("read %s: %w", p.cfg.DistDir, err)}
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.Contains(name, rel.Version) {
			return &BuildError{Err: fmt.Errorf(
				"artifact %s does not embed version %s", name, rel.Version)}
		}

		path := filepath.Join(distDir, name)
		digests, err := FileDigests(path)
		if err != nil {
			return &BuildError{Err: err}
		}
		rel.Artifacts = append(rel.Artifacts, Artifact{
			Path:    path,
			Name:    name,
			Digests: digests,
		})
	}

	if len(rel.Artifacts) == 0 {
		return &BuildError{Err: ErrNoArtifacts}
	}
	return nil
}

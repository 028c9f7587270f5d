package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sileht/zuup/config"
	zuuperrors "github.com/sileht/zuup/errors"
	"github.com/sileht/zuup/forge"
	"github.com/sileht/zuup/git"
	"github.com/sileht/zuup/notify"
	"github.com/sileht/zuup/release"
	"github.com/sileht/zuup/sign"
)

type releaseOptions struct {
	branch  string
	distDir string
	doForge bool
	doSign  bool
	signKey string
	remote  string
}

func newReleaseCmd() *cobra.Command {
	var opts releaseOptions

	cmd := &cobra.Command{
		Use:   "release <version>",
		Short: "Tag, verify, build and stage a release",
		Long: `release runs the publish pipeline for one version: checks the tree
is clean, tags the integration branch, checks the tag out, cleans,
verifies, builds the distributions and prints their digests together
with the push and upload commands to run next.

Nothing is pushed or uploaded. A failure after the tag was created
leaves the tag in place and names it so you can remove it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelease(cmd.Context(), args[0], &opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.branch, "branch", "", "integration branch to release from")
	f.StringVar(&opts.distDir, "dist-dir", "", "build output directory")
	f.BoolVar(&opts.doForge, "forge", false, "also create a release on the forge (GitHub/GitLab)")
	f.BoolVar(&opts.doSign, "sign", false, "write detached PGP signatures for the artifacts")
	f.StringVar(&opts.signKey, "sign-key", "", "armored private key file for --sign")
	f.StringVar(&opts.remote, "remote", "origin", "remote used for forge detection")

	return cmd
}

func runRelease(ctx context.Context, version string, opts *releaseOptions) error {
	resolver := config.NewResolver(config.ResolverConfig{})
	cfg := resolver.ResolveWithFlags(map[string]string{
		"branch":   opts.branch,
		"dist_dir": opts.distDir,
	})

	gitCtx, err := git.NewContext(".")
	if err != nil {
		return zuuperrors.NewNotInGitRepoError()
	}

	pub := release.NewPublisher(gitCtx, release.Config{
		Branch:         cfg.Get("branch"),
		DistDir:        cfg.Get("dist_dir"),
		VerifyCommands: cfg.GetList("verify_commands"),
		BuildCommand:   cfg.Get("build_command"),
		PushRemote:     cfg.Get("push_remote"),
	})

	notifier := newNotifier(cfg.Get("notify_webhook"))

	rel, err := pub.Publish(ctx, version)
	if err != nil {
		announce(ctx, notifier, notify.Event{
			Type:    notify.EventReleaseFailed,
			Version: version,
			Tag:     version,
			Message: err.Error(),
		})
		return describeReleaseFailure(err)
	}

	announce(ctx, notifier, notify.Event{
		Type:      notify.EventReleasePublished,
		Version:   rel.Version,
		Tag:       rel.Tag,
		Commit:    rel.Commit,
		Message:   fmt.Sprintf("Release version %s", rel.Version),
		Artifacts: artifactNames(rel),
	})

	if opts.doSign {
		if err := signArtifacts(rel, opts.signKey); err != nil {
			return err
		}
	}

	if opts.doForge {
		if err := publishToForge(ctx, gitCtx, rel, opts); err != nil {
			return err
		}
	}

	return nil
}

func signArtifacts(rel *release.Release, keyPath string) error {
	if keyPath == "" {
		return &zuuperrors.CLIError{
			Message:    "--sign needs a key.",
			Suggestion: "Pass --sign-key with an armored private key file.",
		}
	}

	signer, err := sign.LoadKeyFile(keyPath, os.Getenv("ZUUP_SIGN_PASSPHRASE"))
	if err != nil {
		return fmt.Errorf("load signing key: %w", err)
	}

	paths := artifactPaths(rel)
	sigs, err := signer.SignAll(paths)
	if err != nil {
		return err
	}

	fmt.Println("Signed:")
	for _, sig := range sigs {
		fmt.Printf("  %s\n", sig)
	}
	return nil
}

func publishToForge(ctx context.Context, gitCtx *git.Context, rel *release.Release, opts *releaseOptions) error {
	remoteURL, err := gitCtx.GetRemoteURL(opts.remote)
	if err != nil {
		return fmt.Errorf("resolve remote %s: %w", opts.remote, err)
	}

	provider, err := forge.ProviderFromEnv(remoteURL)
	if err != nil {
		return err
	}

	assets := artifactPaths(rel)
	for _, path := range assets {
		if sig := path + ".asc"; fileExists(sig) {
			assets = append(assets, sig)
		}
	}

	published, err := provider.CreateRelease(ctx, forge.ReleaseOptions{
		Tag:        rel.Tag,
		Name:       fmt.Sprintf("Release version %s", rel.Version),
		Body:       forgeReleaseBody(rel),
		Prerelease: release.IsPrerelease(rel.Version),
		Assets:     assets,
	})
	if err != nil {
		return fmt.Errorf("forge release: %w", err)
	}

	fmt.Printf("Forge release: %s\n", published.URL)
	return nil
}

func forgeReleaseBody(rel *release.Release) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Release version %s (%s)\n\n", rel.Version, rel.Commit)
	for _, artifact := range rel.Artifacts {
		fmt.Fprintf(&b, "- %s (sha1 %s)\n", artifact.Name, artifact.Digests.SHA1)
	}
	return b.String()
}

// newNotifier returns a webhook notifier when one is configured and
// falls back to logging the event otherwise.
func newNotifier(webhookURL string) notify.Notifier {
	if webhookURL == "" {
		return notify.NewLogNotifier(nil)
	}
	return notify.NewWebhookNotifier(webhookURL, nil)
}

// announce sends a release event; a failed notification is logged and
// otherwise ignored.
func announce(ctx context.Context, notifier notify.Notifier, event notify.Event) {
	if err := notifier.Notify(ctx, event); err != nil {
		slog.Warn("release notification failed", "error", err, "type", event.Type)
	}
}

func artifactNames(rel *release.Release) []string {
	names := make([]string, 0, len(rel.Artifacts))
	for _, artifact := range rel.Artifacts {
		names = append(names, artifact.Name)
	}
	return names
}

func artifactPaths(rel *release.Release) []string {
	paths := make([]string, 0, len(rel.Artifacts))
	for _, artifact := range rel.Artifacts {
		paths = append(paths, artifact.Path)
	}
	return paths
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// describeReleaseFailure attaches recovery hints to the errors an
// operator can act on directly.
func describeReleaseFailure(err error) error {
	var left *release.TagLeftBehindError
	if errors.As(err, &left) {
		return &zuuperrors.CLIError{
			Err:        err,
			Message:    fmt.Sprintf("Release failed after tag %s was created.", left.Tag),
			Details:    left.Err.Error(),
			Suggestion: fmt.Sprintf("The tag was not rolled back. Run `git tag -d %s` before retrying.", left.Tag),
		}
	}

	if errors.Is(err, git.ErrDirtyTree) {
		return &zuuperrors.CLIError{
			Err:        err,
			Message:    "The working tree has uncommitted changes.",
			Suggestion: "Commit or `git stash` them, then rerun the release.",
		}
	}

	if errors.Is(err, git.ErrTagExists) {
		return &zuuperrors.CLIError{
			Err:        err,
			Message:    "A tag with this version already exists.",
			Suggestion: "Pick a new version, or delete the old tag with `git tag -d` if it was never pushed.",
		}
	}

	return err
}

package main

import (
	"context"
	"fmt"
	"os/user"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sileht/zuup/config"
	zuuperrors "github.com/sileht/zuup/errors"
	"github.com/sileht/zuup/gerrit"
	"github.com/sileht/zuup/git"
	"github.com/sileht/zuup/status"
	"github.com/sileht/zuup/zuul"
)

type statusOptions struct {
	user       string
	projects   []string
	changes    []string
	local      bool
	repo       bool
	short      bool
	running    bool
	watch      bool
	watchExit  bool
	delay      int
	expiration int
}

func newStatusCmd() *cobra.Command {
	var opts statusOptions

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show where your reviews stand in the zuul pipelines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.user, "user", "u", "", "gerrit username to list reviews for")
	f.StringArrayVarP(&opts.projects, "project", "p", nil, "project to list reviews for (repeatable)")
	f.StringArrayVarP(&opts.changes, "change", "c", nil, "change number, Change-Id or review URL (repeatable)")
	f.BoolVarP(&opts.local, "local", "l", false, "look up the Change-Ids of local unmerged commits")
	f.BoolVarP(&opts.repo, "repo", "r", false, "restrict to the current repository's gerrit project")
	f.BoolVarP(&opts.short, "short", "s", false, "one line per review, one letter per job")
	f.BoolVarP(&opts.running, "running", "R", false, "hide finished successful jobs")
	f.BoolVarP(&opts.watch, "watch", "d", false, "keep refreshing until interrupted")
	f.BoolVarP(&opts.watchExit, "watch-exit", "D", false, "like --watch, but exit once no reviews remain")
	f.IntVarP(&opts.delay, "delay", "w", 0, "refresh interval in seconds")
	f.IntVarP(&opts.expiration, "expiration", "e", 0, "minutes a finished review stays on screen")

	return cmd
}

func runStatus(ctx context.Context, opts *statusOptions) error {
	resolver := config.NewResolver(config.ResolverConfig{})
	cfg := resolver.ResolveWithFlags(map[string]string{
		"gerrit_user": opts.user,
		"delay":       flagInt(opts.delay),
		"expiration":  flagInt(opts.expiration),
	})

	changes := append([]string(nil), opts.changes...)
	projects := append([]string(nil), opts.projects...)

	if opts.local || opts.repo {
		gitCtx, err := git.NewContext(".")
		if err != nil {
			return zuuperrors.NewNotInGitRepoError()
		}

		if opts.local {
			upstream := cfg.Get("push_remote") + "/" + cfg.Get("branch")
			ids, err := gitCtx.LocalChangeIDs(upstream)
			if err != nil {
				return fmt.Errorf("list local changes: %w", err)
			}
			changes = append(changes, ids...)
		}

		if opts.repo {
			project, err := gitCtx.GerritProject()
			if err != nil {
				return fmt.Errorf("derive gerrit project: %w", err)
			}
			projects = append(projects, project)
		}
	}

	// Owner queries only happen for an explicitly configured username;
	// the SSH login falls back to the OS user, like plain ssh would.
	username := cfg.Get("gerrit_user")

	// Without any selector there is nothing to ask gerrit, so skip the
	// SSH connection entirely and let the display report the empty set.
	var querier gerrit.Querier
	if username != "" || len(changes) > 0 || len(projects) > 0 {
		sshUser := username
		if sshUser == "" {
			current, err := user.Current()
			if err != nil {
				return &zuuperrors.CLIError{
					Err:        err,
					Message:    "No gerrit username available.",
					Suggestion: "Pass --user or set gerrit_user in the configuration.",
				}
			}
			sshUser = current.Username
		}

		gerritEndpoint := fmt.Sprintf("%s:%d", cfg.Get("gerrit_host"), cfg.GetInt("gerrit_port", gerrit.DefaultPort))
		client, err := gerrit.NewClient(gerrit.ClientConfig{
			Host: cfg.Get("gerrit_host"),
			Port: cfg.GetInt("gerrit_port", gerrit.DefaultPort),
			User: sshUser,
		})
		if err != nil {
			return zuuperrors.WrapConnectionError(err, gerritEndpoint)
		}
		defer client.Close()
		querier = client
	}

	zuulClient := zuul.NewClient(zuul.ClientConfig{
		StatusURL: cfg.Get("zuul_url"),
	})

	renderer := &status.Renderer{
		Short:       opts.short,
		RunningOnly: opts.running,
	}

	monitor := &status.Monitor{
		Fetch: func(ctx context.Context) (map[string]string, error) {
			return fetchRendered(ctx, querier, zuulClient, renderer, username, changes, projects, cfg)
		},
		Watch:         opts.watch || opts.watchExit,
		ExitWhenEmpty: opts.watchExit,
		Delay:         time.Duration(cfg.GetInt("delay", 60)) * time.Second,
		Expiration:    time.Duration(cfg.GetInt("expiration", 10)) * time.Minute,
	}

	return monitor.Run(ctx)
}

// fetchRendered queries gerrit, matches the reviews against the zuul
// status tree and renders each hit. The map key orders the display by
// review URL, then pipeline.
func fetchRendered(ctx context.Context, querier gerrit.Querier, zuulClient *zuul.Client,
	renderer *status.Renderer, username string, changes, projects []string,
	cfg *config.Resolved) (map[string]string, error) {

	if querier == nil {
		return nil, nil
	}

	reviews, err := gerrit.CollectReviews(ctx, querier, username, changes, projects)
	if err != nil {
		endpoint := fmt.Sprintf("%s:%d", cfg.Get("gerrit_host"), cfg.GetInt("gerrit_port", gerrit.DefaultPort))
		return nil, zuuperrors.WrapConnectionError(err, endpoint)
	}
	if len(reviews) == 0 {
		return nil, nil
	}

	zuulStatus, err := zuulClient.Fetch(ctx)
	if err != nil {
		return nil, zuuperrors.WrapConnectionError(err, cfg.Get("zuul_url"))
	}

	urls := make(map[string]bool, len(reviews))
	for url := range reviews {
		urls[url] = true
	}

	rendered := make(map[string]string)
	for _, loc := range zuulStatus.Find(urls) {
		key := loc.Change.URL + " " + loc.Pipeline
		rendered[key] = renderer.Review(loc, reviews[loc.Change.URL])
	}
	return rendered, nil
}

// flagInt turns an int flag into its override value, empty when unset.
func flagInt(v int) string {
	if v <= 0 {
		return ""
	}
	return strconv.Itoa(v)
}

package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sileht/zuup/config"
	"github.com/sileht/zuup/status"
)

func TestRootHasSubcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"status", "release"} {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("root command is missing %q", name)
		}
	}
}

func TestFetchRendered_NoSelectors(t *testing.T) {
	cfg := config.NewResolver(config.ResolverConfig{
		GlobalPath: filepath.Join(t.TempDir(), "missing.yaml"),
		LocalPath:  filepath.Join(t.TempDir(), "missing.yaml"),
		Environ:    func(string) string { return "" },
	}).Resolve()

	// No username, changes or projects means no gerrit connection was
	// made, so there is no querier and nothing to render.
	out, err := fetchRendered(context.Background(), nil, nil, &status.Renderer{}, "", nil, nil, cfg)
	if err != nil {
		t.Fatalf("fetchRendered: %v", err)
	}
	if out != nil {
		t.Errorf("rendered = %v, want none", out)
	}
}

func TestStatusFlagShorthands(t *testing.T) {
	cmd := newStatusCmd()

	shorthands := map[string]string{
		"user":       "u",
		"project":    "p",
		"change":     "c",
		"local":      "l",
		"repo":       "r",
		"short":      "s",
		"running":    "R",
		"watch":      "d",
		"watch-exit": "D",
		"delay":      "w",
		"expiration": "e",
	}

	for name, short := range shorthands {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			t.Errorf("flag --%s missing", name)
			continue
		}
		if f.Shorthand != short {
			t.Errorf("flag --%s shorthand = %q, want %q", name, f.Shorthand, short)
		}
	}
}

func TestFlagInt(t *testing.T) {
	if got := flagInt(0); got != "" {
		t.Errorf("flagInt(0) = %q, want empty", got)
	}
	if got := flagInt(30); got != "30" {
		t.Errorf("flagInt(30) = %q", got)
	}
}

func TestIsHelpOrVersion(t *testing.T) {
	if !isHelpOrVersion([]string{"--help"}) {
		t.Error("--help should bypass the status default")
	}
	if isHelpOrVersion([]string{"-s", "-u", "someone"}) {
		t.Error("status flags should fall through to the status default")
	}
	if isHelpOrVersion(nil) {
		t.Error("a bare invocation should fall through to the status default")
	}
}

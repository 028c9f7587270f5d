package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeYAML(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func noEnv(string) string { return "" }

func TestResolve_Defaults(t *testing.T) {
	r := NewResolver(ResolverConfig{
		GlobalPath: filepath.Join(t.TempDir(), "missing.yaml"),
		LocalPath:  filepath.Join(t.TempDir(), "missing.yaml"),
		Environ:    noEnv,
	})

	cfg := r.Resolve()

	if got := cfg.Get("gerrit_host"); got != "review.openstack.org" {
		t.Errorf("gerrit_host = %q", got)
	}
	if got := cfg.GetInt("delay", 0); got != 60 {
		t.Errorf("delay = %d, want 60", got)
	}
	if got := cfg.Source("gerrit_host"); got != SourceDefault {
		t.Errorf("source = %q, want default", got)
	}
}

func TestResolve_Priority(t *testing.T) {
	dir := t.TempDir()
	global := writeYAML(t, dir, "global.yaml", "gerrit_user: alice\ndelay: 30\n")
	local := writeYAML(t, dir, "local.yaml", "delay: 15\n")

	env := map[string]string{"ZUUP_BRANCH": "main"}
	r := NewResolver(ResolverConfig{
		GlobalPath: global,
		LocalPath:  local,
		Environ:    func(k string) string { return env[k] },
	})

	cfg := r.Resolve()

	tests := []struct {
		key    string
		want   string
		source Source
	}{
		{"gerrit_user", "alice", SourceGlobal},
		{"delay", "15", SourceLocal},
		{"branch", "main", SourceEnv},
		{"gerrit_port", "29418", SourceDefault},
	}
	for _, tt := range tests {
		if got := cfg.Get(tt.key); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.key, got, tt.want)
		}
		if got := cfg.Source(tt.key); got != tt.source {
			t.Errorf("%s source = %q, want %q", tt.key, got, tt.source)
		}
	}
}

func TestResolveWithFlags(t *testing.T) {
	r := NewResolver(ResolverConfig{
		GlobalPath: filepath.Join(t.TempDir(), "missing.yaml"),
		LocalPath:  filepath.Join(t.TempDir(), "missing.yaml"),
		Environ:    noEnv,
	})

	cfg := r.ResolveWithFlags(map[string]string{
		"branch": "stable/queens",
		"delay":  "", // empty flag values never override
	})

	if got := cfg.Get("branch"); got != "stable/queens" {
		t.Errorf("branch = %q", got)
	}
	if got := cfg.Source("branch"); got != SourceFlag {
		t.Errorf("branch source = %q", got)
	}
	if got := cfg.Get("delay"); got != "60" {
		t.Errorf("delay = %q, want default", got)
	}
}

func TestResolve_UnknownKeyWarns(t *testing.T) {
	dir := t.TempDir()
	global := writeYAML(t, dir, "global.yaml", "no_such_key: 1\n")

	var warnings bytes.Buffer
	r := NewResolver(ResolverConfig{
		GlobalPath: global,
		LocalPath:  filepath.Join(dir, "missing.yaml"),
		Environ:    noEnv,
		ErrWriter:  &warnings,
	})

	r.Resolve()

	if len(r.Warnings) != 1 {
		t.Fatalf("warnings = %v, want 1 entry", r.Warnings)
	}
	if warnings.Len() == 0 {
		t.Error("warning should be written to ErrWriter")
	}
}

func TestGetList(t *testing.T) {
	r := NewResolver(ResolverConfig{
		GlobalPath: filepath.Join(t.TempDir(), "missing.yaml"),
		LocalPath:  filepath.Join(t.TempDir(), "missing.yaml"),
		Environ:    noEnv,
	})

	cfg := r.Resolve()

	commands := cfg.GetList("verify_commands")
	want := []string{"tox -e pep8", "tox -e py27", "tox -e py34"}
	if len(commands) != len(want) {
		t.Fatalf("commands = %v", commands)
	}
	for i := range want {
		if commands[i] != want[i] {
			t.Errorf("commands[%d] = %q, want %q", i, commands[i], want[i])
		}
	}
}

package config

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to upper-cased key names for environment
// variable lookup, e.g. key "zuul_url" maps to ZUUP_ZUUL_URL.
const EnvPrefix = "ZUUP_"

// Defaults are the built-in configuration values.
var Defaults = map[string]string{
	"gerrit_host":     "review.openstack.org",
	"gerrit_port":     "29418",
	"gerrit_user":     "",
	"zuul_url":        "http://zuul.openstack.org/status.json",
	"delay":           "60",
	"expiration":      "10",
	"branch":          "master",
	"dist_dir":        "dist",
	"push_remote":     "gerrit",
	"verify_commands": "tox -e pep8,tox -e py27,tox -e py34",
	"build_command":   "python setup.py sdist bdist_wheel",
	"notify_webhook":  "",
}

// ResolverConfig configures the hierarchical config resolver.
type ResolverConfig struct {
	// GlobalPath overrides the global config location
	// (default ~/.config/zuup/config.yaml).
	GlobalPath string

	// LocalPath overrides the local config location
	// (default .zuup.yaml at the git root).
	LocalPath string

	// Environ overrides the environment lookup, for tests.
	// Defaults to os.Getenv.
	Environ func(string) string

	// ErrWriter is where warnings are written.
	// Defaults to os.Stderr if nil.
	ErrWriter io.Writer
}

// Resolver handles hierarchical configuration resolution.
type Resolver struct {
	config ResolverConfig

	// Warnings collects non-fatal issues during resolution.
	Warnings []string
}

// NewResolver creates a new configuration resolver, locating the global
// and local config files when no explicit paths were given.
func NewResolver(cfg ResolverConfig) *Resolver {
	if cfg.ErrWriter == nil {
		cfg.ErrWriter = os.Stderr
	}
	if cfg.Environ == nil {
		cfg.Environ = os.Getenv
	}

	if cfg.GlobalPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.GlobalPath = filepath.Join(home, ".config", "zuup", "config.yaml")
		}
	}
	if cfg.LocalPath == "" {
		if root := findGitRoot("."); root != "" {
			cfg.LocalPath = filepath.Join(root, ".zuup.yaml")
		}
	}

	return &Resolver{config: cfg}
}

// warn adds a warning and prints it.
func (r *Resolver) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
	fmt.Fprintf(r.config.ErrWriter, "Warning: %s\n", msg)
}

// Resolved holds the final merged configuration.
type Resolved struct {
	values  map[string]string
	sources map[string]Source
}

// Get returns the value for a key, or empty string if not set.
func (c *Resolved) Get(key string) string {
	return c.values[key]
}

// GetInt returns an integer value, or the fallback when the value is
// missing or malformed.
func (c *Resolved) GetInt(key string, fallback int) int {
	n, err := strconv.Atoi(c.values[key])
	if err != nil {
		return fallback
	}
	return n
}

// GetList returns a comma-separated value split into its entries.
func (c *Resolved) GetList(key string) []string {
	raw := c.values[key]
	if raw == "" {
		return nil
	}
	var list []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

// Source returns the source of a key's value.
func (c *Resolved) Source(key string) Source {
	return c.sources[key]
}

// Keys returns all configuration keys.
func (c *Resolved) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	return keys
}

// Resolve builds the final config by merging all sources.
// Priority (highest to lowest): env > local > global > defaults.
func (r *Resolver) Resolve() *Resolved {
	cfg := &Resolved{
		values:  make(map[string]string),
		sources: make(map[string]Source),
	}

	for key, value := range Defaults {
		cfg.values[key] = value
		cfg.sources[key] = SourceDefault
	}

	r.applyFile(cfg, r.config.GlobalPath, SourceGlobal)
	r.applyFile(cfg, r.config.LocalPath, SourceLocal)
	r.applyEnv(cfg)

	return cfg
}

// ResolveWithFlags resolves config and applies flag overrides.
func (r *Resolver) ResolveWithFlags(flags map[string]string) *Resolved {
	cfg := r.Resolve()

	for key, value := range flags {
		if value != "" {
			cfg.values[key] = value
			cfg.sources[key] = SourceFlag
		}
	}

	return cfg
}

func (r *Resolver) applyFile(cfg *Resolved, path string, source Source) {
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return // File doesn't exist - not an error
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		r.warn(fmt.Sprintf("could not parse %s: %v", path, err))
		return
	}

	for key, value := range parsed {
		if _, known := Defaults[key]; !known {
			r.warn(fmt.Sprintf("%s: unknown key %q ignored", path, key))
			continue
		}
		if strVal := toString(value); strVal != "" {
			cfg.values[key] = strVal
			cfg.sources[key] = source
		}
	}
}

func (r *Resolver) applyEnv(cfg *Resolved) {
	for key := range Defaults {
		envKey := EnvPrefix + strings.ToUpper(key)
		if value := r.config.Environ(envKey); value != "" {
			cfg.values[key] = value
			cfg.sources[key] = SourceEnv
		}
	}
}

// toString converts a parsed YAML scalar to its string form.
func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return ""
	}
}

// findGitRoot walks up from startDir looking for a .git entry, asking
// git itself as a fallback for worktrees and submodules.
func findGitRoot(startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = startDir
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// Package config resolves zuup configuration from its sources, in
// priority order: command-line flags, ZUUP_* environment variables, the
// .zuup.yaml file at the git root, ~/.config/zuup/config.yaml, and
// built-in defaults. Each resolved key remembers which source supplied
// its value.
package config

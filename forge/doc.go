// Package forge publishes releases to code hosting platforms.
//
// A Provider mirrors a tagged release to its forge: it creates the
// release object for the tag and attaches the built artifacts. GitHub
// and GitLab are supported, detected from the repository remote URL.
//
// Tokens come from the environment (GITHUB_TOKEN, GITLAB_TOKEN, or
// GIT_TOKEN as a fallback for either).
package forge

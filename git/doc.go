// Package git provides the git operations zuup needs: branch and tag
// checkout, signed tag creation, working tree cleaning, and Change-Id
// extraction for Gerrit review matching.
//
// Core types:
//   - Context: repository handle with per-operation methods
//   - CommandRunner: interface for executing git commands (with mock for testing)
//
// Example usage:
//
//	gitCtx, _ := git.NewContext(".")
//	err := gitCtx.CreateSignedTag("1.2.0", "Release version 1.2.0")
package git

// Package errors defines the user-facing error surface of the zuup CLI:
// sentinel errors shared across packages and CLIError, which pairs an
// underlying error with an actionable suggestion for the operator.
package errors

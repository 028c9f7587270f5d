// Package gerrit collects open reviews from a Gerrit server over its
// SSH query interface, authenticating through the local ssh-agent.
//
// Queries use `gerrit query status:open ... --format json`, which
// returns one JSON document per line followed by a stats row; the
// package parses that stream into Review values keyed by review URL.
package gerrit

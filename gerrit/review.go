package gerrit

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Review is one open Gerrit review as returned by the query interface.
type Review struct {
	Project       string `json:"project"`
	Branch        string `json:"branch"`
	ID            string `json:"id"`
	Number        string `json:"number"`
	Subject       string `json:"subject"`
	URL           string `json:"url"`
	CommitMessage string `json:"commitMessage"`
	Status        string `json:"status"`
	Owner         Owner  `json:"owner"`
}

// Owner identifies the review author.
type Owner struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Subject line of the commit, derived from the full message when the
// query response omitted the subject field.
func (r Review) SubjectLine() string {
	if r.Subject != "" {
		return r.Subject
	}
	line, _, _ := strings.Cut(r.CommitMessage, "\n")
	return line
}

// ParseQueryOutput parses the line-delimited JSON stream produced by
// `gerrit query --format json`. Rows carrying a "type" field (the
// trailing stats row, error rows) are skipped. Reviews are keyed by
// their URL.
func ParseQueryOutput(output string) (map[string]Review, error) {
	reviews := make(map[string]Review)

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var probe struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal([]byte(line), &probe); err != nil {
			return nil, fmt.Errorf("parse query row: %w", err)
		}
		if probe.Type != "" {
			continue
		}

		var review Review
		if err := json.Unmarshal([]byte(line), &review); err != nil {
			return nil, fmt.Errorf("parse review row: %w", err)
		}
		if review.URL == "" {
			continue
		}
		reviews[review.URL] = review
	}

	return reviews, nil
}

package git

import (
	"regexp"
	"strings"
)

var changeIDPattern = regexp.MustCompile(`(?m)^Change-Id:\s*(I[0-9a-f]{40})\s*$`)

// ExtractChangeID returns the Change-Id trailer from a commit message,
// or empty string if the message carries none.
func ExtractChangeID(message string) string {
	m := changeIDPattern.FindStringSubmatch(message)
	if m == nil {
		return ""
	}
	return m[1]
}

// LocalChangeIDs returns the Change-Ids of commits not yet merged into
// the upstream ref, deduplicated, in first-seen order. Commits without
// a Change-Id trailer are skipped.
func (g *Context) LocalChangeIDs(upstream string) ([]string, error) {
	messages, err := g.CommitMessages(upstream)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var ids []string
	for _, message := range messages {
		id := ExtractChangeID(message)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// GerritProject derives the Gerrit project name from the repository's
// gerrit remote URL (the last two path segments, without ".git").
func (g *Context) GerritProject() (string, error) {
	url, err := g.ConfigGet("remote.gerrit.url")
	if err != nil {
		return "", err
	}

	parts := strings.Split(strings.TrimSuffix(url, "/"), "/")
	if len(parts) < 2 {
		return strings.TrimSuffix(url, ".git"), nil
	}
	project := parts[len(parts)-2] + "/" + parts[len(parts)-1]
	return strings.TrimSuffix(project, ".git"), nil
}

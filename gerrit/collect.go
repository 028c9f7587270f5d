package gerrit

import (
	"context"
	"fmt"
)

// CollectReviews gathers the open reviews selected by the caller:
// explicit changes, per-project reviews (restricted to the owner when a
// username is set), and all reviews owned by the username. Results from
// every query are merged, keyed by review URL.
func CollectReviews(ctx context.Context, q Querier, username string, changes, projects []string) (map[string]Review, error) {
	reviews := make(map[string]Review)

	merge := func(terms string) error {
		found, err := q.Query(ctx, terms)
		if err != nil {
			return err
		}
		for url, review := range found {
			reviews[url] = review
		}
		return nil
	}

	owner := ""
	if username != "" {
		owner = fmt.Sprintf("owner:%s", username)
	}

	for _, change := range changes {
		if err := merge(fmt.Sprintf("change:%s", NormalizeChange(change))); err != nil {
			return nil, err
		}
	}

	for _, project := range projects {
		terms := fmt.Sprintf("project:%s", FullProject(project))
		if owner != "" {
			terms = owner + " " + terms
		}
		if err := merge(terms); err != nil {
			return nil, err
		}
	}

	if owner != "" {
		if err := merge(owner); err != nil {
			return nil, err
		}
	}

	return reviews, nil
}

package project

import (
	"slices"
	"strings"

	"github.com/matzehuels/folio/pkg/integrations/github"
)

// Filter returns the repositories that belong in a portfolio, in input order.
// Forks are dropped unless opts.IncludeForks is set, as are repositories
// whose description contains an exclude keyword and, with
// opts.ExcludeArchived, archived repositories.
func Filter(repos []github.Repo, opts Options) []github.Repo {
	keywords := opts.ExcludeKeywords
	if keywords == nil {
		keywords = DefaultExcludeKeywords
	}

	out := make([]github.Repo, 0, len(repos))
	for _, r := range repos {
		switch {
		case r.Fork && !opts.IncludeForks:
		case r.Archived && opts.ExcludeArchived:
		case excluded(r.Description, keywords):
		default:
			out = append(out, r)
		}
	}
	return out
}

func excluded(description *string, keywords []string) bool {
	if description == nil {
		return false
	}
	return slices.ContainsFunc(keywords, func(k string) bool {
		return strings.Contains(*description, k)
	})
}

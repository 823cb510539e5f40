// Package classify scores question/answer records against category profiles
// and resolves the scores to a single category.
package classify

import "github.com/cognicore/qacurate/pkg/qacurate/normalize"

// Profile is the keyword configuration for one category. Terms are stored
// normalized; build profiles with NewProfile.
type Profile struct {
	Name           string
	EntityTerms    []string
	ContextTerms   []string
	ExclusionTerms []string
	Boost          int
}

// NewProfile normalizes and de-duplicates the given terms.
func NewProfile(name string, entityTerms, contextTerms, exclusionTerms []string, boost int) Profile {
	return Profile{
		Name:           name,
		EntityTerms:    normalizeTerms(entityTerms),
		ContextTerms:   normalizeTerms(contextTerms),
		ExclusionTerms: normalizeTerms(exclusionTerms),
		Boost:          boost,
	}
}

func normalizeTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		n := normalize.Text(t)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

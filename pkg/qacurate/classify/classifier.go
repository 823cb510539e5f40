package classify

import "github.com/cognicore/qacurate/pkg/qacurate/dataset"

// Decision is the outcome of classifying one record.
type Decision struct {
	Category string
	Raw      ScoreVector
	Adjusted ScoreVector
}

// Classified reports whether a category claimed the record.
func (d Decision) Classified(unclassified string) bool {
	return d.Category != unclassified
}

// Classifier combines a Scorer and a Resolver.
type Classifier struct {
	scorer   *Scorer
	resolver *Resolver
}

// NewClassifier wires a scorer to a resolver.
func NewClassifier(scorer *Scorer, resolver *Resolver) *Classifier {
	return &Classifier{scorer: scorer, resolver: resolver}
}

// NewFromProfiles builds a classifier whose priority order and boosts come
// from the profiles themselves.
func NewFromProfiles(profiles []Profile, weights Weights, generic string, penalty int, unclassified string) *Classifier {
	priority := make([]string, len(profiles))
	boosts := make(map[string]int, len(profiles))
	for i, p := range profiles {
		priority[i] = p.Name
		boosts[p.Name] = p.Boost
	}
	return NewClassifier(
		NewScorer(profiles, weights),
		NewResolver(ResolverOptions{
			Priority:       priority,
			Boosts:         boosts,
			Generic:        generic,
			GenericPenalty: penalty,
			Unclassified:   unclassified,
		}),
	)
}

// Classify scores and resolves one record.
func (c *Classifier) Classify(rec dataset.Record) Decision {
	raw := c.scorer.Score(rec)
	adj := c.resolver.Adjust(raw)
	return Decision{
		Category: c.resolver.pick(adj),
		Raw:      raw,
		Adjusted: adj,
	}
}

// Unclassified returns the resolver's unclassified label.
func (c *Classifier) Unclassified() string { return c.resolver.Unclassified() }

// Categories returns the category names in priority order.
func (c *Classifier) Categories() []string {
	return append([]string(nil), c.resolver.priority...)
}

package classify

// DefaultUnclassified is the label returned when no category scores.
const DefaultUnclassified = "unclassified"

// ResolverOptions configures tie-breaking and demotion.
type ResolverOptions struct {
	// Priority lists category names, most specific first. It drives both the
	// order boosts are applied in and tie-breaking.
	Priority []string
	// Boosts are added to a category's score when it is already positive.
	Boosts map[string]int
	// Generic is demoted by GenericPenalty when any other category scores.
	Generic        string
	GenericPenalty int
	Unclassified   string
}

// Resolver turns a ScoreVector into a single category. It holds no mutable
// state and is safe for concurrent use.
type Resolver struct {
	priority     []string
	boosts       map[string]int
	generic      string
	penalty      int
	unclassified string
}

// NewResolver creates a resolver from the given options.
func NewResolver(opts ResolverOptions) *Resolver {
	boosts := make(map[string]int, len(opts.Boosts))
	for k, v := range opts.Boosts {
		boosts[k] = v
	}
	unclassified := opts.Unclassified
	if unclassified == "" {
		unclassified = DefaultUnclassified
	}
	return &Resolver{
		priority:     append([]string(nil), opts.Priority...),
		boosts:       boosts,
		generic:      opts.Generic,
		penalty:      opts.GenericPenalty,
		unclassified: unclassified,
	}
}

// Unclassified returns the label used for records no category claims.
func (r *Resolver) Unclassified() string { return r.unclassified }

// Adjust returns a copy of v with boosts and the generic demotion applied.
// Boosts are tie-break weights: a zero score stays zero.
func (r *Resolver) Adjust(v ScoreVector) ScoreVector {
	adj := v.Clone()
	for _, name := range r.priority {
		if adj[name] > 0 {
			adj[name] += r.boosts[name]
		}
	}

	if r.generic == "" || adj[r.generic] <= 0 {
		return adj
	}
	for _, name := range r.priority {
		if name != r.generic && adj[name] > 0 {
			adj[r.generic] -= r.penalty
			if adj[r.generic] < 0 {
				adj[r.generic] = 0
			}
			break
		}
	}
	return adj
}

// Resolve picks the highest adjusted score. Ties go to the category listed
// first in the priority order; an all-zero vector resolves to Unclassified.
func (r *Resolver) Resolve(v ScoreVector) string {
	return r.pick(r.Adjust(v))
}

func (r *Resolver) pick(adj ScoreVector) string {
	best, bestScore := r.unclassified, 0
	for _, name := range r.priority {
		if s := adj[name]; s > bestScore {
			best, bestScore = name, s
		}
	}
	return best
}

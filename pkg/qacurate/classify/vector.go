package classify

// ScoreVector maps a category name to its non-negative score for one record.
// Treat it as immutable once returned; Resolver works on a copy.
type ScoreVector map[string]int

// Clone returns an independent copy.
func (v ScoreVector) Clone() ScoreVector {
	out := make(ScoreVector, len(v))
	for k, s := range v {
		out[k] = s
	}
	return out
}

// Positive returns the number of categories with a score above zero.
func (v ScoreVector) Positive() int {
	n := 0
	for _, s := range v {
		if s > 0 {
			n++
		}
	}
	return n
}

// Zero reports whether no category scored.
func (v ScoreVector) Zero() bool { return v.Positive() == 0 }

// Package balance caps each category of a grouped subset to its best-supported
// entities.
package balance

import (
	"sort"

	"github.com/cognicore/qacurate/pkg/qacurate/dataset"
)

// Balance ranks every category's entities by record count, descending, and
// keeps the first limit of them. Equal counts keep their arrival order. The
// input is left untouched and record slices are shared, not copied.
func Balance(grouped dataset.Subset, limit int) dataset.Subset {
	out := make(dataset.Subset, len(grouped))
	for cat, ents := range grouped {
		out[cat] = Rank(ents, limit)
	}
	return out
}

// Rank returns the top limit entities of ents by record count. A limit
// below one yields an empty slice.
func Rank(ents []dataset.Entity, limit int) []dataset.Entity {
	ranked := append([]dataset.Entity(nil), ents...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Len() > ranked[j].Len()
	})
	if limit < 0 {
		limit = 0
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

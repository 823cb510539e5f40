package classify

import (
	"strings"

	"github.com/cognicore/qacurate/pkg/qacurate/dataset"
	"github.com/cognicore/qacurate/pkg/qacurate/normalize"
)

// Weights are the score contributions of a single match.
type Weights struct {
	Entity  int // per entity term found in the question
	Context int // per occurrence of a context term in question+answer
}

// DefaultWeights mirrors the tuned corpus values.
var DefaultWeights = Weights{Entity: 5, Context: 1}

// Scorer scores records against every profile.
type Scorer struct {
	profiles []Profile
	weights  Weights
}

// NewScorer creates a scorer over the given profiles.
func NewScorer(profiles []Profile, weights Weights) *Scorer {
	return &Scorer{
		profiles: append([]Profile(nil), profiles...),
		weights:  weights,
	}
}

// Profiles returns the scorer's profiles in priority order.
func (s *Scorer) Profiles() []Profile {
	return append([]Profile(nil), s.profiles...)
}

// Score computes a ScoreVector with one entry per profile. Entity terms only
// count when they appear in the question; context terms count every
// occurrence in the question and answer together. A profile whose exclusion
// term appears anywhere in the record scores zero.
func (s *Scorer) Score(rec dataset.Record) ScoreVector {
	question := normalize.Text(rec.Question)
	combined := question + " " + normalize.Text(rec.Answer)

	vec := make(ScoreVector, len(s.profiles))
	for _, p := range s.profiles {
		vec[p.Name] = s.scoreProfile(p, question, combined)
	}
	return vec
}

func (s *Scorer) scoreProfile(p Profile, question, combined string) int {
	for _, ex := range p.ExclusionTerms {
		if strings.Contains(combined, ex) {
			return 0
		}
	}

	score := 0
	for _, term := range p.EntityTerms {
		if strings.Contains(question, term) {
			score += s.weights.Entity
		}
	}
	for _, term := range p.ContextTerms {
		score += s.weights.Context * strings.Count(combined, term)
	}
	return score
}

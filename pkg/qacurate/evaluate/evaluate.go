// Package evaluate scores a probed model's predictions against the gold
// answers of a curated subset.
package evaluate

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/cognicore/qacurate/pkg/qacurate/dataset"
	"github.com/cognicore/qacurate/pkg/qacurate/normalize"
)

// Score aggregates judgements over a set of records.
type Score struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
	MeanF1   float64 `json:"mean_f1"`

	sumF1 float64
}

func (s *Score) observe(correct bool, f1 float64) {
	s.Total++
	if correct {
		s.Correct++
	}
	s.sumF1 += f1
	s.Accuracy = float64(s.Correct) / float64(s.Total)
	s.MeanF1 = s.sumF1 / float64(s.Total)
}

// CategoryScore is the score of one category.
type CategoryScore struct {
	Name string `json:"name"`
	Score
}

// Summary is the outcome of Evaluate.
type Summary struct {
	Categories []CategoryScore `json:"categories"`
	Overall    Score           `json:"overall"`
	// Skipped counts records without a prediction.
	Skipped int `json:"skipped"`
}

// Evaluate judges every record that carries a prediction. Categories are
// reported in sorted order.
func Evaluate(s dataset.Subset) Summary {
	sum := Summary{Categories: []CategoryScore{}}
	for _, cat := range s.Categories() {
		cs := CategoryScore{Name: cat}
		for _, e := range s[cat] {
			for _, rec := range e.Records {
				if strings.TrimSpace(rec.Predicted) == "" {
					sum.Skipped++
					continue
				}
				correct, f1 := Judge(rec.Answer, rec.Predicted)
				cs.observe(correct, f1)
				sum.Overall.observe(correct, f1)
			}
		}
		sum.Categories = append(sum.Categories, cs)
	}
	return sum
}

// Judge reports whether the normalized gold answer occurs in the normalized
// prediction, along with their token-level F1.
func Judge(gold, predicted string) (bool, float64) {
	g, p := Normalize(gold), Normalize(predicted)
	return g != "" && strings.Contains(p, g), F1(g, p)
}

// Normalize lower-cases, folds accents and removes punctuation.
func Normalize(s string) string {
	s = normalize.Text(s)
	out, _, err := transform.String(runes.Remove(runes.In(unicode.Punct)), s)
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(out), " ")
}

// F1 is the harmonic mean of token precision and recall between two
// normalized strings. Two empty strings score 1.
func F1(gold, predicted string) float64 {
	gt, pt := strings.Fields(gold), strings.Fields(predicted)
	if len(gt) == 0 || len(pt) == 0 {
		if len(gt) == len(pt) {
			return 1
		}
		return 0
	}

	counts := make(map[string]int, len(gt))
	for _, t := range gt {
		counts[t]++
	}
	common := 0
	for _, t := range pt {
		if counts[t] > 0 {
			counts[t]--
			common++
		}
	}
	if common == 0 {
		return 0
	}
	precision := float64(common) / float64(len(pt))
	recall := float64(common) / float64(len(gt))
	return 2 * precision * recall / (precision + recall)
}

// Package validate prunes a balanced subset with per-category blacklists and
// keyword rules.
package validate

import (
	"fmt"
	"strings"

	"github.com/cognicore/qacurate/pkg/qacurate/dataset"
	"github.com/cognicore/qacurate/pkg/qacurate/normalize"
)

// Removal reasons.
const (
	ReasonBlacklisted     = "blacklisted"
	ReasonWrongDomain     = "wrong-domain ratio exceeded"
	ReasonMissingKeywords = "missing required keywords"
)

// Rule holds the cleaning rules of one category.
type Rule struct {
	// Blacklist entries are matched exactly against entity names.
	Blacklist []string
	// Strict categories keep an entity only if its text mentions at least one
	// required keyword.
	Strict           bool
	RequiredKeywords []string
	DomainRatio      *DomainRatio
}

// DomainRatio removes an entity whose text mentions Wrong keywords more than
// Margin times as often as Right keywords.
type DomainRatio struct {
	Wrong  []string
	Right  []string
	Margin int
}

// Removal records why an entity was dropped.
type Removal struct {
	Category string `json:"category"`
	Entity   string `json:"entity"`
	Reason   string `json:"reason"`
	Detail   string `json:"detail,omitempty"`
}

type compiledRule struct {
	blacklist map[string]struct{}
	strict    bool
	required  []string
	wrong     []string
	right     []string
	margin    int
	ratio     bool
}

// Validator applies rules keyed by category name. Categories without a rule
// pass through unchanged.
type Validator struct {
	rules map[string]compiledRule
}

// New compiles rules, normalizing every keyword.
func New(rules map[string]Rule) *Validator {
	v := &Validator{rules: make(map[string]compiledRule, len(rules))}
	for cat, r := range rules {
		cr := compiledRule{
			blacklist: make(map[string]struct{}, len(r.Blacklist)),
			strict:    r.Strict,
			required:  keywords(r.RequiredKeywords),
		}
		for _, name := range r.Blacklist {
			cr.blacklist[name] = struct{}{}
		}
		if r.DomainRatio != nil {
			cr.ratio = true
			cr.wrong = keywords(r.DomainRatio.Wrong)
			cr.right = keywords(r.DomainRatio.Right)
			cr.margin = r.DomainRatio.Margin
		}
		v.rules[cat] = cr
	}
	return v
}

// Clean returns a new subset without the entities that fail their category's
// rules, plus one Removal per dropped entity. The input is not modified and
// surviving entities keep their order.
func (v *Validator) Clean(s dataset.Subset) (dataset.Subset, []Removal) {
	out := make(dataset.Subset, len(s))
	var removals []Removal

	for _, cat := range s.Categories() {
		ents := s[cat]
		rule, ok := v.rules[cat]
		if !ok {
			out[cat] = append([]dataset.Entity(nil), ents...)
			continue
		}

		kept := make([]dataset.Entity, 0, len(ents))
		for _, e := range ents {
			if reason, detail, drop := rule.check(e); drop {
				removals = append(removals, Removal{
					Category: cat,
					Entity:   e.Name,
					Reason:   reason,
					Detail:   detail,
				})
				continue
			}
			kept = append(kept, e)
		}
		out[cat] = kept
	}
	return out, removals
}

// check applies the blacklist, domain ratio and required keywords in that
// order; the first failing rule decides.
func (r compiledRule) check(e dataset.Entity) (reason, detail string, drop bool) {
	if _, ok := r.blacklist[e.Name]; ok {
		return ReasonBlacklisted, "", true
	}

	if !r.ratio && !r.strict {
		return "", "", false
	}
	text := entityText(e)

	if r.ratio {
		wrong, right := countAll(text, r.wrong), countAll(text, r.right)
		if wrong-right > r.margin {
			return ReasonWrongDomain, fmt.Sprintf("wrong=%d right=%d", wrong, right), true
		}
	}

	if r.strict && len(r.required) > 0 && !containsAny(text, r.required) {
		return ReasonMissingKeywords, strings.Join(r.required, ", "), true
	}
	return "", "", false
}

// entityText is the normalized question and answer text of every record.
func entityText(e dataset.Entity) string {
	var b strings.Builder
	for _, rec := range e.Records {
		b.WriteString(normalize.Text(rec.Question))
		b.WriteByte(' ')
		b.WriteString(normalize.Text(rec.Answer))
		b.WriteByte(' ')
	}
	return b.String()
}

func countAll(text string, terms []string) int {
	n := 0
	for _, t := range terms {
		n += strings.Count(text, t)
	}
	return n
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func keywords(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if n := normalize.Text(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}

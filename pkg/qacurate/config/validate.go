package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/cognicore/qacurate/pkg/qacurate/internalerr"
	"github.com/cognicore/qacurate/pkg/qacurate/normalize"
)

// Validate reports every configuration problem at once. A category with no
// terms would silently never match, so it is rejected here rather than
// discovered after a run.
func (c *Config) Validate() error {
	var problems []error
	add := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	if c.Version != CurrentVersion {
		add("unsupported version %d (want %d)", c.Version, CurrentVersion)
	}
	if len(c.Categories) == 0 {
		add("no categories defined")
	}
	if c.PerCategoryLimit < 1 {
		add("per_category_limit must be at least 1, got %d", c.PerCategoryLimit)
	}
	if c.Weights.Entity < 0 || c.Weights.Context < 0 {
		add("weights must be non-negative")
	}
	if c.Weights.Entity == 0 && c.Weights.Context == 0 {
		add("weights entity and context are both zero")
	}
	if c.Generic.Penalty < 0 {
		add("generic penalty must be non-negative")
	}
	if c.Extraction.MinLength < 0 {
		add("extraction min_length must be non-negative")
	}
	for i, p := range c.Extraction.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			add("extraction pattern %d: %v", i, err)
			continue
		}
		if re.NumSubexp() < 1 {
			add("extraction pattern %d has no capture group", i)
		}
	}

	seen := make(map[string]bool, len(c.Categories))
	for i, cat := range c.Categories {
		label := cat.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
			add("category %s has no name", label)
		}
		if seen[cat.Name] && cat.Name != "" {
			add("category %q defined twice", cat.Name)
		}
		seen[cat.Name] = true
		if cat.Name == c.Unclassified {
			add("category %q collides with the unclassified label", cat.Name)
		}
		if cat.Boost < 0 {
			add("category %s: boost must be non-negative", label)
		}
		if len(nonEmpty(cat.EntityTerms)) == 0 && len(nonEmpty(cat.ContextTerms)) == 0 {
			add("category %s: entity_terms and context_terms are both empty", label)
		}
		if cat.Strict && len(nonEmpty(cat.RequiredKeywords)) == 0 {
			add("category %s: strict but required_keywords is empty", label)
		}
		if r := cat.DomainRatio; r != nil {
			if len(nonEmpty(r.Wrong)) == 0 || len(nonEmpty(r.Right)) == 0 {
				add("category %s: domain_ratio needs both wrong and right keywords", label)
			}
			if r.Margin < 0 {
				add("category %s: domain_ratio margin must be non-negative", label)
			}
		}

		// An exclusion term inside a context term would let one more context
		// match zero the category.
		contextTerms := nonEmpty(cat.ContextTerms)
		for _, ex := range nonEmpty(cat.ExclusionTerms) {
			for _, ct := range contextTerms {
				if strings.Contains(ct, ex) {
					add("category %s: exclusion term %q overlaps context term %q", label, ex, ct)
					break
				}
			}
		}
	}

	if c.Generic.Category != "" && !seen[c.Generic.Category] {
		add("generic category %q is not defined", c.Generic.Category)
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", internalerr.ErrInvalidConfig, errors.Join(problems...))
}

// nonEmpty drops terms that normalize to nothing.
func nonEmpty(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if n := normalize.Text(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}

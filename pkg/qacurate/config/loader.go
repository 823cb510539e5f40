package config

import (
	"fmt"

	"github.com/cognicore/qacurate/pkg/qacurate/classify"
	"github.com/cognicore/qacurate/pkg/qacurate/extract"
	"github.com/cognicore/qacurate/pkg/qacurate/validate"
)

// Loader loads the profile configuration and constructs components
type Loader struct {
	// ProfilesPath is a YAML profile document; empty uses the embedded defaults.
	ProfilesPath string
	// PerCategoryLimit overrides the document's limit when positive.
	PerCategoryLimit int
}

// Components holds the pipeline stages built from one configuration
type Components struct {
	Config     *Config
	Classifier *classify.Classifier
	Extractor  *extract.Extractor
	Validator  *validate.Validator
}

// Load reads the configuration and returns initialized components
func (l *Loader) Load() (*Components, error) {
	cfg, err := Load(l.ProfilesPath)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	if l.PerCategoryLimit > 0 {
		cfg.PerCategoryLimit = l.PerCategoryLimit
	}
	return Build(cfg)
}

// Build constructs components from an already validated configuration.
func Build(cfg *Config) (*Components, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ex, err := extract.New(extract.Options{
		Patterns:      cfg.Extraction.Patterns,
		TrailingWords: cfg.Extraction.TrailingWords,
		MinLength:     cfg.Extraction.MinLength,
		RejectMarkers: cfg.Extraction.RejectMarkers,
	})
	if err != nil {
		return nil, fmt.Errorf("build extractor: %w", err)
	}

	return &Components{
		Config:     cfg,
		Classifier: classify.NewFromProfiles(cfg.Profiles(), classify.Weights(cfg.Weights), cfg.Generic.Category, cfg.Generic.Penalty, cfg.Unclassified),
		Extractor:  ex,
		Validator:  validate.New(cfg.Rules()),
	}, nil
}

// Profiles converts the categories to scoring profiles in priority order.
func (c *Config) Profiles() []classify.Profile {
	out := make([]classify.Profile, len(c.Categories))
	for i, cat := range c.Categories {
		out[i] = classify.NewProfile(cat.Name, cat.EntityTerms, cat.ContextTerms, cat.ExclusionTerms, cat.Boost)
	}
	return out
}

// Rules converts the categories to cleaning rules.
func (c *Config) Rules() map[string]validate.Rule {
	out := make(map[string]validate.Rule, len(c.Categories))
	for _, cat := range c.Categories {
		r := validate.Rule{
			Blacklist:        cat.Blacklist,
			Strict:           cat.Strict,
			RequiredKeywords: cat.RequiredKeywords,
		}
		if cat.DomainRatio != nil {
			r.DomainRatio = &validate.DomainRatio{
				Wrong:  cat.DomainRatio.Wrong,
				Right:  cat.DomainRatio.Right,
				Margin: cat.DomainRatio.Margin,
			}
		}
		out[cat.Name] = r
	}
	return out
}

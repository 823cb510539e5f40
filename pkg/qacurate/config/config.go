package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the only profile document version this build understands.
const CurrentVersion = 1

//go:embed defaults.yaml
var defaultDocument []byte

// Config is the static curation configuration: category profiles plus the
// blacklists, required keywords and limits that act on them. Categories are
// listed in priority order, most specific first.
type Config struct {
	Version          int        `yaml:"version"`
	Unclassified     string     `yaml:"unclassified"`
	PerCategoryLimit int        `yaml:"per_category_limit"`
	Weights          Weights    `yaml:"weights"`
	Generic          Generic    `yaml:"generic"`
	DedupeRecords    bool       `yaml:"dedupe_records"`
	Extraction       Extraction `yaml:"extraction"`
	Categories       []Category `yaml:"categories"`
}

// Weights are the per-match score contributions.
type Weights struct {
	Entity  int `yaml:"entity"`
	Context int `yaml:"context"`
}

// Generic names the broad category demoted when a specific one also scores.
type Generic struct {
	Category string `yaml:"category"`
	Penalty  int    `yaml:"penalty"`
}

// Extraction configures the entity extractor.
type Extraction struct {
	Patterns      []string `yaml:"patterns"`
	TrailingWords []string `yaml:"trailing_words"`
	MinLength     int      `yaml:"min_length"`
	RejectMarkers []string `yaml:"reject_markers"`
}

// Category is one category profile together with its validation rules.
type Category struct {
	Name             string       `yaml:"name"`
	Boost            int          `yaml:"boost"`
	EntityTerms      []string     `yaml:"entity_terms"`
	ContextTerms     []string     `yaml:"context_terms"`
	ExclusionTerms   []string     `yaml:"exclusion_terms"`
	Blacklist        []string     `yaml:"blacklist"`
	Strict           bool         `yaml:"strict"`
	RequiredKeywords []string     `yaml:"required_keywords"`
	DomainRatio      *DomainRatio `yaml:"domain_ratio,omitempty"`
}

// DomainRatio drops entities whose text leans towards a confusable domain.
type DomainRatio struct {
	Wrong  []string `yaml:"wrong"`
	Right  []string `yaml:"right"`
	Margin int      `yaml:"margin"`
}

// Default returns the embedded profile configuration.
func Default() (*Config, error) {
	cfg, err := Parse(defaultDocument)
	if err != nil {
		return nil, fmt.Errorf("default profiles: %w", err)
	}
	return cfg, nil
}

// Load reads a profile configuration from a YAML file. An empty path loads
// the embedded defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML profile document.
func Parse(data []byte) (*Config, error) {
	if err := checkSchema(data); err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults populates fields left unset. Parse only reaches it after the
// schema has rejected explicit zero limits and weights.
func (c *Config) ApplyDefaults() {
	if c.Unclassified == "" {
		c.Unclassified = "unclassified"
	}
	if c.PerCategoryLimit == 0 {
		c.PerCategoryLimit = 25
	}
	if c.Weights.Entity == 0 && c.Weights.Context == 0 {
		c.Weights = Weights{Entity: 5, Context: 1}
	}
	if len(c.Extraction.Patterns) == 0 {
		c.Extraction.Patterns = DefaultPatterns()
	}
	if c.Extraction.TrailingWords == nil {
		c.Extraction.TrailingWords = []string{"de", "del", "en", "la", "el", "los", "las", "of", "the", "from", "in"}
	}
	if c.Extraction.MinLength == 0 {
		c.Extraction.MinLength = 3
	}
}

// DefaultPatterns returns the built-in question templates, most specific first.
// Each template captures the clause that follows the governing preposition.
// The first one anchors on a known relation noun so that titles containing
// "de" survive whole.
func DefaultPatterns() []string {
	return []string{
		`(?i)^\s*¿?\s*(?:cu[aá]l|qui[eé]n)\s+(?:es|son|fue|fueron|era)\s+(?:el|la|los|las)\s+(?:director\s+de\s+fotograf[ií]a|directora?|guionista|productora?|protagonista|autora?|compositora?|distribuidora?|idioma\s+original|g[eé]nero|pa[ií]s\s+de\s+origen|fecha\s+de\s+estreno)\s+(?:de|del)\s+(.+?)\s*\?+\s*$`,
		`(?i)^\s*¿?\s*(?:cu[aá]l|qu[eé]|qui[eé]n|d[oó]nde)\s+(?:es|son|fue|fueron|era)\s+.+\s(?:de|del|of|from)\s+(.+?)\s*\?+\s*$`,
		`(?i)\s(?:de|del|of|from)\s+(.+?)\s*\?+\s*$`,
	}
}

// Category returns the named category profile.
func (c *Config) Category(name string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return Category{}, false
}

// Names returns the category names in priority order.
func (c *Config) Names() []string {
	out := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		out[i] = cat.Name
	}
	return out
}

// Marshal renders the configuration back to YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

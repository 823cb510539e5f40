// Package extract pulls the subject entity out of a question.
package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/qacurate/pkg/qacurate/internalerr"
)

// Options configures an Extractor.
type Options struct {
	// Patterns are tried in order; the first capture group of the first
	// matching pattern is the entity.
	Patterns []string
	// TrailingWords are function words stripped from the end of a capture.
	TrailingWords []string
	// MinLength is the shortest entity, in runes, that counts as extracted.
	MinLength int
	// RejectMarkers mark badly decoded text. An entity containing one is
	// treated as unextractable.
	RejectMarkers []string
}

// Extractor is safe for concurrent use.
type Extractor struct {
	patterns  []*regexp.Regexp
	trailing  map[string]struct{}
	minLength int
	reject    []string
}

// New compiles the patterns in opts.
func New(opts Options) (*Extractor, error) {
	e := &Extractor{
		trailing:  make(map[string]struct{}, len(opts.TrailingWords)),
		minLength: opts.MinLength,
		reject:    append([]string(nil), opts.RejectMarkers...),
	}
	for i, p := range opts.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %d: %v", internalerr.ErrInvalidInput, i, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("%w: pattern %d has no capture group", internalerr.ErrInvalidInput, i)
		}
		e.patterns = append(e.patterns, re)
	}
	for _, w := range opts.TrailingWords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			e.trailing[w] = struct{}{}
		}
	}
	return e, nil
}

// Extract returns the entity named by question, or "" when none can be
// extracted.
func (e *Extractor) Extract(question string) string {
	name, ok := e.match(question)
	if ok {
		name = e.stripTrailing(name)
	} else {
		name = strings.TrimSpace(strings.NewReplacer("¿", "", "?", "").Replace(question))
	}

	if utf8.RuneCountInString(name) < e.minLength {
		return ""
	}
	for _, m := range e.reject {
		if m != "" && strings.Contains(name, m) {
			return ""
		}
	}
	return name
}

func (e *Extractor) match(question string) (string, bool) {
	for _, re := range e.patterns {
		if m := re.FindStringSubmatch(question); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// stripTrailing drops function words from the end until a content word is
// reached. A single remaining word is never stripped.
func (e *Extractor) stripTrailing(s string) string {
	for {
		i := strings.LastIndexFunc(s, unicode.IsSpace)
		if i < 0 {
			return s
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		if _, ok := e.trailing[strings.ToLower(s[i+size:])]; !ok {
			return s
		}
		s = strings.TrimRightFunc(s[:i], unicode.IsSpace)
	}
}

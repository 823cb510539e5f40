// Package completion rewrites curated questions as sentence prefixes for
// completion-style probing.
package completion

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/qacurate/pkg/qacurate/dataset"
)

// Item is one completion prompt with its expected continuation.
type Item struct {
	Input            string `json:"input_text"`
	Target           string `json:"target"`
	Category         string `json:"category"`
	Entity           string `json:"entity"`
	OriginalQuestion string `json:"original_question"`
}

type rewrite struct {
	re   *regexp.Regexp
	repl string
}

// "¿Cuál es el X de Y?" keeps its article: "El X de Y es".
var rewrites = []rewrite{
	{regexp.MustCompile(`^¿\s*[Cc]u[aá]l\s+es\s+(el|la|un|una|los|las)\s+(.+)\s+de\s+(.+?)\s*\?\s*$`), "${1} ${2} de ${3} es"},
	{regexp.MustCompile(`^¿\s*[Cc]u[aá]l\s+es\s+(.+?)\s*\?\s*$`), "${1} es"},
}

var spaces = regexp.MustCompile(`\s+`)

// Prompt converts a question into a completion prompt. Questions no template
// recognizes lose their interrogative marks and gain a trailing " es".
// Text that is not a question is returned unchanged.
func Prompt(question string) string {
	q := strings.TrimSpace(question)
	for _, rw := range rewrites {
		if rw.re.MatchString(q) {
			out := rw.re.ReplaceAllString(q, rw.repl)
			return capitalize(spaces.ReplaceAllString(strings.TrimSpace(out), " "))
		}
	}
	if !strings.HasPrefix(q, "¿") {
		return question
	}
	cleaned := strings.TrimSpace(strings.NewReplacer("¿", "", "?", "").Replace(q))
	return cleaned + " es"
}

// ConvertSubset produces one Item per record. Categories are visited in
// the given order, then any remaining ones in sorted order; entity and
// record order is preserved.
func ConvertSubset(s dataset.Subset, order []string) []Item {
	seen := make(map[string]bool, len(s))
	cats := make([]string, 0, len(s))
	for _, c := range order {
		if _, ok := s[c]; ok && !seen[c] {
			seen[c] = true
			cats = append(cats, c)
		}
	}
	for _, c := range s.Categories() {
		if !seen[c] {
			cats = append(cats, c)
		}
	}

	var items []Item
	for _, cat := range cats {
		for _, e := range s[cat] {
			for _, rec := range e.Records {
				items = append(items, Item{
					Input:            Prompt(rec.Question),
					Target:           rec.Answer,
					Category:         cat,
					Entity:           e.Name,
					OriginalQuestion: rec.Question,
				})
			}
		}
	}
	return items
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

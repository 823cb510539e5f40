package classify

import (
	"testing"

	"github.com/cognicore/qacurate/pkg/qacurate/dataset"
)

func testProfiles() []Profile {
	return []Profile{
		NewProfile("painters",
			[]string{"Diego Rivera", "Frida Kahlo"},
			[]string{"pintor", "cuadro", "mural"},
			nil, 7),
		NewProfile("movies",
			[]string{"Relatos Salvajes"},
			[]string{"película", "director", "actor"},
			nil, 5),
		NewProfile("landmarks",
			[]string{"Machu Picchu", "museo"},
			[]string{"ubicado", "museo", "capital"},
			[]string{"ocupación"}, 0),
	}
}

func testClassifier() *Classifier {
	return NewFromProfiles(testProfiles(), DefaultWeights, "landmarks", 3, "")
}

func TestNewProfileNormalizesAndDedupes(t *testing.T) {
	p := NewProfile("x", []string{"Guaraní", "guarani", "  ", "GUARANÍ"}, nil, nil, 0)
	if len(p.EntityTerms) != 1 || p.EntityTerms[0] != "guarani" {
		t.Fatalf("expected single normalized term, got %v", p.EntityTerms)
	}
}

func TestScoreEntityAndContext(t *testing.T) {
	s := NewScorer(testProfiles(), DefaultWeights)
	vec := s.Score(dataset.Record{
		Question: "¿Quién pintó el mural de Diego Rivera?",
		Answer:   "un pintor y su mural",
	})

	// entity +5, "mural" twice, "pintor" once
	if vec["painters"] != 8 {
		t.Errorf("painters = %d, want 8", vec["painters"])
	}
	if vec["movies"] != 0 {
		t.Errorf("movies = %d, want 0", vec["movies"])
	}
	if len(vec) != 3 {
		t.Errorf("expected an entry per profile, got %v", vec)
	}
}

func TestScoreEntityTermsOnlyCountInQuestion(t *testing.T) {
	s := NewScorer(testProfiles(), DefaultWeights)
	vec := s.Score(dataset.Record{Question: "¿Qué es esto?", Answer: "Frida Kahlo"})
	if vec["painters"] != 0 {
		t.Errorf("entity term in answer should not score, got %d", vec["painters"])
	}
}

func TestScoreExclusionZeroesCategory(t *testing.T) {
	s := NewScorer(testProfiles(), DefaultWeights)
	vec := s.Score(dataset.Record{
		Question: "¿Cuál es la ocupación del director del museo?",
		Answer:   "capital",
	})
	if vec["landmarks"] != 0 {
		t.Errorf("landmarks = %d, want 0 after exclusion", vec["landmarks"])
	}
	if vec["movies"] != 1 {
		t.Errorf("movies = %d, want 1", vec["movies"])
	}
}

func TestScoreIsAccentInsensitive(t *testing.T) {
	s := NewScorer(testProfiles(), DefaultWeights)
	a := s.Score(dataset.Record{Question: "¿Dónde está la película?", Answer: "x"})
	b := s.Score(dataset.Record{Question: "¿DONDE ESTA LA PELICULA?", Answer: "x"})
	if a["movies"] != b["movies"] || a["movies"] != 1 {
		t.Errorf("accent folding mismatch: %v vs %v", a, b)
	}
}

func TestScoreMonotonicInContextTerms(t *testing.T) {
	s := NewScorer(testProfiles(), DefaultWeights)
	base := dataset.Record{Question: "¿Quién es el actor?", Answer: "un actor"}
	more := dataset.Record{Question: base.Question, Answer: base.Answer + " de película"}

	before := s.Score(base)
	after := s.Score(more)
	for name, v := range before {
		if after[name] < v {
			t.Errorf("%s decreased from %d to %d", name, v, after[name])
		}
	}
	if after["movies"] <= before["movies"] {
		t.Errorf("movies should increase, %d -> %d", before["movies"], after["movies"])
	}
}

func TestResolverBoostOnlyPositive(t *testing.T) {
	r := NewResolver(ResolverOptions{
		Priority: []string{"painters", "movies"},
		Boosts:   map[string]int{"painters": 7, "movies": 5},
	})
	adj := r.Adjust(ScoreVector{"painters": 0, "movies": 1})
	if adj["painters"] != 0 {
		t.Errorf("zero score must stay zero, got %d", adj["painters"])
	}
	if adj["movies"] != 6 {
		t.Errorf("movies = %d, want 6", adj["movies"])
	}
}

func TestResolverGenericPenalty(t *testing.T) {
	r := NewResolver(ResolverOptions{
		Priority:       []string{"painters", "landmarks"},
		Boosts:         map[string]int{"painters": 0},
		Generic:        "landmarks",
		GenericPenalty: 3,
	})

	tests := []struct {
		name string
		in   ScoreVector
		want int
	}{
		{"alone keeps score", ScoreVector{"painters": 0, "landmarks": 4}, 4},
		{"demoted once", ScoreVector{"painters": 1, "landmarks": 4}, 1},
		{"floored at zero", ScoreVector{"painters": 1, "landmarks": 2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Adjust(tt.in)["landmarks"]
			if got != tt.want {
				t.Errorf("landmarks = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolverTieGoesToPriority(t *testing.T) {
	r := NewResolver(ResolverOptions{Priority: []string{"a", "b", "c"}})
	if got := r.Resolve(ScoreVector{"a": 2, "b": 2, "c": 1}); got != "a" {
		t.Errorf("tie resolved to %q, want a", got)
	}
	if got := r.Resolve(ScoreVector{"a": 1, "b": 3, "c": 3}); got != "b" {
		t.Errorf("tie resolved to %q, want b", got)
	}
}

func TestResolverAllZeroIsUnclassified(t *testing.T) {
	r := NewResolver(ResolverOptions{Priority: []string{"a"}, Unclassified: "other"})
	if got := r.Resolve(ScoreVector{"a": 0}); got != "other" {
		t.Errorf("got %q, want other", got)
	}
	r = NewResolver(ResolverOptions{Priority: []string{"a"}})
	if got := r.Resolve(ScoreVector{}); got != DefaultUnclassified {
		t.Errorf("got %q, want %q", got, DefaultUnclassified)
	}
}

func TestResolverDoesNotMutateInput(t *testing.T) {
	r := NewResolver(ResolverOptions{Priority: []string{"a"}, Boosts: map[string]int{"a": 10}})
	in := ScoreVector{"a": 1}
	r.Resolve(in)
	if in["a"] != 1 {
		t.Errorf("input mutated: %v", in)
	}
}

func TestClassifyPainter(t *testing.T) {
	c := testClassifier()
	d := c.Classify(dataset.Record{
		Question: "¿Cuál es la ocupación de Diego Rivera?",
		Answer:   "pintor",
	})
	if d.Category != "painters" {
		t.Fatalf("category = %q, want painters (adjusted %v)", d.Category, d.Adjusted)
	}
	if d.Raw["painters"] != 6 || d.Adjusted["painters"] != 13 {
		t.Errorf("raw/adjusted = %d/%d, want 6/13", d.Raw["painters"], d.Adjusted["painters"])
	}
	if !d.Classified(c.Unclassified()) {
		t.Error("decision should be classified")
	}
}

func TestClassifyNoKeywordsIsUnclassified(t *testing.T) {
	c := testClassifier()
	d := c.Classify(dataset.Record{
		Question: "¿Cuál es el país de nacionalidad de Pedro Pascal?",
		Answer:   "Chile",
	})
	if d.Category != DefaultUnclassified {
		t.Fatalf("category = %q, want %q", d.Category, DefaultUnclassified)
	}
	if !d.Raw.Zero() {
		t.Errorf("expected all-zero scores, got %v", d.Raw)
	}
}

func TestClassifyGenericLosesToSpecific(t *testing.T) {
	c := testClassifier()
	d := c.Classify(dataset.Record{
		Question: "¿En qué museo está el cuadro?",
		Answer:   "museo de la capital",
	})
	// landmarks: entity 5 + museo x2 + capital = 8, demoted to 5
	// painters: cuadro = 1, boosted to 8
	if d.Category != "painters" {
		t.Errorf("category = %q, want painters (adjusted %v)", d.Category, d.Adjusted)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := testClassifier()
	rec := dataset.Record{Question: "¿Quién dirigió la película Relatos Salvajes?", Answer: "el director Damián Szifron"}
	first := c.Classify(rec).Category
	for i := 0; i < 50; i++ {
		if got := c.Classify(rec).Category; got != first {
			t.Fatalf("run %d: %q != %q", i, got, first)
		}
	}
	if first != "movies" {
		t.Errorf("category = %q, want movies", first)
	}
}

func TestClassifierCategories(t *testing.T) {
	got := testClassifier().Categories()
	want := []string{"painters", "movies", "landmarks"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("categories[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

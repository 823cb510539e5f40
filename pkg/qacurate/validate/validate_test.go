package validate

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/qacurate/pkg/qacurate/dataset"
)

func entity(name, cat string, pairs ...string) dataset.Entity {
	e := dataset.Entity{Name: name, Category: cat}
	for i := 0; i+1 < len(pairs); i += 2 {
		e.Records = append(e.Records, dataset.Record{Question: pairs[i], Answer: pairs[i+1]})
	}
	return e
}

func painterRules() map[string]Rule {
	return map[string]Rule{
		"painters": {
			Blacklist:        []string{"Ernesto Sabato"},
			Strict:           true,
			RequiredKeywords: []string{"pintor", "obra", "museo"},
			DomainRatio: &DomainRatio{
				Wrong:  []string{"director", "película"},
				Right:  []string{"pintor", "obra"},
				Margin: 3,
			},
		},
	}
}

func TestCleanWrongDomainRatio(t *testing.T) {
	v := New(painterRules())
	actor := entity("Lautaro Murúa", "painters",
		"¿Cuál es la ocupación de Lautaro Murúa?", "director de película",
		"¿En qué película trabajó Lautaro Murúa?", "película dirigida por el director",
		"¿Quién fue Lautaro Murúa?", "director",
		"¿Qué hizo Lautaro Murúa?", "fue director de cine",
	)

	out, removals := v.Clean(dataset.Subset{"painters": {actor}})
	if len(out["painters"]) != 0 {
		t.Fatalf("expected entity removed, kept %v", out["painters"])
	}
	if len(removals) != 1 {
		t.Fatalf("expected one removal, got %v", removals)
	}
	if removals[0].Reason != "wrong-domain ratio exceeded" {
		t.Errorf("reason = %q", removals[0].Reason)
	}
	if !strings.HasPrefix(removals[0].Detail, "wrong=") {
		t.Errorf("detail = %q", removals[0].Detail)
	}
}

func TestCleanRatioWithinMargin(t *testing.T) {
	v := New(painterRules())
	mixed := entity("Diego Rivera", "painters",
		"¿Cuál es la ocupación de Diego Rivera?", "pintor",
		"¿Qué director filmó a Diego Rivera?", "un director de película",
	)
	out, removals := v.Clean(dataset.Subset{"painters": {mixed}})
	if len(removals) != 0 {
		t.Fatalf("unexpected removals: %v", removals)
	}
	if len(out["painters"]) != 1 {
		t.Errorf("entity should survive")
	}
}

func TestCleanBlacklistIsExact(t *testing.T) {
	v := New(painterRules())
	in := dataset.Subset{"painters": {
		entity("Ernesto Sabato", "painters", "¿Cuál es la obra de Ernesto Sabato?", "pintor"),
		entity("ernesto sabato", "painters", "¿Cuál es la obra de ernesto sabato?", "pintor"),
	}}
	out, removals := v.Clean(in)

	want := []Removal{{Category: "painters", Entity: "Ernesto Sabato", Reason: ReasonBlacklisted}}
	if diff := cmp.Diff(want, removals); diff != "" {
		t.Errorf("removals mismatch (-want +got):\n%s", diff)
	}
	if len(out["painters"]) != 1 || out["painters"][0].Name != "ernesto sabato" {
		t.Errorf("unexpected survivors: %v", out["painters"])
	}
}

func TestCleanStrictRequiresKeyword(t *testing.T) {
	v := New(painterRules())
	in := dataset.Subset{"painters": {
		entity("Xul Solar", "painters", "¿Dónde nació Xul Solar?", "San Fernando"),
		entity("Frida Kahlo", "painters", "¿Cuál es la ocupación de Frida Kahlo?", "Pintora"),
	}}
	out, removals := v.Clean(in)

	if len(removals) != 1 || removals[0].Entity != "Xul Solar" || removals[0].Reason != ReasonMissingKeywords {
		t.Fatalf("unexpected removals: %v", removals)
	}
	if len(out["painters"]) != 1 || out["painters"][0].Name != "Frida Kahlo" {
		t.Errorf("unexpected survivors: %v", out["painters"])
	}
}

func TestCleanPassThroughAndOrder(t *testing.T) {
	v := New(painterRules())
	in := dataset.Subset{
		"movies": {
			entity("B", "movies", "q", "a"),
			entity("A", "movies", "q", "a"),
		},
		"painters": {
			entity("P1", "painters", "¿Obra de P1?", "óleo"),
			entity("Ernesto Sabato", "painters", "q", "a"),
			entity("P2", "painters", "¿Museo de P2?", "x"),
		},
	}
	out, _ := v.Clean(in)

	if got := names(out["movies"]); !cmp.Equal(got, []string{"B", "A"}) {
		t.Errorf("movies = %v", got)
	}
	if got := names(out["painters"]); !cmp.Equal(got, []string{"P1", "P2"}) {
		t.Errorf("painters = %v", got)
	}
	if len(in["painters"]) != 3 {
		t.Error("input subset was modified")
	}
}

func TestCleanNeverGrows(t *testing.T) {
	v := New(painterRules())
	in := dataset.Subset{"painters": {
		entity("Ernesto Sabato", "painters", "q", "a"),
		entity("P", "painters", "¿Obra de P?", "pintor"),
	}}
	out, removals := v.Clean(in)
	if out.EntityCount()+len(removals) != in.EntityCount() {
		t.Errorf("kept %d + removed %d != %d", out.EntityCount(), len(removals), in.EntityCount())
	}
}

func names(ents []dataset.Entity) []string {
	out := make([]string, len(ents))
	for i, e := range ents {
		out[i] = e.Name
	}
	return out
}

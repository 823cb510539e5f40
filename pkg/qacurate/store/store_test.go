package store

import (
	"sync"
	"testing"

	"github.com/cognicore/qacurate/pkg/qacurate/dataset"
)

func TestIDSourceMonotonic(t *testing.T) {
	src := NewIDSource()
	prev := src.Next()
	for i := 0; i < 1000; i++ {
		next := src.Next()
		if next <= prev {
			t.Fatalf("id %s not greater than %s", next, prev)
		}
		prev = next
	}
}

func TestIDSourceConcurrent(t *testing.T) {
	src := NewIDSource()
	var (
		mu   sync.Mutex
		seen = make(map[string]bool)
		wg   sync.WaitGroup
	)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				id := src.Next()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if len(seen) != 800 {
		t.Errorf("expected 800 unique ids, got %d", len(seen))
	}
}

func TestSummarize(t *testing.T) {
	run := Run{ID: "x", Subset: dataset.Subset{
		"a": {{Name: "e1", Records: make([]dataset.Record, 3)}, {Name: "e2", Records: make([]dataset.Record, 1)}},
		"b": {{Name: "e3", Records: make([]dataset.Record, 2)}},
	}}
	sum := Summarize(run)
	if sum.Entities != 3 || sum.Records != 6 {
		t.Errorf("summary = %+v", sum)
	}
}

package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordMalformed(t *testing.T) {
	assert.False(t, Record{Question: "¿Quién?", Answer: "yo"}.Malformed())
	assert.True(t, Record{Question: "  ", Answer: "yo"}.Malformed())
	assert.True(t, Record{Question: "¿Quién?"}.Malformed())
}

func TestSubsetCounts(t *testing.T) {
	s := Subset{
		"painters": {
			{Name: "Diego Rivera", Records: []Record{{}, {}}},
			{Name: "Frida Kahlo", Records: []Record{{}}},
		},
		"dances": {{Name: "Cueca", Records: []Record{{}}}},
		"movies": {},
	}
	assert.Equal(t, []string{"dances", "movies", "painters"}, s.Categories())
	assert.Equal(t, 3, s.EntityCount())
	assert.Equal(t, 3, s.RecordCount("painters"))
	assert.Equal(t, 0, s.RecordCount("missing"))
}

func TestSubsetClone(t *testing.T) {
	s := Subset{"painters": {{Name: "A"}, {Name: "B"}}}
	c := s.Clone()
	c["painters"] = c["painters"][:1]
	c["dances"] = nil

	assert.Len(t, s["painters"], 2)
	_, ok := s["dances"]
	assert.False(t, ok)
}

package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cognicore/qacurate/pkg/qacurate/dataset"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRecordsJSONArraySpanishKeys(t *testing.T) {
	path := writeFile(t, "corpus.json", `[
		{"pregunta": "¿Cuál es la ocupación de Diego Rivera?", "respuesta_correcta": "pintor"},
		{"question": "¿En qué año nació Frida Kahlo?", "answer": 1907, "respuesta_llm": "1907"},
		{"pregunta": "", "respuesta_correcta": null}
	]`)

	recs, err := LoadRecords(path, nil)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, dataset.Record{Question: "¿Cuál es la ocupación de Diego Rivera?", Answer: "pintor"}, recs[0])
	assert.Equal(t, "1907", recs[1].Answer)
	assert.Equal(t, "1907", recs[1].Predicted)
	assert.True(t, recs[2].Malformed())
}

func TestLoadRecordsJSONLSkipsBadLines(t *testing.T) {
	path := writeFile(t, "corpus.jsonl",
		`{"question": "q1", "answer": "a1"}`+"\n"+
			`{not json`+"\n"+
			"\n"+
			`{"pregunta": "q2", "respuesta_correcta": "a2"}`+"\n")

	core, logs := observer.New(zap.WarnLevel)
	recs, err := LoadRecords(path, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, []dataset.Record{{Question: "q1", Answer: "a1"}, {Question: "q2", Answer: "a2"}}, recs)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "skipping malformed JSON line", entry.Message)
	assert.EqualValues(t, 2, entry.ContextMap()["line"])
}

func TestLoadRecordsErrors(t *testing.T) {
	_, err := LoadRecords(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)

	_, err = LoadRecords(writeFile(t, "empty.jsonl", "\n\n"), nil)
	assert.ErrorContains(t, err, "no valid records")

	_, err = LoadRecords(writeFile(t, "bad.json", `[{"question": {}}]`), nil)
	assert.Error(t, err)
}

func TestSubsetRoundTrip(t *testing.T) {
	s := dataset.Subset{
		"painters": {{Name: "Diego Rivera", Category: "painters", Records: []dataset.Record{
			{Question: "¿Cuál es la ocupación de Diego Rivera?", Answer: "pintor", Predicted: "pintor"},
		}}},
	}
	path := filepath.Join(t.TempDir(), "out", "subset.json")
	require.NoError(t, WriteSubset(path, s))

	got, err := ReadSubset(path)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestReadSubsetSpanishKeys(t *testing.T) {
	path := writeFile(t, "subset_h2.json", `{
		"dances": [{"entidad": "Cueca", "preguntas": [
			{"pregunta": "¿Cuál es el país de origen de la Cueca?", "respuesta_correcta": "Chile"}
		]}]
	}`)
	got, err := ReadSubset(path)
	require.NoError(t, err)
	require.Len(t, got["dances"], 1)
	e := got["dances"][0]
	assert.Equal(t, "Cueca", e.Name)
	assert.Equal(t, "dances", e.Category)
	assert.Equal(t, "Chile", e.Records[0].Answer)
}

// Package corpus reads question/answer corpora and reads and writes curated
// subsets.
package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/qacurate/internal/logging"
	"github.com/cognicore/qacurate/pkg/qacurate/dataset"
)

// text accepts a JSON string, number or boolean.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}
	if b[0] == '{' || b[0] == '[' {
		return fmt.Errorf("expected text, got %s", b[:1])
	}
	*t = text(b)
	return nil
}

// rawRecord accepts both the English keys and the corpus' Spanish ones.
type rawRecord struct {
	Question          text `json:"question"`
	Pregunta          text `json:"pregunta"`
	Answer            text `json:"answer"`
	RespuestaCorrecta text `json:"respuesta_correcta"`
	Predicted         text `json:"predicted"`
	RespuestaLLM      text `json:"respuesta_llm"`
}

func (r rawRecord) record() dataset.Record {
	return dataset.Record{
		Question:  first(r.Question, r.Pregunta),
		Answer:    first(r.Answer, r.RespuestaCorrecta),
		Predicted: first(r.Predicted, r.RespuestaLLM),
	}
}

func first(vals ...text) string {
	for _, v := range vals {
		if v != "" {
			return string(v)
		}
	}
	return ""
}

// LoadRecords reads a JSON array or a JSONL file of records. Lines of a JSONL
// file that fail to parse are logged and skipped; records with missing fields
// are kept so the pipeline can count them as malformed.
func LoadRecords(path string, log *zap.Logger) ([]dataset.Record, error) {
	log = logging.OrNop(log)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var raws []rawRecord
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		out := make([]dataset.Record, len(raws))
		for i, r := range raws {
			out[i] = r.record()
		}
		return out, nil
	}

	var records []dataset.Record
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var r rawRecord
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			log.Warn("skipping malformed JSON line",
				zap.String("path", path),
				zap.Int("line", i+1),
				zap.Error(err))
			continue
		}
		records = append(records, r.record())
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no valid records found in %s", path)
	}
	return records, nil
}

// rawEntity accepts the written subset format and the corpus' Spanish one.
type rawEntity struct {
	Name      string      `json:"name"`
	Entidad   string      `json:"entidad"`
	Records   []rawRecord `json:"records"`
	Preguntas []rawRecord `json:"preguntas"`
}

// ReadSubset reads a subset written by WriteSubset.
func ReadSubset(path string) (dataset.Subset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	var raw map[string][]rawEntity
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode subset %s: %w", path, err)
	}

	out := make(dataset.Subset, len(raw))
	for cat, ents := range raw {
		list := make([]dataset.Entity, 0, len(ents))
		for _, re := range ents {
			e := dataset.Entity{Name: re.Name, Category: cat}
			if e.Name == "" {
				e.Name = re.Entidad
			}
			recs := re.Records
			if len(recs) == 0 {
				recs = re.Preguntas
			}
			for _, r := range recs {
				e.Records = append(e.Records, r.record())
			}
			list = append(list, e)
		}
		out[cat] = list
	}
	return out, nil
}

// WriteSubset writes s as indented JSON keyed by category.
func WriteSubset(path string, s dataset.Subset) error {
	return WriteJSON(path, s)
}

// WriteJSON writes v as indented JSON, creating parent directories.
func WriteJSON(path string, v interface{}) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

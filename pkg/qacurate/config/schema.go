package config

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/qacurate/pkg/qacurate/internalerr"
)

//go:embed schema.json
var schemaDocument string

var schemaLoader = gojsonschema.NewStringLoader(schemaDocument)

// checkSchema validates the document shape before it is decoded into Config,
// so unknown keys and wrongly typed values are reported instead of ignored.
func checkSchema(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode profiles: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("%w: empty profile document", internalerr.ErrInvalidConfig)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: schema check: %v", internalerr.ErrInvalidConfig, err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("%w: %w", internalerr.ErrInvalidConfig, errors.New(strings.Join(msgs, "; ")))
}

package utils

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateJSON checks doc against a JSON Schema expressed as a Go map.
func ValidateJSON(schema map[string]any, doc []byte) error {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	result, err := compiled.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("validate document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema mismatch: %s", strings.Join(msgs, "; "))
}

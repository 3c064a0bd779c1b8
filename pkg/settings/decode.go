package settings

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ErrEmptyDocument is returned when a settings file has no content.
var ErrEmptyDocument = errors.New("settings: document is empty")

// Decode parses a settings document. JSON is attempted first; YAML is used
// as a fallback so themes may author groups in either format. source names
// the document in error messages and becomes Document.Name.
func Decode(data []byte, source string) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, source)
	}

	raw := map[string]any{}
	if err := json.Unmarshal(data, &raw); err != nil {
		jsonErr := err
		raw = map[string]any{}
		if yamlErr := yaml.Unmarshal(data, &raw); yamlErr != nil {
			return nil, fmt.Errorf("settings: parse %s: json: %v; yaml: %w", source, jsonErr, yamlErr)
		}
	}

	lifted, _ := liftOptions(raw).(map[string]any)
	doc, err := buildDocument(lifted)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, source)
	}
	doc.Name = source
	return doc, nil
}

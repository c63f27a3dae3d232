package locator

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// documentSchema constrains locator documents: top-level values are either
// selector strings or one level of namespace mapping whose values are all
// selector strings.
const documentSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "LocatorDocument",
	"type": "object",
	"minProperties": 1,
	"additionalProperties": {
		"oneOf": [
			{"type": "string", "minLength": 1},
			{
				"type": "object",
				"minProperties": 1,
				"additionalProperties": {"type": "string", "minLength": 1}
			}
		]
	}
}`

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

// SchemaIssue is a single schema violation in a locator document.
type SchemaIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidateFile checks a locator document file against the document schema.
// A nil slice means the document is valid.
func ValidateFile(path string) ([]SchemaIssue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ValidateBytes(data)
}

// ValidateBytes checks raw YAML document content against the document schema.
func ValidateBytes(data []byte) ([]SchemaIssue, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	docJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(docJSON))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	issues := make([]SchemaIssue, 0, len(result.Errors()))
	for _, resErr := range result.Errors() {
		issues = append(issues, SchemaIssue{
			Path:    resErr.Field(),
			Message: resErr.Description(),
		})
	}
	return issues, nil
}

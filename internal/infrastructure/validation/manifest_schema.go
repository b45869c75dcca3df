// Package validation checks manifest documents against their JSON
// Schema before any field is trusted.
package validation

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const manifestSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "Slicer profile repository manifest",
  "type": "object",
  "required": ["spec_version", "namespace", "profiles", "checksums"],
  "properties": {
    "spec_version": {"type": "string", "pattern": "^[0-9]+\\.[0-9]+$"},
    "namespace": {"type": "string", "minLength": 1},
    "profiles": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["uuid", "name", "type", "slicer", "version", "path", "last_updated"],
        "properties": {
          "uuid": {"type": "string", "minLength": 36, "maxLength": 36},
          "name": {"type": "string", "minLength": 1},
          "type": {"type": "string", "minLength": 1},
          "slicer": {"type": "string", "minLength": 1},
          "version": {"type": "string", "pattern": "^[0-9]+\\.[0-9]+\\.[0-9]+$"},
          "path": {"type": "string", "minLength": 1},
          "dependencies": {"type": "array", "items": {"type": "string"}},
          "last_updated": {"type": "string", "format": "date-time"}
        },
        "additionalProperties": false
      }
    },
    "checksums": {
      "type": "object",
      "additionalProperties": {"type": "string", "pattern": "^sha256:[0-9a-f]{64}$"}
    }
  },
  "additionalProperties": false
}`

// ManifestSchema validates raw manifest bytes.
type ManifestSchema struct {
	schema *jsonschema.Schema
}

// NewManifestSchema compiles the embedded schema. The schema is a
// compile-time constant, so failure here is a programming error.
func NewManifestSchema() *ManifestSchema {
	return &ManifestSchema{
		schema: jsonschema.MustCompileString("manifest.schema.json", manifestSchema),
	}
}

// Validate checks data against the manifest schema.
func (v *ManifestSchema) Validate(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("manifest is not valid JSON: %w", err)
	}
	return v.schema.Validate(doc)
}

package metadata

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const canonicalSchema = `{
	"type": "object",
	"properties": {
		"name":              {"type": "string"},
		"driver":            {"type": "string"},
		"machine_name":      {"type": "string"},
		"wasm_filename":     {"type": "string"},
		"wasmjs_filename":   {"type": "string"},
		"js_filename":       {"type": "string"},
		"keep_aspect":       {"type": "boolean"},
		"extra_args":        {"type": "array"},
		"peripherals":       {"type": "array"},
		"bios_filenames":    {"type": "array", "items": {"type": "string"}},
		"file_locations":    {"type": "object", "additionalProperties": {"type": "string"}},
		"native_resolution": {"type": "array", "items": {"type": "number"}, "maxItems": 2}
	}
}`

var schema = mustSchema(canonicalSchema)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks a canonical record and returns its violations.
func Validate(data []byte) ([]string, error) {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, err
	}
	var violations []string
	for _, e := range result.Errors() {
		violations = append(violations, e.String())
	}
	return violations, nil
}

func joinViolations(msgs []string) string {
	return strings.Join(msgs, "; ")
}

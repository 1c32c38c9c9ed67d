package games

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// recordSchema describes the catalog record fields the build relies on.
const recordSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["description", "system", "genre", "roms"],
  "anyOf": [
    {"required": ["name"]},
    {"required": ["id"]}
  ],
  "properties": {
    "name":             {"type": "string", "minLength": 1},
    "id":               {"type": "string", "minLength": 1},
    "description":      {"type": "string"},
    "system":           {"type": "string", "minLength": 1},
    "cloneOf":          {"type": ["string", "null"]},
    "parentSystem":     {"type": ["string", "null"]},
    "genre":            {"type": "string"},
    "roms":             {"type": "array", "items": {"type": "string"}},
    "nativeResolution": {
      "type": ["array", "null"],
      "items": {"type": "integer", "minimum": 0},
      "minItems": 2,
      "maxItems": 2
    },
    "biosFiles":        {"type": ["array", "null"], "items": {"type": "string"}},
    "buttonLabels":     {"type": ["array", "null"], "items": {"type": "string"}},
    "players":          {"type": ["integer", "null"]},
    "alternating":      {"type": ["boolean", "null"]},
    "mature":           {"type": ["boolean", "null"]},
    "controls":         {"type": ["array", "object", "null"]},
    "externalLocation": {"type": ["string", "null"]}
  }
}`

var compiledRecordSchema = mustSchema(recordSchema)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(err)
	}
	return schema
}

// Validate checks a raw catalog record against the record schema and returns
// the violations, at most five of them.
func Validate(data []byte) ([]string, error) {
	res, err := compiledRecordSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, err
	}
	if res.Valid() {
		return nil, nil
	}

	var msgs []string
	for i, e := range res.Errors() {
		if i >= 5 {
			break
		}
		msgs = append(msgs, e.String())
	}
	return msgs, nil
}

func joinViolations(msgs []string) string {
	return strings.Join(msgs, "; ")
}

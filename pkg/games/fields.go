package games

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// Field is a top-level member of a record rendered as text.
type Field struct {
	Key   string
	Value string
}

// Fields returns every member of the encoded record in document order.
// Arrays of scalars are joined with commas; objects keep their JSON form.
func (g *GameRecord) Fields() ([]Field, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}

	var fields []Field
	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		fields = append(fields, Field{Key: key.String(), Value: fieldText(value)})
		return true
	})
	return fields, nil
}

func fieldText(v gjson.Result) string {
	switch {
	case v.Type == gjson.Null:
		return ""
	case v.IsArray():
		parts := make([]string, 0, len(v.Array()))
		for _, item := range v.Array() {
			parts = append(parts, fieldText(item))
		}
		return strings.Join(parts, ",")
	case v.IsObject():
		return v.Raw
	default:
		return v.String()
	}
}

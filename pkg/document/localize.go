package document

import (
	"encoding/json"
	"maps"
	"slices"

	"golang.org/x/text/language"

	"github.com/agentstation/arcade/pkg/assets"
	"github.com/agentstation/arcade/pkg/constants"
	"github.com/agentstation/arcade/pkg/errors"
)

var rtlScripts = []string{"Arab", "Hebr", "Syrc", "Thaa", "Nkoo", "Adlm", "Rohg"}

// Bundle holds the resource strings of one language.
type Bundle struct {
	Tag     language.Tag
	Strings map[string]string
}

// LoadBundle reads resources.json and picks the closest language to lang.
// The file maps language codes to key/value string tables.
func LoadBundle(repo assets.Repository, lang string) (*Bundle, error) {
	data, err := assets.ReadFile(repo, constants.ResourcesFile)
	if err != nil {
		return nil, err
	}

	var tables map[string]map[string]string
	if err := json.Unmarshal(data, &tables); err != nil {
		return nil, errors.WrapParse("json", constants.ResourcesFile, err)
	}
	return NewBundle(tables, lang)
}

// NewBundle selects the table of lang from tables, falling back to the
// closest available language.
func NewBundle(tables map[string]map[string]string, lang string) (*Bundle, error) {
	want, err := language.Parse(lang)
	if err != nil {
		return nil, errors.NewValidationError("language", lang, err.Error())
	}
	if len(tables) == 0 {
		return nil, &errors.NotFoundError{Resource: "resources", ID: lang}
	}

	codes := slices.Sorted(maps.Keys(tables))
	if s, ok := tables[lang]; ok {
		return &Bundle{Tag: want, Strings: s}, nil
	}

	tags := make([]language.Tag, 0, len(codes))
	for _, code := range codes {
		tag, err := language.Parse(code)
		if err != nil {
			return nil, errors.NewValidationError("resources", code, err.Error())
		}
		tags = append(tags, tag)
	}

	_, index, confidence := language.NewMatcher(tags).Match(want)
	if confidence == language.No {
		return nil, &errors.NotFoundError{Resource: "resources", ID: lang}
	}
	return &Bundle{Tag: want, Strings: tables[codes[index]]}, nil
}

// Lang returns the value of the document lang attribute.
func (b *Bundle) Lang() string {
	return b.Tag.String()
}

// Dir returns "rtl" for languages written right to left, otherwise "ltr".
func (b *Bundle) Dir() string {
	script, _ := b.Tag.Script()
	if slices.Contains(rtlScripts, script.String()) {
		return "rtl"
	}
	return "ltr"
}

// Get returns the string for key.
func (b *Bundle) Get(key string) string {
	return b.Strings[key]
}

// Keys returns the resource keys in sorted order.
func (b *Bundle) Keys() []string {
	return slices.Sorted(maps.Keys(b.Strings))
}

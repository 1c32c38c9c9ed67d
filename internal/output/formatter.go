// Package output renders command results as a table for people or as JSON
// and YAML for scripts.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/arcade/pkg/errors"
)

// Format names an output encoding.
type Format string

// Supported formats.
const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// Formatter writes a value in one format.
type Formatter interface {
	Format(w io.Writer, v any) error
}

// NewFormatter returns the formatter for f. Markdown and unknown formats
// render as a table.
func NewFormatter(f Format) Formatter {
	switch f {
	case FormatJSON:
		return jsonFormatter{indent: "  "}
	case FormatYAML:
		return yamlFormatter{}
	default:
		return tableFormatter{}
	}
}

// ParseFormat validates a --format value. "md" is accepted for markdown and
// the empty string is left for DetectFormat to decide.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatTable, FormatJSON, FormatYAML, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", &errors.ValidationError{Field: "format", Value: s, Message: "must be one of: table, json, yaml, markdown"}
}

// DetectFormat returns explicit when set, a table when out is a terminal,
// and JSON otherwise.
func DetectFormat(explicit string, out *os.File) Format {
	if explicit != "" {
		return Format(strings.ToLower(explicit))
	}
	if out != nil && (isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())) {
		return FormatTable
	}
	return FormatJSON
}

type jsonFormatter struct {
	indent string
}

func (f jsonFormatter) Format(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", f.indent)
	return enc.Encode(v)
}

type yamlFormatter struct{}

func (yamlFormatter) Format(w io.Writer, v any) error {
	data, err := yaml.MarshalWithOptions(v, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// tableFormatter renders a Table as is and a struct as its Properties.
// Anything else falls back to JSON.
type tableFormatter struct{}

func (tableFormatter) Format(w io.Writer, v any) error {
	t, ok := v.(Table)
	if !ok {
		if t, ok = Properties(v); !ok {
			return jsonFormatter{indent: "  "}.Format(w, v)
		}
	}
	return t.Render(w)
}

// Table is tabular command output.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render writes the table with box borders.
func (t Table) Render(w io.Writer) error {
	table := tablewriter.NewTable(w)
	if len(t.Headers) > 0 {
		table.Header(cells(t.Headers)...)
	}
	for _, row := range t.Rows {
		if err := table.Append(cells(row)...); err != nil {
			return err
		}
	}
	return table.Render()
}

func cells(row []string) []any {
	out := make([]any, len(row))
	for i, cell := range row {
		out[i] = cell
	}
	return out
}

// Properties lists the exported fields of a struct, or pointer to one, as
// Property/Value rows. Field names come from json tags in title case.
func Properties(v any) (Table, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Table{}, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return Table{}, false
	}

	title := cases.Title(language.English)
	t := Table{Headers: []string{"Property", "Value"}}
	for _, field := range reflect.VisibleFields(rv.Type()) {
		if !field.IsExported() || field.Anonymous {
			continue
		}
		name := field.Name
		if tag, _, _ := strings.Cut(field.Tag.Get("json"), ","); tag != "" && tag != "-" {
			name = title.String(strings.ReplaceAll(tag, "_", " "))
		}
		t.Rows = append(t.Rows, []string{name, fmt.Sprint(rv.FieldByIndex(field.Index).Interface())})
	}
	return t, true
}

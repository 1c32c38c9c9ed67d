// Package metadata reconciles the canonical metadata of a MAME machine with
// the facts derived locally during a build, producing the record the
// emulator loader reads.
package metadata

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/agentstation/arcade/pkg/errors"
)

// Canonical record fields.
const (
	FieldName              = "name"
	FieldArcade            = "arcade"
	FieldPeripherals       = "peripherals"
	FieldExtraArgs         = "extra_args"
	FieldDriver            = "driver"
	FieldMachineName       = "machine_name"
	FieldWasmJSFilename    = "wasmjs_filename"
	FieldWasmFilename      = "wasm_filename"
	FieldJSFilename        = "js_filename"
	FieldFileLocations     = "file_locations"
	FieldNativeResolution  = "native_resolution"
	FieldBiosFilenames     = "bios_filenames"
	FieldKeepAspect        = "keep_aspect"
	FieldVirtualFileSystem = "virtual_file_system"
	FieldFiles             = "files"
)

// Record is a metadata document kept as raw JSON so fields this package does
// not know about survive reconciliation untouched.
type Record struct {
	raw []byte
}

// Parse validates data against the canonical schema and wraps it.
func Parse(file string, data []byte) (*Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.NewParseError("json", file, "invalid JSON", nil)
	}
	if violations, err := Validate(data); err != nil {
		return nil, errors.WrapParse("json", file, err)
	} else if len(violations) > 0 {
		return nil, errors.NewParseError("json", file, joinViolations(violations), nil)
	}
	return &Record{raw: append([]byte(nil), data...)}, nil
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{raw: []byte("{}")}
}

// Get returns the value at path.
func (r *Record) Get(path string) gjson.Result {
	return gjson.GetBytes(r.raw, path)
}

// Has reports whether path is present.
func (r *Record) Has(path string) bool {
	return r.Get(path).Exists()
}

// String returns the string at path.
func (r *Record) String(path string) string {
	return r.Get(path).String()
}

// Set stores v at path.
func (r *Record) Set(path string, v any) error {
	raw, err := sjson.SetBytes(r.raw, path, v)
	if err != nil {
		return errors.WrapResource("set", "metadata", path, err)
	}
	r.raw = raw
	return nil
}

// SetRaw stores pre-encoded JSON at path.
func (r *Record) SetRaw(path string, value []byte) error {
	raw, err := sjson.SetRawBytes(r.raw, path, value)
	if err != nil {
		return errors.WrapResource("set", "metadata", path, err)
	}
	r.raw = raw
	return nil
}

// Bytes returns the compact document.
func (r *Record) Bytes() []byte {
	return r.raw
}

var indentOptions = &pretty.Options{Width: 80, Indent: "   "}

// Indent returns the document indented with three spaces.
func (r *Record) Indent() []byte {
	return pretty.PrettyOptions(r.raw, indentOptions)
}

// Resolution returns native_resolution when it holds two numbers.
func (r *Record) Resolution() ([2]int, bool) {
	res := r.Get(FieldNativeResolution).Array()
	if len(res) != 2 {
		return [2]int{}, false
	}
	return [2]int{int(res[0].Int()), int(res[1].Int())}, true
}

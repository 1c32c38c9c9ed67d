// Package games loads and normalizes the catalog of game records a build
// publishes.
package games

import (
	"encoding/json"
	"reflect"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// GameRecord is one catalog entry. Fields the build does not interpret are
// kept in Extra so they still reach the document and its embedded JSON.
type GameRecord struct {
	// Identity
	Name         string `json:"name"`                   // Machine id (stable key)
	Description  string `json:"description"`            // Display title
	System       string `json:"system"`                 // Emulator family (mame, dosbox, ...)
	CloneOf      string `json:"cloneOf,omitempty"`      // Parent machine id
	ParentSystem string `json:"parentSystem,omitempty"` // Emulator driver family

	// Content
	Roms             []string    `json:"roms"`                       // Required rom ids, in order
	Genre            string      `json:"genre"`                      // Raw genre string, "/" delimited
	Genres           []string    `json:"genres"`                     // Cleaned genres, first is primary
	NativeResolution *Resolution `json:"nativeResolution,omitempty"` // Native [w,h], absent for vector displays
	BiosFiles        []string    `json:"biosFiles,omitempty"`        // Bios rom ids
	ExternalLocation string      `json:"externalLocation,omitempty"` // Remote rom location

	// Controls
	Controls     Controls `json:"controls,omitempty"`
	ButtonLabels []string `json:"buttonLabels,omitempty"`
	Players      int      `json:"players,omitempty"`
	Alternating  bool     `json:"alternating,omitempty"`
	Mature       bool     `json:"mature,omitempty"`

	// Derived during the build
	Version                  string   `json:"version,omitempty"`
	Disks                    []string `json:"disks,omitempty"`
	NvramFiles               []string `json:"nvramFiles,omitempty"`
	ArtworkFiles             []string `json:"artworkFiles,omitempty"`
	ArtworkName              string   `json:"artworkName,omitempty"`
	ExternalEmulatorLocation string   `json:"externalEmulatorLocation,omitempty"`
	WasmProgramName          string   `json:"wasmProgramName,omitempty"`

	// Extra holds catalog fields without a typed counterpart.
	Extra map[string]json.RawMessage `json:"-"`
}

// Resolution is a [width, height] pair.
type Resolution [2]int

// Width returns the horizontal resolution.
func (r Resolution) Width() int { return r[0] }

// Height returns the vertical resolution.
func (r Resolution) Height() int { return r[1] }

// Landscape reports whether the resolution is at least as wide as it is tall.
func (r Resolution) Landscape() bool { return r[0] >= r[1] }

// IsMAME reports whether the game runs on the MAME emulator.
func (g *GameRecord) IsMAME() bool {
	return strings.EqualFold(g.System, "mame")
}

// IsDOSBox reports whether the game runs on the DOSBox emulator.
func (g *GameRecord) IsDOSBox() bool {
	return strings.EqualFold(g.System, "dosbox")
}

// SystemKey returns the lower-cased system used in source and output paths.
func (g *GameRecord) SystemKey() string {
	return strings.ToLower(g.System)
}

// PrimaryGenre returns the first genre, or an empty string.
func (g *GameRecord) PrimaryGenre() string {
	if len(g.Genres) == 0 {
		return ""
	}
	return g.Genres[0]
}

var gameFields = jsonFieldNames(reflect.TypeOf(GameRecord{}))

// UnmarshalJSON decodes a catalog record, accepting "id" as an alias for
// "name" and capturing unknown fields.
func (g *GameRecord) UnmarshalJSON(data []byte) error {
	type alias GameRecord
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*g = GameRecord(a)

	if g.Name == "" {
		g.Name = gjson.GetBytes(data, "id").String()
	}
	g.Extra = extraFields(data, gameFields)
	return nil
}

// MarshalJSON encodes the record with its extra fields appended.
func (g GameRecord) MarshalJSON() ([]byte, error) {
	type alias GameRecord
	data, err := json.Marshal(alias(g))
	if err != nil {
		return nil, err
	}
	return appendExtra(data, g.Extra)
}

// Clone returns a deep copy of the record.
func (g *GameRecord) Clone() *GameRecord {
	c := *g
	c.Roms = slices.Clone(g.Roms)
	c.Genres = slices.Clone(g.Genres)
	c.BiosFiles = slices.Clone(g.BiosFiles)
	c.ButtonLabels = slices.Clone(g.ButtonLabels)
	c.Disks = slices.Clone(g.Disks)
	c.NvramFiles = slices.Clone(g.NvramFiles)
	c.ArtworkFiles = slices.Clone(g.ArtworkFiles)
	if g.NativeResolution != nil {
		r := *g.NativeResolution
		c.NativeResolution = &r
	}
	if g.Controls != nil {
		c.Controls = make(Controls, len(g.Controls))
		for k, v := range g.Controls {
			if v == nil {
				c.Controls[k] = nil
				continue
			}
			cc := *v
			cc.Directions = slices.Clone(v.Directions)
			c.Controls[k] = &cc
		}
	}
	if g.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(g.Extra))
		for k, v := range g.Extra {
			c.Extra[k] = slices.Clone(v)
		}
	}
	return &c
}

// jsonFieldNames returns the JSON names of the exported fields of t.
func jsonFieldNames(t reflect.Type) map[string]bool {
	names := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		names[name] = true
	}
	return names
}

// extraFields collects the top-level members of data not named in known.
func extraFields(data []byte, known map[string]bool) map[string]json.RawMessage {
	var extra map[string]json.RawMessage
	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		if known[key.String()] {
			return true
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[key.String()] = json.RawMessage(value.Raw)
		return true
	})
	return extra
}

// appendExtra sets every extra member that data does not already carry.
func appendExtra(data []byte, extra map[string]json.RawMessage) ([]byte, error) {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var err error
	for _, k := range keys {
		path := PathKey(k)
		if gjson.GetBytes(data, path).Exists() {
			continue
		}
		if data, err = sjson.SetRawBytes(data, path, extra[k]); err != nil {
			return nil, err
		}
	}
	return data, nil
}

var pathEscaper = strings.NewReplacer(`\`, `\\`, ".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`)

// PathKey escapes a member name for use as a gjson/sjson path.
func PathKey(name string) string {
	return pathEscaper.Replace(name)
}

package games

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
)

// Controls maps a player number ("1", "2", ...) to that player's controls.
// Catalogs store them either as an array indexed by player or as an object.
type Controls map[string]*Control

// Control describes one player's input hardware.
type Control struct {
	Type            string   `json:"type,omitempty"`
	Ways            int      `json:"ways,omitempty"`
	Buttons         int      `json:"buttons,omitempty"`
	NumberOfButtons int      `json:"numberOfButtons,omitempty"`
	Directions      []string `json:"directions,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Player returns the controls of player n, or nil.
func (c Controls) Player(n int) *Control {
	return c[strconv.Itoa(n)]
}

// UnmarshalJSON accepts both the array and the object form.
func (c *Controls) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*c = nil
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []*Control
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		out := make(Controls, len(list))
		for i, ctrl := range list {
			if ctrl != nil {
				out[strconv.Itoa(i)] = ctrl
			}
		}
		*c = out
		return nil
	}

	var m map[string]*Control
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return err
	}
	*c = m
	return nil
}

var controlFields = jsonFieldNames(reflect.TypeOf(Control{}))

// UnmarshalJSON captures unknown members into Extra.
func (c *Control) UnmarshalJSON(data []byte) error {
	type alias Control
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = Control(a)
	c.Extra = extraFields(data, controlFields)
	return nil
}

// MarshalJSON encodes the control with its extra members.
func (c Control) MarshalJSON() ([]byte, error) {
	type alias Control
	data, err := json.Marshal(alias(c))
	if err != nil {
		return nil, err
	}
	return appendExtra(data, c.Extra)
}

package operations

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/robby/mondaypro/internal/monday"
)

// Params is the parameter bag of one input item. Values come from JSON or YAML,
// so numbers may be int, float64 or json.Number.
type Params map[string]any

// Has reports whether name is set to a non-null value.
func (p Params) Has(name string) bool {
	v, ok := p[name]
	return ok && v != nil
}

// Value returns the raw value of name.
func (p Params) Value(name string) (any, bool) {
	v, ok := p[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Require returns the raw value of a mandatory parameter.
func (p Params) Require(name string) (any, error) {
	v, ok := p.Value(name)
	if !ok {
		return nil, missingParam(name)
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return nil, missingParam(name)
	}
	return v, nil
}

// RequireString returns a mandatory parameter as a string.
func (p Params) RequireString(name string) (string, error) {
	if _, err := p.Require(name); err != nil {
		return "", err
	}
	return p.String(name, ""), nil
}

// String returns name as a string. Numbers and booleans are formatted.
func (p Params) String(name, def string) string {
	v, ok := p.Value(name)
	if !ok {
		return def
	}
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		if s == math.Trunc(s) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int, int64, int32, uint, uint64, bool:
		return fmt.Sprint(s)
	default:
		return def
	}
}

// Int returns name as an int, or def when unset or not a number.
func (p Params) Int(name string, def int) int {
	v, ok := p.Value(name)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case int32:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return int(f)
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return def
}

// Bool returns name as a bool, or def when unset.
func (p Params) Bool(name string, def bool) bool {
	v, ok := p.Value(name)
	if !ok {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
			return parsed
		}
	}
	return def
}

// Object returns a nested parameter group such as additionalFields.
// It is never nil.
func (p Params) Object(name string) Params {
	v, ok := p.Value(name)
	if !ok {
		return Params{}
	}
	switch m := v.(type) {
	case Params:
		return m
	case map[string]any:
		return Params(m)
	}
	return Params{}
}

// List returns a parameter holding a list of objects, such as columnValuesUi.columns.
func (p Params) List(name string) []Params {
	v, ok := p.Value(name)
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Params, 0, len(raw))
	for _, entry := range raw {
		switch m := entry.(type) {
		case map[string]any:
			out = append(out, Params(m))
		case Params:
			out = append(out, m)
		}
	}
	return out
}

// StringSlice returns a list parameter. A string is split on commas; entries are
// trimmed and empty entries dropped.
func (p Params) StringSlice(name string) []string {
	v, ok := p.Value(name)
	if !ok {
		return nil
	}

	var parts []string
	switch list := v.(type) {
	case string:
		parts = strings.Split(list, ",")
	case []string:
		parts = list
	case []any:
		for _, entry := range list {
			parts = append(parts, Params{"v": entry}.String("v", ""))
		}
	default:
		parts = []string{p.String(name, "")}
	}

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JSONText returns a JSON parameter as compact text. A string is validated; any
// other value is encoded. ok is false when the parameter is unset or empty.
func (p Params) JSONText(name, label string) (text string, ok bool, err error) {
	v, present := p.Value(name)
	if !present {
		return "", false, nil
	}

	if s, isString := v.(string); isString {
		if strings.TrimSpace(s) == "" {
			return "", false, nil
		}
		compact, err := compactJSON(s)
		if err != nil {
			return "", false, invalidJSON(name, label)
		}
		return compact, true, nil
	}

	encoded, err := monday.EncodeJSON(v)
	if err != nil {
		return "", false, invalidJSON(name, label)
	}
	return encoded, true, nil
}

// Selection returns a JSON parameter as an ordered field selection.
func (p Params) Selection(name, label string) (monday.Selection, bool, error) {
	text, ok, err := p.JSONText(name, label)
	if err != nil || !ok {
		return nil, ok, err
	}
	sel, err := monday.ParseSelection([]byte(text))
	if err != nil {
		return nil, false, invalidJSON(name, label)
	}
	return sel, true, nil
}

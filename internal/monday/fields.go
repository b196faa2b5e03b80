package monday

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
)

// DefaultIndent is the starting indentation of BuildItemFields.
const DefaultIndent = 4

// Field is one key of a field selection, in document order.
type Field struct {
	Name  string
	Value any
}

// Selection is a JSON object that keeps its key order. Values are bool, string,
// json.Number, nil, []any or a nested Selection.
// A nil Selection stands for JSON null.
type Selection []Field

// Get returns the value of the first field with the given name.
func (s Selection) Get(name string) (any, bool) {
	for _, f := range s {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// MarshalJSON encodes the selection as an object with its original key order.
func (s Selection) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := EncodeJSON(f.Name)
		if err != nil {
			return nil, err
		}
		value, err := EncodeJSON(f.Value)
		if err != nil {
			return nil, err
		}
		buf.WriteString(key)
		buf.WriteByte(':')
		buf.WriteString(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParseSelection parses a JSON object (or null) into a Selection.
func ParseSelection(data []byte) (Selection, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	if data[0] != '{' {
		return nil, fmt.Errorf("field selection must be a JSON object")
	}
	return parseObject(data)
}

func parseObject(data []byte) (Selection, error) {
	sel := Selection{}
	err := jsonparser.ObjectEach(data, func(key, value []byte, typ jsonparser.ValueType, _ int) error {
		name, err := jsonparser.ParseString(key)
		if err != nil {
			return err
		}
		v, err := parseValue(value, typ)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		sel = append(sel, Field{Name: name, Value: v})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sel, nil
}

func parseValue(value []byte, typ jsonparser.ValueType) (any, error) {
	switch typ {
	case jsonparser.Object:
		return parseObject(value)
	case jsonparser.Array:
		list := []any{}
		var itemErr error
		_, err := jsonparser.ArrayEach(value, func(item []byte, itemType jsonparser.ValueType, _ int, err error) {
			if itemErr != nil {
				return
			}
			if err != nil {
				itemErr = err
				return
			}
			v, err := parseValue(item, itemType)
			if err != nil {
				itemErr = err
				return
			}
			list = append(list, v)
		})
		if err != nil {
			return nil, err
		}
		if itemErr != nil {
			return nil, itemErr
		}
		return list, nil
	case jsonparser.String:
		return jsonparser.ParseString(value)
	case jsonparser.Number:
		return json.Number(string(value)), nil
	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(value)
	case jsonparser.Null:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported JSON value %q", value)
	}
}

// BuildItemFields renders a selection as an indented GraphQL selection body.
// true includes a field, a nested object becomes a sub-selection two spaces
// deeper, everything else is omitted.
func BuildItemFields(sel Selection, indent int) string {
	if indent < 0 {
		indent = 0
	}
	pad := strings.Repeat(" ", indent)

	lines := make([]string, 0, len(sel))
	for _, f := range sel {
		switch v := f.Value.(type) {
		case bool:
			if v {
				lines = append(lines, pad+f.Name)
			}
		case Selection:
			inner := BuildItemFields(v, indent+2)
			if inner == "" {
				continue
			}
			lines = append(lines, pad+f.Name+" {\n"+inner+"\n"+pad+"}")
		}
	}
	return strings.Join(lines, "\n")
}

// JSONToGraphQLFields renders a selection, including field arguments, wrapped in
// one pair of braces. Inside a nested object the "fields" key lists sub-field
// names and every other key is an argument rendered as a JSON literal.
func JSONToGraphQLFields(sel Selection) string {
	if sel == nil {
		return "{}"
	}
	return "{" + buildGraphQLFields(sel) + "\n}"
}

func buildGraphQLFields(sel Selection) string {
	lines := make([]string, 0, len(sel))
	for _, f := range sel {
		switch v := f.Value.(type) {
		case bool:
			if v {
				lines = append(lines, f.Name)
			}
		case Selection:
			if line := renderFieldWithArgs(f.Name, v); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func renderFieldWithArgs(name string, nested Selection) string {
	var args, subFields []string

	for _, f := range nested {
		if f.Name == "fields" {
			subFields = append(subFields, fieldNames(f.Value)...)
			continue
		}
		literal, err := EncodeJSON(f.Value)
		if err != nil {
			continue
		}
		args = append(args, f.Name+": "+literal)
	}

	// Neither arguments nor sub-fields leaves nothing meaningful to select
	if len(args) == 0 && len(subFields) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(name)
	if len(args) > 0 {
		b.WriteString("(" + strings.Join(args, ", ") + ")")
	}
	if len(subFields) > 0 {
		b.WriteString(" {\n" + strings.Join(subFields, "\n") + "\n}")
	}
	return b.String()
}

func fieldNames(v any) []string {
	switch list := v.(type) {
	case string:
		return []string{list}
	case []any:
		names := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				names = append(names, s)
				continue
			}
			if literal, err := EncodeJSON(item); err == nil {
				names = append(names, literal)
			}
		}
		return names
	}
	return nil
}

// EncodeJSON encodes v as compact JSON without HTML escaping, the way
// parameters and arguments are sent to the API.
func EncodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

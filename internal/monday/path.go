package monday

import (
	"encoding/json"
	"strings"

	"github.com/buger/jsonparser"
)

// SplitPath turns a dotted/bracketed path such as "data.boards[0].groups" into
// jsonparser keys: ["data", "boards", "[0]", "groups"].
func SplitPath(path string) []string {
	var keys []string
	for _, segment := range strings.Split(path, ".") {
		for segment != "" {
			open := strings.IndexByte(segment, '[')
			if open < 0 {
				keys = append(keys, segment)
				break
			}
			if open > 0 {
				keys = append(keys, segment[:open])
			}
			end := strings.IndexByte(segment[open:], ']')
			if end < 0 {
				// Unterminated bracket, keep it verbatim so the lookup misses
				keys = append(keys, segment[open:])
				break
			}
			keys = append(keys, segment[open:open+end+1])
			segment = segment[open+end+1:]
		}
	}
	return keys
}

// Lookup returns the JSON value at path inside raw.
// Missing values and JSON null are both reported as absent.
// The returned value is always valid JSON (strings keep their quotes).
func Lookup(raw []byte, path string) (json.RawMessage, jsonparser.ValueType, bool) {
	keys := SplitPath(path)

	value, typ, _, err := jsonparser.Get(raw, keys...)
	if err != nil || typ == jsonparser.NotExist || typ == jsonparser.Null {
		return nil, jsonparser.NotExist, false
	}
	return rawValue(value, typ), typ, true
}

// rawValue restores the quotes jsonparser strips from string values.
func rawValue(value []byte, typ jsonparser.ValueType) json.RawMessage {
	if typ == jsonparser.String {
		out := make([]byte, 0, len(value)+2)
		out = append(out, '"')
		out = append(out, value...)
		return append(out, '"')
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out
}

// SplitArray splits a JSON array into its elements, each as valid JSON.
func SplitArray(array []byte) ([]json.RawMessage, error) {
	elems := []json.RawMessage{}
	var cbErr error
	_, err := jsonparser.ArrayEach(array, func(value []byte, typ jsonparser.ValueType, _ int, err error) {
		if err != nil {
			cbErr = err
			return
		}
		elems = append(elems, rawValue(value, typ))
	})
	if err != nil {
		return nil, err
	}
	if cbErr != nil {
		return nil, cbErr
	}
	return elems, nil
}

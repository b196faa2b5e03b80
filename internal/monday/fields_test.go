package monday

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) Selection {
	t.Helper()
	sel, err := ParseSelection([]byte(s))
	require.NoError(t, err)
	return sel
}

func TestParseSelection_KeepsOrder(t *testing.T) {
	sel := mustParse(t, `{"name":true,"id":true,"column_values":{"text":true,"id":true},"limit":5,"tags":["a","b"],"x":null}`)

	names := make([]string, 0, len(sel))
	for _, f := range sel {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"name", "id", "column_values", "limit", "tags", "x"}, names)

	limit, ok := sel.Get("limit")
	require.True(t, ok)
	assert.Equal(t, json.Number("5"), limit)

	tags, _ := sel.Get("tags")
	assert.Equal(t, []any{"a", "b"}, tags)

	x, ok := sel.Get("x")
	assert.True(t, ok)
	assert.Nil(t, x)
}

func TestParseSelection_NullAndInvalid(t *testing.T) {
	sel, err := ParseSelection([]byte(" null "))
	require.NoError(t, err)
	assert.Nil(t, sel)

	_, err = ParseSelection([]byte(`[1,2]`))
	assert.Error(t, err)

	_, err = ParseSelection([]byte(`{"a" true}`))
	assert.Error(t, err)
}

func TestSelection_MarshalJSON(t *testing.T) {
	sel := mustParse(t, `{"b":1,"a":{"q":"x","r":[true,null]}}`)

	out, err := json.Marshal(sel)
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":{"q":"x","r":[true,null]}}`, string(out))

	literal, err := EncodeJSON(mustParse(t, `{"q":"<x>"}`))
	require.NoError(t, err)
	assert.Equal(t, `{"q":"<x>"}`, literal)

	out, err = json.Marshal(Selection(nil))
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestBuildItemFields(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		indent int
		want   string
	}{
		{
			name:   "flat fields",
			input:  `{"id":true,"name":true}`,
			indent: 0,
			want:   "id\nname",
		},
		{
			name:   "nested object",
			input:  `{"id":true,"name":true,"column_values":{"id":true,"text":true}}`,
			indent: 0,
			want:   "id\nname\ncolumn_values {\n  id\n  text\n}",
		},
		{
			name:   "default indent",
			input:  `{"id":true,"group":{"title":true}}`,
			indent: DefaultIndent,
			want:   "    id\n    group {\n      title\n    }",
		},
		{
			name:   "false, strings, numbers, arrays and null are omitted",
			input:  `{"a":false,"b":"x","c":3,"d":[1],"e":null,"f":true}`,
			indent: 0,
			want:   "f",
		},
		{
			name:   "omitted fields leave no blank lines",
			input:  `{"a":false,"b":true,"c":false,"d":true}`,
			indent: 2,
			want:   "  b\n  d",
		},
		{
			name:   "empty object",
			input:  `{}`,
			indent: 4,
			want:   "",
		},
		{
			name:   "nested object without selected fields is omitted",
			input:  `{"id":true,"board":{"name":false}}`,
			indent: 0,
			want:   "id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildItemFields(mustParse(t, tt.input), tt.indent)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildItemFields_ProducesValidSelection(t *testing.T) {
	sel := mustParse(t, `{"id":true,"name":true,"column_values":{"id":true,"column":{"title":true}}}`)

	assertValidQuery(t, "query {\n  items {\n"+BuildItemFields(sel, DefaultIndent)+"\n  }\n}")
}

func TestJSONToGraphQLFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "flat",
			input: `{"id":true}`,
			want:  "{id\n}",
		},
		{
			name:  "empty object",
			input: `{}`,
			want:  "{\n}",
		},
		{
			name:  "args and sub-fields",
			input: `{"id":true,"column_values":{"ids":["status"],"fields":["id","text"]}}`,
			want:  "{id\ncolumn_values(ids: [\"status\"]) {\nid\ntext\n}\n}",
		},
		{
			name:  "sub-fields only",
			input: `{"group":{"fields":["id","title"]}}`,
			want:  "{group {\nid\ntitle\n}\n}",
		},
		{
			name:  "args only",
			input: `{"updates":{"limit":5}}`,
			want:  "{updates(limit: 5)\n}",
		},
		{
			name:  "multiple args keep order and skip HTML escaping",
			input: `{"assets":{"limit":2,"name":"<a&b>","fields":["id"]}}`,
			want:  "{assets(limit: 2, name: \"<a&b>\") {\nid\n}\n}",
		},
		{
			name:  "object without args or fields is omitted",
			input: `{"id":true,"board":{}}`,
			want:  "{id\n}",
		},
		{
			name:  "false, strings and arrays at top level are omitted",
			input: `{"id":true,"name":false,"x":"y","z":[1]}`,
			want:  "{id\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JSONToGraphQLFields(mustParse(t, tt.input))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONToGraphQLFields_Null(t *testing.T) {
	assert.Equal(t, "{}", JSONToGraphQLFields(nil))
}

func TestJSONToGraphQLFields_UsableInItemsPage(t *testing.T) {
	fields := JSONToGraphQLFields(mustParse(t,
		`{"id":true,"name":true,"column_values":{"ids":["status","date4"],"fields":["id","text","value"]}}`))

	assertValidQuery(t, `query ($boardId: [ID!], $limit: Int) { boards(ids: $boardId) { items_page(limit: $limit) { cursor items `+fields+` } } }`)
	assertValidQuery(t, NextItemsPageQuery(fields))
}

package operations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderCreate(t *testing.T) {
	ec, fake := createTestContext(t, Params{
		"workspaceId":      float64(8),
		"name":             "Planning",
		"additionalFields": map[string]any{"color": "AQUAMARINE"},
	}, `{"data":{"create_folder":{"id":"f1","name":"Planning"}}}`)

	out, err := FolderCreate(context.Background(), ec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"f1","name":"Planning"}`, toJSON(t, out))

	req := fake.request(t, 0)
	assert.Equal(t, map[string]any{"workspaceId": "8", "name": "Planning", "color": "AQUAMARINE"}, req.Variables)
}

func TestFolderGetAll_Fields(t *testing.T) {
	tests := []struct {
		name   string
		fields any
		want   []string
		absent []string
	}{
		{"defaults", nil, []string{"id", "name", "color"}, []string{"owner_id"}},
		{"mapped", []any{"id", "children", "workspace"}, []string{"children { id name }", "workspace { id name }"}, []string{"color"}},
		{"unknown only", "nope", []string{"id"}, []string{"name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := Params{}
			if tt.fields != nil {
				params["fields"] = tt.fields
			}
			ec, fake := createTestContext(t, params, `{"data":{"folders":[]}}`)

			_, err := FolderGetAll(context.Background(), ec)
			require.NoError(t, err)

			req := fake.request(t, 0)
			for _, w := range tt.want {
				assert.Contains(t, req.Query, w)
			}
			for _, a := range tt.absent {
				assert.NotContains(t, req.Query, a)
			}
		})
	}
}

func TestFolderGetAll_LimitAndFilters(t *testing.T) {
	body := `{"data":{"folders":[{"id":"1"},{"id":"2"},{"id":"3"}]}}`

	ec, fake := createTestContext(t, Params{"returnAll": false, "limit": float64(2), "workspaceIds": "5,6"}, body)
	out, err := FolderGetAll(context.Background(), ec)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"},{"id":"2"}]`, toJSON(t, out))

	req := fake.request(t, 0)
	assert.EqualValues(t, 2, req.Variables["limit"])
	assert.Equal(t, []any{"5", "6"}, req.Variables["workspace_ids"])
	assert.NotContains(t, req.Variables, "ids")

	ec, fake = createTestContext(t, Params{}, body)
	out, err = FolderGetAll(context.Background(), ec)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"},{"id":"2"},{"id":"3"}]`, toJSON(t, out))
	assert.EqualValues(t, 100, fake.request(t, 0).Variables["limit"])
}

func TestFolderUpdateAndDelete(t *testing.T) {
	ec, fake := createTestContext(t, Params{
		"folderId":     "f1",
		"updateFields": map[string]any{"name": "Renamed", "color": ""},
	},
		`{"data":{"update_folder":{"id":"f1","name":"Renamed"}}}`,
		`{"data":{"delete_folder":{"id":"f1"}}}`)

	updated, err := FolderUpdate(context.Background(), ec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"f1","name":"Renamed"}`, toJSON(t, updated))
	assert.Equal(t, map[string]any{"folderId": "f1", "name": "Renamed"}, fake.request(t, 0).Variables)

	deleted, err := FolderDelete(context.Background(), ec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"f1"}`, toJSON(t, deleted))
}

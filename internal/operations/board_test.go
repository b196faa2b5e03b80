package operations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardCreate_MinimalRequest(t *testing.T) {
	ec, fake := createTestContext(t, Params{"name": "Roadmap", "boardKind": "public"},
		`{"data":{"create_board":{"id":"101"}}}`)

	out, err := BoardCreate(context.Background(), ec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"101"}`, toJSON(t, out))

	req := fake.request(t, 0)
	assert.Contains(t, req.Query, "mutation ($name: String!, $boardKind: BoardKind!)")
	assert.Contains(t, req.Query, "create_board(board_name: $name, board_kind: $boardKind)")
	assert.Equal(t, map[string]any{"name": "Roadmap", "boardKind": "public"}, req.Variables)
}

func TestBoardCreate_AdditionalFields(t *testing.T) {
	ec, fake := createTestContext(t, Params{
		"name":      "Roadmap",
		"boardKind": "private",
		"additionalFields": map[string]any{
			"boardOwnerIds":      "1, 2",
			"boardSubscriberIds": "3",
			"description":        "Q3 plan",
			"empty":              false,
			"folderId":           float64(55),
			"templateId":         float64(0),
			"workspaceId":        "9",
			"itemNickname":       map[string]any{"plural": "Tasks", "presetType": "task"},
		},
	}, `{"data":{"create_board":{"id":"101"}}}`)

	_, err := BoardCreate(context.Background(), ec)
	require.NoError(t, err)

	req := fake.request(t, 0)
	assert.Contains(t, req.Query, "board_owner_ids: $boardOwnerIds")
	assert.Contains(t, req.Query, "board_subscriber_ids: $boardSubscriberIds")
	assert.Contains(t, req.Query, "$empty: Boolean")
	assert.Contains(t, req.Query, "item_nickname: $itemNickname")
	assert.NotContains(t, req.Query, "template_id")

	assert.Equal(t, []any{"1", "2"}, req.Variables["boardOwnerIds"])
	assert.Equal(t, "Q3 plan", req.Variables["description"])
	assert.Equal(t, false, req.Variables["empty"])
	assert.Equal(t, "55", req.Variables["folderId"])
	assert.Equal(t, "9", req.Variables["workspaceId"])
	assert.Equal(t, map[string]any{"plural": "Tasks", "preset_type": "task"}, req.Variables["itemNickname"])
}

func TestBoardCreate_NullResultFails(t *testing.T) {
	ec, _ := createTestContext(t, Params{"name": "Roadmap", "boardKind": "public"},
		`{"data":{"create_board":null}}`)

	_, err := BoardCreate(context.Background(), ec)
	require.Error(t, err)
	assert.Equal(t, `Board creation failed: {"create_board":null}`, err.Error())
}

func TestBoardDuplicate(t *testing.T) {
	ec, fake := createTestContext(t, Params{
		"boardId":          "5",
		"duplicateType":    "duplicate_board_with_structure",
		"additionalFields": map[string]any{"boardName": "Copy", "keepSubscribers": true},
	}, `{"data":{"duplicate_board":{"board":{"id":"6"}}}}`)

	out, err := BoardDuplicate(context.Background(), ec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"board":{"id":"6"}}`, toJSON(t, out))

	req := fake.request(t, 0)
	assert.Contains(t, req.Query, "duplicate_type: $duplicateType, board_name: $boardName, keep_subscribers: $keepSubscribers")
	assert.Equal(t, true, req.Variables["keepSubscribers"])
}

func TestBoardGetAll_Limited(t *testing.T) {
	ec, fake := createTestContext(t, Params{"limit": float64(2)},
		`{"data":{"boards":[{"id":"1"},{"id":"2"}]}}`)

	out, err := BoardGetAll(context.Background(), ec)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"},{"id":"2"}]`, toJSON(t, out))

	req := fake.request(t, 0)
	assert.EqualValues(t, 1, req.Variables["page"])
	assert.EqualValues(t, 2, req.Variables["limit"])
	assert.Equal(t, 1, fake.count())
}

func TestBoardGetAll_ReturnAll(t *testing.T) {
	ec, fake := createTestContext(t, Params{"returnAll": true},
		`{"data":{"boards":[{"id":"1"}]}}`,
		`{"data":{"boards":[{"id":"2"}]}}`,
		`{"data":{"boards":[]}}`)

	out, err := BoardGetAll(context.Background(), ec)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"},{"id":"2"}]`, toJSON(t, out))
	assert.Equal(t, 3, fake.count())
	assert.EqualValues(t, 50, fake.request(t, 2).Variables["limit"])
	assert.EqualValues(t, 3, fake.request(t, 2).Variables["page"])
}

func TestBoardUpdate_Guard(t *testing.T) {
	ec, _ := createTestContext(t, Params{"boardId": "1", "boardAttribute": "name", "newValue": "New"},
		`{"data":{"update_board":null}}`)

	_, err := BoardUpdate(context.Background(), ec)
	assert.EqualError(t, err, `Board update failed: {"update_board":null}`)
}

func TestBoardUpdateHierarchy(t *testing.T) {
	t.Run("requires an attribute", func(t *testing.T) {
		ec, fake := createTestContext(t, Params{"boardId": "1"})

		_, err := BoardUpdateHierarchy(context.Background(), ec)
		require.Error(t, err)
		assert.Equal(t, "At least one attribute must be provided", err.Error())
		assert.Zero(t, fake.count())
	})

	t.Run("parses a string result", func(t *testing.T) {
		params := Params{
			"boardId": "1",
			"additionalFields": map[string]any{
				"folderId": float64(12),
				"position": map[string]any{"objectId": "77", "objectType": "Board", "isAfter": true},
			},
		}
		ec, fake := createTestContext(t, params,
			`{"data":{"update_board_hierarchy":"{\"success\":true}"}}`)

		out, err := BoardUpdateHierarchy(context.Background(), ec)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"success": true,
			"boardId": "1",
			"additionalFields": {"folderId": 12, "position": {"objectId": "77", "objectType": "Board", "isAfter": true}}
		}`, toJSON(t, out))

		req := fake.request(t, 0)
		assert.Contains(t, req.Query, "attributes: { folder_id: $folderId, position: $position }")
		assert.Equal(t, map[string]any{"object_id": "77", "object_type": "Board", "is_after": true}, req.Variables["position"])
	})

	t.Run("success false is an error", func(t *testing.T) {
		ec, _ := createTestContext(t, Params{"boardId": "1", "additionalFields": map[string]any{"workspaceId": "3"}},
			`{"data":{"update_board_hierarchy":{"success":false}}}`)

		_, err := BoardUpdateHierarchy(context.Background(), ec)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Board hierarchy update failed: success is false")
	})

	t.Run("unparseable string result", func(t *testing.T) {
		ec, _ := createTestContext(t, Params{"boardId": "1", "additionalFields": map[string]any{"workspaceId": "3"}},
			`{"data":{"update_board_hierarchy":"not json"}}`)

		_, err := BoardUpdateHierarchy(context.Background(), ec)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Failed to parse update_board_hierarchy response: not json")
	})
}

func TestBoardSetPermission(t *testing.T) {
	ec, fake := createTestContext(t, Params{"boardId": "4", "basicRoleName": "viewer"},
		`{"data":{"set_board_permission":{"edit_permissions":"viewer","failed_actions":[]}}}`)

	out, err := BoardSetPermission(context.Background(), ec)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": true,
		"boardId": "4",
		"basicRoleName": "viewer",
		"editPermissions": "viewer",
		"failedActions": []
	}`, toJSON(t, out))
	assert.Equal(t, "viewer", fake.request(t, 0).Variables["basicRoleName"])
}

func TestBoardSetPermission_GraphQLError(t *testing.T) {
	ec, _ := createTestContext(t, Params{"boardId": "4", "basicRoleName": "viewer"},
		`{"errors":[{"message":"Permission denied"}]}`)

	_, err := BoardSetPermission(context.Background(), ec)
	var gqlErr *GraphQLError
	require.True(t, errors.As(err, &gqlErr))
	assert.Equal(t, []string{"Permission denied"}, gqlErr.Messages)
}

func TestBoardGetArchiveDelete(t *testing.T) {
	tests := []struct {
		name    string
		handler Handler
		resp    string
		want    string
	}{
		{"get", BoardGet, `{"data":{"boards":[{"id":"1","name":"A"}]}}`, `[{"id":"1","name":"A"}]`},
		{"archive", BoardArchive, `{"data":{"archive_board":{"id":"1"}}}`, `{"id":"1"}`},
		{"delete", BoardDelete, `{"data":{"delete_board":{"id":"1"}}}`, `{"id":"1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ec, fake := createTestContext(t, Params{"boardId": "1"}, tt.resp)

			out, err := tt.handler(context.Background(), ec)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, toJSON(t, out))
			assert.NotEmpty(t, fake.request(t, 0).Variables)
		})
	}
}

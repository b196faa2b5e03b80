package operations

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/robby/mondaypro/internal/monday"
)

// mutationBuilder assembles a document whose variables depend on which optional
// parameters are set.
type mutationBuilder struct {
	decls []string
	args  []string
	vars  map[string]any
}

func newMutationBuilder() *mutationBuilder {
	return &mutationBuilder{vars: map[string]any{}}
}

// add declares $name of gqlType, passes it as argument arg and sets its value.
func (b *mutationBuilder) add(name, gqlType, arg string, value any) {
	b.decls = append(b.decls, "$"+name+": "+gqlType)
	b.args = append(b.args, arg+": $"+name)
	b.vars[name] = value
}

func (b *mutationBuilder) declarations() string { return strings.Join(b.decls, ", ") }
func (b *mutationBuilder) arguments() string    { return strings.Join(b.args, ", ") }

// setID adds an optional ID-typed value, skipping empty and zero values.
func (b *mutationBuilder) setID(p Params, param, name, arg string) {
	if v := p.String(param, ""); v != "" && v != "0" {
		b.add(name, "ID", arg, v)
	}
}

const boardFields = `
				id
				name
				description
				state
				board_folder_id
				board_kind
				owners { id }
`

// BoardArchive archives a board.
func BoardArchive(ctx context.Context, ec *ExecutionContext) (any, error) {
	boardID, err := ec.Params.Require("boardId")
	if err != nil {
		return nil, err
	}

	req := monday.NewRequest(`mutation ($id: ID!) {
			archive_board (board_id: $id) {
				id
			}
		}`).Var("id", boardID)

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.archive_board")
}

// BoardCreate creates a board with optional owners, subscribers and placement.
func BoardCreate(ctx context.Context, ec *ExecutionContext) (any, error) {
	name, err := ec.Params.RequireString("name")
	if err != nil {
		return nil, err
	}
	kind, err := ec.Params.RequireString("boardKind")
	if err != nil {
		return nil, err
	}
	extra := ec.Params.Object("additionalFields")

	b := newMutationBuilder()
	b.add("name", "String!", "board_name", name)
	b.add("boardKind", "BoardKind!", "board_kind", kind)

	lists := []struct{ param, arg string }{
		{"boardOwnerIds", "board_owner_ids"},
		{"boardOwnerTeamIds", "board_owner_team_ids"},
		{"boardSubscriberIds", "board_subscriber_ids"},
		{"boardSubscriberTeamIds", "board_subscriber_teams_ids"},
	}
	for _, l := range lists {
		if ids := extra.StringSlice(l.param); len(ids) > 0 {
			b.add(l.param, "[ID!]", l.arg, ids)
		}
	}

	if desc := extra.String("description", ""); desc != "" {
		b.add("description", "String", "description", desc)
	}
	if extra.Has("empty") {
		b.add("empty", "Boolean", "empty", extra.Bool("empty", false))
	}
	b.setID(extra, "folderId", "folderId", "folder_id")

	nickname := extra.Object("itemNickname")
	itemNickname := map[string]any{}
	for param, key := range map[string]string{"plural": "plural", "singular": "singular", "presetType": "preset_type"} {
		if v := nickname.String(param, ""); v != "" {
			itemNickname[key] = v
		}
	}
	if len(itemNickname) > 0 {
		b.add("itemNickname", "ItemNicknameInput", "item_nickname", itemNickname)
	}

	b.setID(extra, "templateId", "templateId", "template_id")
	b.setID(extra, "workspaceId", "workspaceId", "workspace_id")

	req := &monday.Request{
		Query: fmt.Sprintf(`mutation (%s) {
		create_board(%s) {
			id
		}
	}`, b.declarations(), b.arguments()),
		Variables: b.vars,
	}

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return projectRequired(resp, "data.create_board", "Board creation")
}

// BoardDelete deletes a board.
func BoardDelete(ctx context.Context, ec *ExecutionContext) (any, error) {
	boardID, err := ec.Params.Require("boardId")
	if err != nil {
		return nil, err
	}

	req := monday.NewRequest(`mutation ($id: ID!) {
			delete_board (board_id: $id) {
				id
			}
		}`).Var("id", boardID)

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.delete_board")
}

// BoardDuplicate duplicates a board, optionally renaming and relocating it.
func BoardDuplicate(ctx context.Context, ec *ExecutionContext) (any, error) {
	boardID, err := ec.Params.RequireString("boardId")
	if err != nil {
		return nil, err
	}
	duplicateType, err := ec.Params.RequireString("duplicateType")
	if err != nil {
		return nil, err
	}
	extra := ec.Params.Object("additionalFields")

	b := newMutationBuilder()
	b.add("boardId", "ID!", "board_id", boardID)
	b.add("duplicateType", "DuplicateBoardType!", "duplicate_type", duplicateType)

	if name := extra.String("boardName", ""); name != "" {
		b.add("boardName", "String", "board_name", name)
	}
	b.setID(extra, "folderId", "folderId", "folder_id")
	if extra.Has("keepSubscribers") {
		b.add("keepSubscribers", "Boolean", "keep_subscribers", extra.Bool("keepSubscribers", false))
	}
	b.setID(extra, "workspaceId", "workspaceId", "workspace_id")

	req := &monday.Request{
		Query: fmt.Sprintf(`mutation (%s) {
		duplicate_board(%s) {
			board {
				id
			}
		}
	}`, b.declarations(), b.arguments()),
		Variables: b.vars,
	}

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return projectRequired(resp, "data.duplicate_board", "Board duplication")
}

// BoardGet fetches one or more boards by ID.
func BoardGet(ctx context.Context, ec *ExecutionContext) (any, error) {
	boardID, err := ec.Params.Require("boardId")
	if err != nil {
		return nil, err
	}

	req := monday.NewRequest(`query ($id: [ID!]) {
			boards (ids: $id) {` + boardFields + `			}
		}`).Var("id", boardID)

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.boards")
}

// BoardGetAll lists boards, either one limited page or every page.
func BoardGetAll(ctx context.Context, ec *ExecutionContext) (any, error) {
	req := monday.NewRequest(`query ($page: Int, $limit: Int) {
			boards (page: $page, limit: $limit) {` + boardFields + `			}
		}`).Var("page", 1)

	if ec.Params.Bool("returnAll", false) {
		return ec.Client.RequestAllItems(ctx, "data.boards", req)
	}

	req.Var("limit", ec.Params.Int("limit", defaultLimit))
	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.boards")
}

// BoardUpdate changes one board attribute.
func BoardUpdate(ctx context.Context, ec *ExecutionContext) (any, error) {
	boardID, err := ec.Params.Require("boardId")
	if err != nil {
		return nil, err
	}
	attribute, err := ec.Params.RequireString("boardAttribute")
	if err != nil {
		return nil, err
	}
	newValue := ec.Params.String("newValue", "")

	req := monday.NewRequest(`mutation ($boardId: ID!, $boardAttribute: BoardAttributes!, $newValue: String!) {
		update_board(board_id: $boardId, board_attribute: $boardAttribute, new_value: $newValue) {
			id
			name
			description
		}
	}`).
		Var("boardId", boardID).
		Var("boardAttribute", attribute).
		Var("newValue", newValue)

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return projectRequired(resp, "data.update_board", "Board update")
}

type hierarchyResult struct {
	Success          any    `json:"success"`
	BoardID          any    `json:"boardId"`
	AdditionalFields Params `json:"additionalFields"`
}

// BoardUpdateHierarchy moves a board to another folder, workspace, product or position.
func BoardUpdateHierarchy(ctx context.Context, ec *ExecutionContext) (any, error) {
	boardID, err := ec.Params.Require("boardId")
	if err != nil {
		return nil, err
	}
	extra := ec.Params.Object("additionalFields")

	b := newMutationBuilder()
	b.setID(extra, "accountProductId", "accountProductId", "account_product_id")
	b.setID(extra, "folderId", "folderId", "folder_id")
	b.setID(extra, "workspaceId", "workspaceId", "workspace_id")

	pos := extra.Object("position")
	position := map[string]any{}
	if v := pos.String("objectId", ""); v != "" {
		position["object_id"] = v
	}
	if v := pos.String("objectType", ""); v != "" {
		position["object_type"] = v
	}
	if pos.Has("isAfter") {
		position["is_after"] = pos.Bool("isAfter", false)
	}
	if len(position) > 0 {
		b.add("position", "DynamicPosition", "position", position)
	}

	if len(b.args) == 0 {
		return nil, &ValidationError{
			Param:   "additionalFields",
			Message: "At least one attribute must be provided",
			Err:     ErrMissingParameter,
		}
	}

	b.vars["boardId"] = boardID
	req := &monday.Request{
		Query: fmt.Sprintf(`mutation ($boardId: ID!, %s) {
		update_board_hierarchy(board_id: $boardId, attributes: { %s }) {
			success
		}
	}`, b.declarations(), b.arguments()),
		Variables: b.vars,
	}

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	raw, err := projectRequired(resp, "data.update_board_hierarchy", "Board hierarchy update")
	if err != nil {
		return nil, err
	}

	parsed, err := decodeObject(raw, "update_board_hierarchy")
	if err != nil {
		return nil, err
	}
	if !truthy(parsed["success"]) {
		return nil, fmt.Errorf("Board hierarchy update failed: success is false. Response: %s", raw)
	}

	return hierarchyResult{Success: parsed["success"], BoardID: boardID, AdditionalFields: extra}, nil
}

type permissionResult struct {
	Success         bool   `json:"success"`
	BoardID         any    `json:"boardId"`
	BasicRoleName   string `json:"basicRoleName"`
	EditPermissions any    `json:"editPermissions"`
	FailedActions   any    `json:"failedActions"`
}

// BoardSetPermission sets the basic role for a board.
func BoardSetPermission(ctx context.Context, ec *ExecutionContext) (any, error) {
	boardID, err := ec.Params.Require("boardId")
	if err != nil {
		return nil, err
	}
	role, err := ec.Params.RequireString("basicRoleName")
	if err != nil {
		return nil, err
	}

	req := monday.NewRequest(`mutation ($boardId: ID!, $basicRoleName: BoardBasicRoleName!) {
		set_board_permission(board_id: $boardId, basic_role_name: $basicRoleName) {
			edit_permissions
			failed_actions
		}
	}`).
		Var("boardId", boardID).
		Var("basicRoleName", role)

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	raw, err := projectRequired(resp, "data.set_board_permission", "Set board permission")
	if err != nil {
		return nil, err
	}

	parsed, err := decodeObject(raw, "set_board_permission")
	if err != nil {
		return nil, err
	}

	return permissionResult{
		Success:         true,
		BoardID:         boardID,
		BasicRoleName:   role,
		EditPermissions: parsed["edit_permissions"],
		FailedActions:   parsed["failed_actions"],
	}, nil
}

// decodeObject decodes a result object, which some mutations return as a JSON string.
func decodeObject(raw json.RawMessage, field string) (map[string]any, error) {
	data := []byte(raw)

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		data = []byte(s)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("Failed to parse %s response: %s. Error: %v", field, data, err)
	}
	return out, nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	}
	return true
}

package operations

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/robby/mondaypro/internal/monday"
)

const (
	defaultLimit = 50
	// filteredPageSize is the page size getFiltered uses when returning everything.
	filteredPageSize = 500
	// cursorPageSize is the first page size of the item listings that follow cursors.
	cursorPageSize = 100
)

const itemFields = `{
		id
		name
		created_at
		state
		column_values {
			id
			text
			type
			value
			column {
				title
				archived
				description
				settings_str
			}
		}
	}`

const itemWithBoardFields = `{
		id
		name
		created_at
		state
		board { id }
		column_values {
			id
			text
			type
			value
			column {
				title
				archived
				description
				settings_str
			}
		}
	}`

// ItemAddUpdate posts an update on an item.
func ItemAddUpdate(ctx context.Context, ec *ExecutionContext) (any, error) {
	itemID, err := ec.Params.Require("itemId")
	if err != nil {
		return nil, err
	}
	value := ec.Params.String("value", "")

	req := monday.NewRequest(`mutation ($itemId: ID!, $value: String!) {
			create_update (item_id: $itemId, body: $value) { id }
		}`).
		Var("itemId", itemID).
		Var("value", value)

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.create_update")
}

// ItemChangeColumnValue sets one column of an item to a JSON value.
func ItemChangeColumnValue(ctx context.Context, ec *ExecutionContext) (any, error) {
	boardID, err := ec.Params.Require("boardId")
	if err != nil {
		return nil, err
	}
	itemID, err := ec.Params.Require("itemId")
	if err != nil {
		return nil, err
	}
	columnID, err := ec.Params.RequireString("columnId")
	if err != nil {
		return nil, err
	}
	value, ok, err := ec.Params.JSONText("value", "Value")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, invalidJSON("value", "Value")
	}

	req := monday.NewRequest(`mutation (
			$boardId: ID!, $itemId: ID!, $columnId: String!, $value: JSON!
		) {
			change_column_value (
				board_id: $boardId, item_id: $itemId, column_id: $columnId, value: $value
			) { id }
		}`).
		Var("boardId", boardID).
		Var("itemId", itemID).
		Var("columnId", columnID).
		Var("value", value)

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.change_column_value")
}

// ItemChangeMultipleColumnValues sets several columns of an item at once.
func ItemChangeMultipleColumnValues(ctx context.Context, ec *ExecutionContext) (any, error) {
	boardID, err := ec.Params.Require("boardId")
	if err != nil {
		return nil, err
	}
	itemID, err := ec.Params.Require("itemId")
	if err != nil {
		return nil, err
	}
	columnValues, ok, err := ec.Params.JSONText("columnValues", "Column Values")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, invalidJSON("columnValues", "Column Values")
	}

	req := monday.NewRequest(`mutation (
			$boardId: ID!, $itemId: ID!, $columnValues: JSON!
		) {
			change_multiple_column_values (
				board_id: $boardId, item_id: $itemId, column_values: $columnValues
			) { id }
		}`).
		Var("boardId", boardID).
		Var("itemId", itemID).
		Var("columnValues", columnValues)

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.change_multiple_column_values")
}

// ItemCreate creates an item. Column values come either from a list of
// columnId/value pairs (simple mode) or from a JSON object (advanced mode).
// The returned fields can be customized with returnFieldsJson and returnColumnIds.
func ItemCreate(ctx context.Context, ec *ExecutionContext) (any, error) {
	boardID, err := ec.Params.Require("boardId")
	if err != nil {
		return nil, err
	}
	groupID, err := ec.Params.RequireString("groupId")
	if err != nil {
		return nil, err
	}
	name, err := ec.Params.RequireString("name")
	if err != nil {
		return nil, err
	}
	extra := ec.Params.Object("additionalFields")

	columnValues, err := itemColumnValues(extra)
	if err != nil {
		return nil, err
	}

	selection, err := itemReturnFields(extra)
	if err != nil {
		return nil, err
	}

	req := monday.NewRequest(fmt.Sprintf(`
			mutation (
				$boardId: ID!,
				$groupId: String!,
				$itemName: String!,
				$columnValues: JSON
			) {
				create_item(
					board_id: $boardId,
					group_id: $groupId,
					item_name: $itemName,
					column_values: $columnValues,
					create_labels_if_missing: true
				) {
					%s
				}
			}
		`, selection)).
		Var("boardId", boardID).
		Var("groupId", groupID).
		Var("itemName", name).
		Var("columnValues", columnValues)

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.create_item")
}

// itemColumnValues renders the column_values JSON string for ItemCreate.
func itemColumnValues(extra Params) (string, error) {
	switch extra.String("mode", "simple") {
	case "advanced":
		text, ok, err := extra.JSONText("columnValues", "Column Values")
		if err != nil {
			return "", err
		}
		if ok {
			return text, nil
		}
	case "simple":
		values := monday.Selection{}
		for _, col := range extra.Object("columnValuesUi").List("columns") {
			id := col.String("columnId", "")
			value, ok := col.Value("value")
			if id == "" || !ok || value == "" {
				continue
			}
			values = setField(values, id, value)
		}
		return monday.EncodeJSON(values)
	}
	return "{}", nil
}

// setField replaces an existing key in place or appends a new one.
func setField(sel monday.Selection, name string, value any) monday.Selection {
	for i := range sel {
		if sel[i].Name == name {
			sel[i].Value = value
			return sel
		}
	}
	return append(sel, monday.Field{Name: name, Value: value})
}

// itemReturnFields builds the selection set of a created item.
func itemReturnFields(extra Params) (string, error) {
	selection := "id"

	fields, ok, err := extra.Selection("returnFieldsJson", "Return Fields JSON")
	if err != nil {
		return "", err
	}
	if ok {
		if built := monday.BuildItemFields(fields, monday.DefaultIndent); built != "" {
			selection = built
		}
	}

	if ids := extra.StringSlice("returnColumnIds"); len(ids) > 0 {
		list, err := monday.EncodeJSON(ids)
		if err != nil {
			return "", err
		}
		selection += fmt.Sprintf(`
column_values(ids: %s) {
  text
  column { title }
}`, list)
	}

	return selection, nil
}

// ItemDelete deletes an item.
func ItemDelete(ctx context.Context, ec *ExecutionContext) (any, error) {
	itemID, err := ec.Params.Require("itemId")
	if err != nil {
		return nil, err
	}

	req := monday.NewRequest(`mutation ($itemId: ID!) {
			delete_item (item_id: $itemId) { id }
		}`).Var("itemId", itemID)

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.delete_item")
}

// ItemGet fetches items by a comma separated list of IDs.
func ItemGet(ctx context.Context, ec *ExecutionContext) (any, error) {
	ids := ec.Params.StringSlice("itemId")
	if len(ids) == 0 {
		return nil, missingParam("itemId")
	}

	req := monday.NewRequest(`query ($itemId: [ID!]){
			items (ids: $itemId) {
				id
				name
				created_at
				state
				column_values {
					id
					text
					type
					value
					column {
						title
						archived
						description
						settings_str
					}
				}
			}
		}`).Var("itemId", ids)

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.items")
}

// ItemGetAll lists the items of one group.
func ItemGetAll(ctx context.Context, ec *ExecutionContext) (any, error) {
	boardID, err := ec.Params.Require("boardId")
	if err != nil {
		return nil, err
	}
	groupID, err := ec.Params.Require("groupId")
	if err != nil {
		return nil, err
	}

	req := monday.NewRequest(`query ($boardId: [ID!], $groupId: [String], $limit: Int) {
			boards(ids: $boardId) {
				groups(ids: $groupId) {
					id
					items_page(limit: $limit) {
						cursor
						items ` + itemFields + `
					}
				}
			}
		}`).
		Var("boardId", boardID).
		Var("groupId", groupID).
		Var("limit", cursorPageSize)

	if ec.Params.Bool("returnAll", false) {
		return ec.Client.PaginatedRequest(ctx, "data.boards[0].groups[0].items_page", itemFields, req)
	}

	req.Var("limit", ec.Params.Int("limit", defaultLimit))
	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.boards[0].groups[0].items_page.items")
}

// ItemGetByColumnValue lists the items whose column matches a value.
func ItemGetByColumnValue(ctx context.Context, ec *ExecutionContext) (any, error) {
	boardID, err := ec.Params.Require("boardId")
	if err != nil {
		return nil, err
	}
	columnID, err := ec.Params.RequireString("columnId")
	if err != nil {
		return nil, err
	}
	columnValue := ec.Params.String("columnValue", "")

	req := monday.NewRequest(`query ($boardId: ID!, $columnId: String!, $columnValue: String!, $limit: Int) {
			items_page_by_column_values(
				limit: $limit
				board_id: $boardId
				columns: [{column_id: $columnId, column_values: [$columnValue]}]
			) {
				cursor
				items ` + itemWithBoardFields + `
			}
		}`).
		Var("boardId", boardID).
		Var("columnId", columnID).
		Var("columnValue", columnValue).
		Var("limit", cursorPageSize)

	if ec.Params.Bool("returnAll", false) {
		return ec.Client.PaginatedRequest(ctx, "data.items_page_by_column_values", itemWithBoardFields, req)
	}

	req.Var("limit", ec.Params.Int("limit", defaultLimit))
	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.items_page_by_column_values.items")
}

// ItemGetFiltered lists board items matching query_params, with a caller-chosen
// field selection.
func ItemGetFiltered(ctx context.Context, ec *ExecutionContext) (any, error) {
	boardIDs := ec.Params.StringSlice("boardId")
	if len(boardIDs) == 0 {
		return nil, missingParam("boardId")
	}
	returnAll := ec.Params.Bool("returnAll", true)

	fields := "{ id }"
	selection, ok, err := ec.Params.Selection("fieldsJson", "Fields JSON")
	if err != nil {
		return nil, err
	}
	if ok {
		fields = monday.JSONToGraphQLFields(selection)
	}

	queryParams, hasQueryParams, err := ec.Params.JSONText("queryParams", "Query Parameters")
	if err != nil {
		return nil, err
	}

	limit := filteredPageSize
	if !returnAll {
		limit = ec.Params.Int("limit", defaultLimit)
	}

	req := monday.NewRequest(`query ($boardId: [ID!], $limit: Int, $queryParams: ItemsQuery) {
			boards(ids: $boardId) {
				items_page(limit: $limit, query_params: $queryParams) {
					cursor
					items ` + fields + `
				}
			}
		}`).
		Var("boardId", boardIDs).
		Var("limit", limit)
	if hasQueryParams {
		req.Var("queryParams", json.RawMessage(queryParams))
	}

	if returnAll {
		return ec.Client.PaginatedRequest(ctx, "data.boards[0].items_page", fields, req)
	}

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.boards[0].items_page.items")
}

// ItemMove moves an item into another group.
func ItemMove(ctx context.Context, ec *ExecutionContext) (any, error) {
	groupID, err := ec.Params.RequireString("groupId")
	if err != nil {
		return nil, err
	}
	itemID, err := ec.Params.Require("itemId")
	if err != nil {
		return nil, err
	}

	req := monday.NewRequest(`mutation ($groupId: String!, $itemId: ID!) {
			move_item_to_group (group_id: $groupId, item_id: $itemId) { id }
		}`).
		Var("groupId", groupID).
		Var("itemId", itemID)

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.move_item_to_group")
}

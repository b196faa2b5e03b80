package operations

import (
	"context"

	"github.com/robby/mondaypro/internal/monday"
)

// SubitemCreate creates a subitem under a parent item.
func SubitemCreate(ctx context.Context, ec *ExecutionContext) (any, error) {
	parentID, err := ec.Params.Require("itemId")
	if err != nil {
		return nil, err
	}
	name, err := ec.Params.RequireString("name")
	if err != nil {
		return nil, err
	}

	req := monday.NewRequest(`mutation ($parentItemId: ID!, $subitemName: String!, $columnValues: JSON) {
			create_subitem(
				parent_item_id: $parentItemId,
				item_name: $subitemName,
				column_values: $columnValues
			) {
				id
				name
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
			}
		}`).
		Var("parentItemId", parentID).
		Var("subitemName", name)

	columnValues, ok, err := ec.Params.Object("additionalFields").JSONText("columnValues", "Column Values")
	if err != nil {
		return nil, err
	}
	if ok {
		req.Var("columnValues", columnValues)
	}

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.create_subitem")
}

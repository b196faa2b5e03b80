package operations

import (
	"context"

	"github.com/iancoleman/strcase"
	"github.com/robby/mondaypro/internal/monday"
)

// ColumnCreate adds a column to a board. The column type is normalized to
// snake_case, so "longText" and "long_text" both work.
func ColumnCreate(ctx context.Context, ec *ExecutionContext) (any, error) {
	boardID, err := ec.Params.Require("boardId")
	if err != nil {
		return nil, err
	}
	title, err := ec.Params.RequireString("title")
	if err != nil {
		return nil, err
	}
	columnType, err := ec.Params.RequireString("columnType")
	if err != nil {
		return nil, err
	}

	req := monday.NewRequest(`mutation (
			$boardId: ID!,
			$title: String!,
			$columnType: ColumnType!,
			$defaults: JSON
		) {
			create_column(
				board_id: $boardId,
				title: $title,
				column_type: $columnType,
				defaults: $defaults
			) {
				id
			}
		}`).
		Var("boardId", boardID).
		Var("title", title).
		Var("columnType", strcase.ToSnake(columnType))

	defaults, ok, err := ec.Params.Object("additionalFields").JSONText("defaults", "Defaults")
	if err != nil {
		return nil, err
	}
	if ok {
		req.Var("defaults", defaults)
	}

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.create_column")
}

// ColumnGetAll lists the columns of a board.
func ColumnGetAll(ctx context.Context, ec *ExecutionContext) (any, error) {
	boardID, err := ec.Params.Require("boardId")
	if err != nil {
		return nil, err
	}

	req := monday.NewRequest(`query ($boardId: [ID!]) {
			boards (ids: $boardId) {
				columns {
					id
					title
					type
					settings_str
					archived
				}
			}
		}`).Var("boardId", boardID)

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.boards[0].columns")
}

package operations

import (
	"context"

	"github.com/robby/mondaypro/internal/monday"
)

func GroupCreate(ctx context.Context, ec *ExecutionContext) (any, error) {
	boardID, err := ec.Params.Require("boardId")
	if err != nil {
		return nil, err
	}
	name, err := ec.Params.RequireString("name")
	if err != nil {
		return nil, err
	}

	req := monday.NewRequest(`mutation ($boardId: ID!, $groupName: String!) {
			create_group (board_id: $boardId, group_name: $groupName) {
				id
			}
		}`).
		Var("boardId", boardID).
		Var("groupName", name)

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.create_group")
}

func GroupDelete(ctx context.Context, ec *ExecutionContext) (any, error) {
	boardID, err := ec.Params.Require("boardId")
	if err != nil {
		return nil, err
	}
	groupID, err := ec.Params.RequireString("groupId")
	if err != nil {
		return nil, err
	}

	req := monday.NewRequest(`mutation ($boardId: ID!, $groupId: String!) {
			delete_group (board_id: $boardId, group_id: $groupId) {
				id
			}
		}`).
		Var("boardId", boardID).
		Var("groupId", groupID)

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.delete_group")
}

func GroupGetAll(ctx context.Context, ec *ExecutionContext) (any, error) {
	boardID, err := ec.Params.Require("boardId")
	if err != nil {
		return nil, err
	}

	req := monday.NewRequest(`query ($boardId: [ID!]) {
			boards (ids: $boardId) {
				id
				groups {
					id
					title
					color
					position
					archived
				}
			}
		}`).Var("boardId", boardID)

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.boards[0].groups")
}

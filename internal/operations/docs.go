package operations

import (
	"context"

	"github.com/robby/mondaypro/internal/monday"
)

func DocsCreate(ctx context.Context, ec *ExecutionContext) (any, error) {
	boardID, err := ec.Params.Require("boardId")
	if err != nil {
		return nil, err
	}
	title, err := ec.Params.RequireString("title")
	if err != nil {
		return nil, err
	}
	content := ec.Params.String("content", "")

	req := monday.NewRequest(`mutation ($boardId: ID!, $title: String!, $content: String!) {
			create_doc (board_id: $boardId, title: $title, content: $content) {
				id
				board_id
				title
				created_at
				creator_id
			}
		}`).
		Var("boardId", boardID).
		Var("title", title).
		Var("content", content)

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.create_doc")
}

func DocsGet(ctx context.Context, ec *ExecutionContext) (any, error) {
	docID, err := ec.Params.Require("docId")
	if err != nil {
		return nil, err
	}

	req := monday.NewRequest(`query ($docId: ID!) {
			docs(ids: [$docId]) {
				id
				title
				content
				created_at
				creator_id
				board { id name }
			}
		}`).Var("docId", docID)

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.docs")
}

func DocsDelete(ctx context.Context, ec *ExecutionContext) (any, error) {
	docID, err := ec.Params.Require("docId")
	if err != nil {
		return nil, err
	}

	req := monday.NewRequest(`mutation ($docId: ID!) { delete_doc (docId: $docId) }`).
		Var("docId", docID)

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.delete_doc")
}

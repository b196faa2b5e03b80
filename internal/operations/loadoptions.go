package operations

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/robby/mondaypro/internal/domain"
	"github.com/robby/mondaypro/internal/monday"
)

// LoadBoards lists every board as a selectable option.
func LoadBoards(ctx context.Context, client *monday.Client) ([]domain.Option, error) {
	req := monday.NewRequest(`query ($page: Int, $limit: Int) {
			boards (page: $page, limit: $limit){
				id
				description
				name
			}
		}`).Var("page", 1)

	boards, err := client.RequestAllItems(ctx, "data.boards", req)
	if err != nil {
		return nil, err
	}

	options := make([]domain.Option, 0, len(boards))
	for _, raw := range boards {
		var board struct {
			ID          string  `json:"id"`
			Name        string  `json:"name"`
			Description *string `json:"description"`
		}
		if err := json.Unmarshal(raw, &board); err != nil {
			return nil, fmt.Errorf("failed to decode board: %w", err)
		}

		opt := domain.Option{Name: board.Name, Value: board.ID}
		if board.Description != nil {
			opt.Description = *board.Description
		}
		options = append(options, opt)
	}
	return options, nil
}

// LoadColumns lists the columns of a board as selectable options.
func LoadColumns(ctx context.Context, client *monday.Client, boardID string) ([]domain.Option, error) {
	req := monday.NewRequest(`query ($boardId: [ID!]) {
			boards (ids: $boardId){
				columns {
					id
					title
					type
				}
			}
		}`).Var("boardId", boardID)

	return loadTitled(ctx, client, req, "data.boards[0].columns")
}

// LoadGroups lists the groups of a board as selectable options.
func LoadGroups(ctx context.Context, client *monday.Client, boardID string) ([]domain.Option, error) {
	req := monday.NewRequest(`query ($boardId: ID!) {
			boards (ids: [$boardId]) {
				groups {
					id
					title
				}
			}
		}`).Var("boardId", boardID)

	return loadTitled(ctx, client, req, "data.boards[0].groups")
}

// loadTitled turns a list of {id, title} objects into options.
// A response without data yields no options.
func loadTitled(ctx context.Context, client *monday.Client, req *monday.Request, path string) ([]domain.Option, error) {
	resp, err := client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, &GraphQLError{Messages: resp.ErrorMessages()}
	}

	options := []domain.Option{}
	if !resp.HasData() {
		return options, nil
	}

	raw, _, ok := resp.Lookup(path)
	if !ok {
		return options, nil
	}

	var entries []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	for _, e := range entries {
		options = append(options, domain.Option{Name: e.Title, Value: e.ID})
	}
	return options, nil
}

package monday

import (
	"context"
	"fmt"

	"github.com/machinebox/graphql"
	"github.com/robby/mondaypro/internal/domain"
)

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	req := graphql.NewRequest(`
		query {
			me {
				id
				name
				email
			}
		}
	`)

	var resp struct {
		Me struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"me"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return domain.User{}, fmt.Errorf("failed to get current user: %w", err)
	}

	return domain.User{ID: resp.Me.ID, Name: resp.Me.Name, Email: resp.Me.Email}, nil
}

// ListBoards lists active boards, one page at a time.
func (c *Client) ListBoards(ctx context.Context, page, limit int) ([]domain.Board, error) {
	req := graphql.NewRequest(`
		query($page: Int!, $limit: Int!) {
			boards(page: $page, limit: $limit, state: active) {
				id
				name
				description
				state
				board_kind
				workspace_id
			}
		}
	`)
	req.Var("page", page)
	req.Var("limit", limit)

	var resp struct {
		Boards []struct {
			ID          string  `json:"id"`
			Name        string  `json:"name"`
			Description *string `json:"description"`
			State       string  `json:"state"`
			BoardKind   string  `json:"board_kind"`
			WorkspaceID *string `json:"workspace_id"`
		} `json:"boards"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}

	boards := make([]domain.Board, 0, len(resp.Boards))
	for _, node := range resp.Boards {
		board := domain.Board{
			ID:    node.ID,
			Name:  node.Name,
			State: node.State,
			Kind:  node.BoardKind,
		}
		if node.Description != nil {
			board.Description = *node.Description
		}
		// Boards in the main workspace have no workspace id
		if node.WorkspaceID != nil {
			board.WorkspaceID = *node.WorkspaceID
		}
		boards = append(boards, board)
	}

	return boards, nil
}

// GetGroups fetches the groups of a board in their configured order.
func (c *Client) GetGroups(ctx context.Context, boardID string) ([]domain.Group, error) {
	req := graphql.NewRequest(`
		query($boardId: [ID!]) {
			boards(ids: $boardId) {
				groups {
					id
					title
					color
					position
					archived
				}
			}
		}
	`)
	req.Var("boardId", []string{boardID})

	var resp struct {
		Boards []struct {
			Groups []struct {
				ID       string `json:"id"`
				Title    string `json:"title"`
				Color    string `json:"color"`
				Position string `json:"position"`
				Archived bool   `json:"archived"`
			} `json:"groups"`
		} `json:"boards"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to get groups: %w", err)
	}
	if len(resp.Boards) == 0 {
		return nil, fmt.Errorf("board %s not found", boardID)
	}

	nodes := resp.Boards[0].Groups
	groups := make([]domain.Group, 0, len(nodes))
	for idx, node := range nodes {
		groups = append(groups, domain.Group{
			ID:       node.ID,
			Title:    node.Title,
			Color:    node.Color,
			Position: node.Position,
			Archived: node.Archived,
			Order:    idx, // Preserve order from API response
		})
	}

	return groups, nil
}

// GetColumns fetches the column definitions of a board.
func (c *Client) GetColumns(ctx context.Context, boardID string) ([]domain.Column, error) {
	req := graphql.NewRequest(`
		query($boardId: [ID!]) {
			boards(ids: $boardId) {
				columns {
					id
					title
					type
					settings_str
					archived
				}
			}
		}
	`)
	req.Var("boardId", []string{boardID})

	var resp struct {
		Boards []struct {
			Columns []struct {
				ID          string `json:"id"`
				Title       string `json:"title"`
				Type        string `json:"type"`
				SettingsStr string `json:"settings_str"`
				Archived    bool   `json:"archived"`
			} `json:"columns"`
		} `json:"boards"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	if len(resp.Boards) == 0 {
		return nil, fmt.Errorf("board %s not found", boardID)
	}

	columns := make([]domain.Column, 0, len(resp.Boards[0].Columns))
	for _, node := range resp.Boards[0].Columns {
		columns = append(columns, domain.Column{
			ID:          node.ID,
			Title:       node.Title,
			Type:        node.Type,
			SettingsStr: node.SettingsStr,
			Archived:    node.Archived,
		})
	}

	return columns, nil
}

const itemSelection = `
	id
	name
	state
	created_at
	creator_id
	url
	board {
		id
	}
	group {
		id
	}
	column_values {
		id
		type
		text
		value
		column {
			title
		}
	}
`

type itemNode struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	State     string `json:"state"`
	CreatedAt string `json:"created_at"`
	CreatorID string `json:"creator_id"`
	URL       string `json:"url"`
	Board     *struct {
		ID string `json:"id"`
	} `json:"board"`
	Group *struct {
		ID string `json:"id"`
	} `json:"group"`
	ColumnValues []struct {
		ID     string  `json:"id"`
		Type   string  `json:"type"`
		Text   *string `json:"text"`
		Value  *string `json:"value"`
		Column *struct {
			Title string `json:"title"`
		} `json:"column"`
	} `json:"column_values"`
}

func (n itemNode) toDomain() domain.Item {
	item := domain.Item{
		ID:        n.ID,
		Name:      n.Name,
		State:     n.State,
		CreatedAt: n.CreatedAt,
		CreatorID: n.CreatorID,
		URL:       n.URL,
	}
	if n.Board != nil {
		item.BoardID = n.Board.ID
	}
	if n.Group != nil {
		item.GroupID = n.Group.ID
	}

	item.ColumnValues = make([]domain.ColumnValue, 0, len(n.ColumnValues))
	for _, cv := range n.ColumnValues {
		value := domain.ColumnValue{ID: cv.ID, Type: cv.Type}
		if cv.Text != nil {
			value.Text = *cv.Text
		}
		if cv.Value != nil {
			value.Value = *cv.Value
		}
		if cv.Column != nil {
			value.Title = cv.Column.Title
		}
		item.ColumnValues = append(item.ColumnValues, value)
	}
	return item
}

// GetItems fetches one page of a board's items.
// An empty cursor starts from the first page; the returned cursor is empty
// when there are no more pages.
func (c *Client) GetItems(ctx context.Context, boardID string, cursor string, limit int) ([]domain.Item, string, error) {
	type page struct {
		Cursor *string    `json:"cursor"`
		Items  []itemNode `json:"items"`
	}

	var (
		req   *graphql.Request
		found page
	)

	if cursor == "" {
		req = graphql.NewRequest(`
			query($boardId: [ID!], $limit: Int!) {
				boards(ids: $boardId) {
					items_page(limit: $limit) {
						cursor
						items {` + itemSelection + `}
					}
				}
			}
		`)
		req.Var("boardId", []string{boardID})
		req.Var("limit", limit)

		var resp struct {
			Boards []struct {
				ItemsPage page `json:"items_page"`
			} `json:"boards"`
		}
		if err := c.makeRequest(ctx, req, &resp); err != nil {
			return nil, "", fmt.Errorf("failed to get items: %w", err)
		}
		if len(resp.Boards) == 0 {
			return nil, "", fmt.Errorf("board %s not found", boardID)
		}
		found = resp.Boards[0].ItemsPage
	} else {
		req = graphql.NewRequest(`
			query($cursor: String!, $limit: Int!) {
				next_items_page(cursor: $cursor, limit: $limit) {
					cursor
					items {` + itemSelection + `}
				}
			}
		`)
		req.Var("cursor", cursor)
		req.Var("limit", limit)

		var resp struct {
			NextItemsPage page `json:"next_items_page"`
		}
		if err := c.makeRequest(ctx, req, &resp); err != nil {
			return nil, "", fmt.Errorf("failed to get items: %w", err)
		}
		found = resp.NextItemsPage
	}

	items := make([]domain.Item, 0, len(found.Items))
	for _, node := range found.Items {
		item := node.toDomain()
		if item.BoardID == "" {
			item.BoardID = boardID
		}
		items = append(items, item)
	}

	next := ""
	if found.Cursor != nil {
		next = *found.Cursor
	}
	return items, next, nil
}

// GetUpdates fetches the updates posted on an item, newest first.
func (c *Client) GetUpdates(ctx context.Context, itemID string) ([]domain.Update, error) {
	req := graphql.NewRequest(`
		query($itemId: [ID!]) {
			items(ids: $itemId) {
				updates(limit: 100) {
					id
					text_body
					created_at
					updated_at
					creator {
						name
					}
				}
			}
		}
	`)
	req.Var("itemId", []string{itemID})

	var resp struct {
		Items []struct {
			Updates []struct {
				ID        string `json:"id"`
				TextBody  string `json:"text_body"`
				CreatedAt string `json:"created_at"`
				UpdatedAt string `json:"updated_at"`
				Creator   *struct {
					Name string `json:"name"`
				} `json:"creator"`
			} `json:"updates"`
		} `json:"items"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to get updates: %w", err)
	}
	if len(resp.Items) == 0 {
		return []domain.Update{}, nil
	}

	updates := make([]domain.Update, 0, len(resp.Items[0].Updates))
	for _, node := range resp.Items[0].Updates {
		update := domain.Update{
			ID:        node.ID,
			Body:      node.TextBody,
			CreatedAt: node.CreatedAt,
			UpdatedAt: node.UpdatedAt,
		}

		// Handle deleted users (creator is nil)
		if node.Creator != nil {
			update.Author = node.Creator.Name
		}

		updates = append(updates, update)
	}

	return updates, nil
}

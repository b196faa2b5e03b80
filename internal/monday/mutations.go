package monday

import (
	"context"
	"fmt"

	"github.com/machinebox/graphql"
)

// MoveItemToGroup moves an item into another group of the same board.
// This is used to move items between columns in the board view.
func (c *Client) MoveItemToGroup(ctx context.Context, itemID, groupID string) error {
	req := graphql.NewRequest(`
		mutation($itemId: ID!, $groupId: String!) {
			move_item_to_group(item_id: $itemId, group_id: $groupId) {
				id
			}
		}
	`)
	req.Var("itemId", itemID)
	req.Var("groupId", groupID)

	var resp struct {
		MoveItemToGroup struct {
			ID string `json:"id"`
		} `json:"move_item_to_group"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return fmt.Errorf("failed to move item: %w", err)
	}

	return nil
}

// CreateUpdate posts an update on an item and returns the new update's ID.
func (c *Client) CreateUpdate(ctx context.Context, itemID, body string) (string, error) {
	req := graphql.NewRequest(`
		mutation($itemId: ID!, $body: String!) {
			create_update(item_id: $itemId, body: $body) {
				id
			}
		}
	`)
	req.Var("itemId", itemID)
	req.Var("body", body)

	var resp struct {
		CreateUpdate struct {
			ID string `json:"id"`
		} `json:"create_update"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return "", fmt.Errorf("failed to create update: %w", err)
	}
	if resp.CreateUpdate.ID == "" {
		return "", fmt.Errorf("update on item %s was not created", itemID)
	}

	return resp.CreateUpdate.ID, nil
}

// Package tui provides Bubble Tea models for the interactive board browser.
package tui

import (
	"context"

	"github.com/robby/mondaypro/internal/domain"
)

// Client is the subset of the monday.com client the TUI needs.
// *monday.Client satisfies it.
type Client interface {
	Me(ctx context.Context) (domain.User, error)
	ListBoards(ctx context.Context, page, limit int) ([]domain.Board, error)
	GetGroups(ctx context.Context, boardID string) ([]domain.Group, error)
	GetItems(ctx context.Context, boardID string, cursor string, limit int) ([]domain.Item, string, error)
	MoveItemToGroup(ctx context.Context, itemID, groupID string) error
	GetUpdates(ctx context.Context, itemID string) ([]domain.Update, error)
	CreateUpdate(ctx context.Context, itemID, body string) (string, error)
}

// BoardSelectedMsg is emitted when the user selects a board.
type BoardSelectedMsg struct {
	Board domain.Board
}

// GroupSelectedMsg is emitted when the user picks a move target group.
type GroupSelectedMsg struct {
	ItemID string
	Group  domain.Group
}

// ErrorMsg is emitted when an error occurs.
type ErrorMsg struct {
	Err error
}

// QuitMsg is emitted when the user requests to quit.
type QuitMsg struct{}

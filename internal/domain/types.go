// Package domain defines the normalized domain types for monday.com boards.
// These types represent the core concepts independent of the GraphQL API structure.
package domain

// Board represents a monday.com board.
type Board struct {
	ID          string // Board ID
	Name        string // Board name
	Description string // Board description, may be empty
	State       string // "active", "archived" or "deleted"
	Kind        string // "public", "private" or "share"
	WorkspaceID string // Owning workspace, empty for the main workspace
}

// Group represents a group (section) of items on a board.
// Groups are the kanban columns of the board view.
type Group struct {
	ID       string // Group ID (e.g., "topics", "new_group29179")
	Title    string // Group title displayed to users
	Color    string // Hex color (e.g., "#579bfc")
	Position string // Position string as returned by the API
	Archived bool
	Order    int // Group order on the board (from API response order)
}

// Column represents a board column definition.
type Column struct {
	ID          string // Column ID (e.g., "status", "date4")
	Title       string // Column title
	Type        string // Column type (e.g., "status", "people", "text")
	SettingsStr string // Raw JSON settings
	Archived    bool
}

// ColumnValue is the value of one column on one item.
type ColumnValue struct {
	ID    string // Column ID
	Title string // Column title
	Type  string // Column type
	Text  string // Human readable text
	Value string // Raw JSON value, may be empty
}

// Item represents a board item in a normalized format.
type Item struct {
	ID           string        // Item ID
	Name         string        // Item name
	BoardID      string        // Owning board
	GroupID      string        // Current group, empty if unknown
	State        string        // "active", "archived" or "deleted"
	CreatorID    string        // ID of the user who created the item
	CreatedAt    string        // ISO8601 timestamp of creation
	URL          string        // Item URL in the monday.com web app
	ColumnValues []ColumnValue // Column values in board column order
}

// Update represents an update (comment) posted on an item.
type Update struct {
	ID        string // Update ID
	Author    string // Creator name (may be empty if the user was deleted)
	Body      string // Update body text
	CreatedAt string // ISO8601 timestamp
	UpdatedAt string // ISO8601 timestamp
}

// User is the authenticated account user.
type User struct {
	ID    string
	Name  string
	Email string
}

// Option is a selectable value for a parameter, as offered by load options.
type Option struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// Board state constants.
const (
	StateActive   = "active"
	StateArchived = "archived"
	StateDeleted  = "deleted"
)

// Board kind constants.
const (
	BoardKindPublic  = "public"
	BoardKindPrivate = "private"
	BoardKindShare   = "share"
)

// Package store provides an in-memory state management layer for a monday.com board.
// It holds the board's groups and items, buckets items by group for the kanban
// view and supports optimistic moves with rollback.
package store

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/buger/jsonparser"
	"github.com/robby/mondaypro/internal/domain"
)

var (
	// ErrNoBoard indicates no board has been set in the store.
	ErrNoBoard = errors.New("no board set")
	// ErrNoGroups indicates the board groups have not been loaded.
	ErrNoGroups = errors.New("no groups loaded")
	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")
	// ErrInvalidGroup indicates a group ID that is not on the board.
	ErrInvalidGroup = errors.New("invalid group ID")
	// ErrNoRollback indicates there is no move to undo.
	ErrNoRollback = errors.New("no rollback state available")
)

// UngroupedKey buckets items whose group is unknown or not on the board.
const UngroupedKey = "_ungrouped_"

// Store manages the in-memory state of one monday.com board.
// It is safe for concurrent use; Bubble Tea commands update it from goroutines.
type Store struct {
	mu sync.RWMutex

	board  *domain.Board
	groups []domain.Group // sorted by Order

	// Authenticated user, for "assigned to me" filtering
	viewerID string

	items map[string]*domain.Item
	order []string // item IDs in arrival order

	// Group ID -> item IDs, in arrival order
	columns map[string][]string

	// Cursor of the next items page, empty when everything is loaded
	cursor string

	rollbackItem *domain.Item
}

// New creates a new empty Store instance.
func New() *Store {
	return &Store{
		items:   make(map[string]*domain.Item),
		columns: make(map[string][]string),
	}
}

// SetBoard sets the current board.
func (s *Store) SetBoard(board *domain.Board) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = board
}

// Board returns the current board, or nil if not set.
func (s *Store) Board() *domain.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board
}

// SetViewerID records the authenticated user's ID.
func (s *Store) SetViewerID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewerID = id
}

// ViewerID returns the authenticated user's ID.
func (s *Store) ViewerID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewerID
}

// SetGroups sets the board groups and rebuilds the item buckets.
func (s *Store) SetGroups(groups []domain.Group) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := make([]domain.Group, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })
	s.groups = sorted
	s.rebuildColumns()
}

// Groups returns the board groups in board order.
func (s *Store) Groups() []domain.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Group, len(s.groups))
	copy(out, s.groups)
	return out
}

// UpsertItems adds or replaces items and rebuilds the buckets.
func (s *Store) UpsertItems(items []*domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if _, exists := s.items[item.ID]; !exists {
			s.order = append(s.order, item.ID)
		}
		s.items[item.ID] = item
	}
	s.rebuildColumns()
}

// GetItem retrieves an item by ID.
func (s *Store) GetItem(itemID string) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[itemID]
	if !exists {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// GetAllItems returns every item in arrival order.
func (s *Store) GetAllItems() []*domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]*domain.Item, 0, len(s.order))
	for _, id := range s.order {
		items = append(items, s.items[id])
	}
	return items
}

// GetColumns returns a copy of the group ID -> item IDs buckets.
// Items outside every known group are under UngroupedKey.
func (s *Store) GetColumns() (map[string][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.groups == nil {
		return nil, ErrNoGroups
	}

	result := make(map[string][]string, len(s.columns))
	for groupID, itemIDs := range s.columns {
		ids := make([]string, len(itemIDs))
		copy(ids, itemIDs)
		result[groupID] = ids
	}
	return result, nil
}

// GetGroupItemIDs returns the item IDs of one group (or UngroupedKey).
func (s *Store) GetGroupItemIDs(groupID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.columns[groupID]
	result := make([]string, len(ids))
	copy(result, ids)
	return result
}

// MoveItem optimistically moves an item to another group.
// The previous state is kept for RollbackMove.
func (s *Store) MoveItem(itemID, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[itemID]
	if !exists {
		return ErrItemNotFound
	}
	if err := s.validateGroup(groupID); err != nil {
		return err
	}

	previous := *item
	previous.ColumnValues = append([]domain.ColumnValue(nil), item.ColumnValues...)
	s.rollbackItem = &previous

	moved := *item
	moved.GroupID = groupID
	s.items[itemID] = &moved
	s.rebuildColumns()

	return nil
}

// RollbackMove reverts the last MoveItem, for when the mutation failed upstream.
func (s *Store) RollbackMove() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rollbackItem == nil {
		return ErrNoRollback
	}

	s.items[s.rollbackItem.ID] = s.rollbackItem
	s.rollbackItem = nil
	s.rebuildColumns()

	return nil
}

// CommitMove forgets the rollback state once the mutation succeeded.
func (s *Store) CommitMove() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollbackItem = nil
}

// SetCursor records the cursor of the next items page.
func (s *Store) SetCursor(cursor string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = cursor
}

// Cursor returns the cursor of the next items page and whether one exists.
func (s *Store) Cursor() (cursor string, hasNextPage bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor, s.cursor != ""
}

// ValidateGroup checks that groupID is one of the board groups.
func (s *Store) ValidateGroup(groupID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validateGroup(groupID)
}

func (s *Store) validateGroup(groupID string) error {
	if s.groups == nil {
		return ErrNoGroups
	}
	for _, g := range s.groups {
		if g.ID == groupID {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidGroup, groupID)
}

// Clear drops all items, keeping the board and its groups.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]*domain.Item)
	s.order = nil
	s.columns = make(map[string][]string)
	s.cursor = ""
	s.rollbackItem = nil
}

// Reset returns the store to its initial state.
func (s *Store) Reset() {
	s.Clear()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = nil
	s.groups = nil
}

// rebuildColumns buckets items by group. Callers hold the write lock.
func (s *Store) rebuildColumns() {
	known := make(map[string]bool, len(s.groups))
	for _, g := range s.groups {
		known[g.ID] = true
	}

	s.columns = make(map[string][]string)
	for _, id := range s.order {
		key := s.items[id].GroupID
		if !known[key] {
			key = UngroupedKey
		}
		s.columns[key] = append(s.columns[key], id)
	}
}

// AssignedTo reports whether any people column of item lists userID.
// People values look like {"personsAndTeams":[{"id":123,"kind":"person"}]}.
func AssignedTo(item *domain.Item, userID string) bool {
	if item == nil || userID == "" {
		return false
	}

	for _, cv := range item.ColumnValues {
		if cv.Type != "people" || cv.Value == "" {
			continue
		}

		found := false
		_, _ = jsonparser.ArrayEach([]byte(cv.Value), func(entry []byte, _ jsonparser.ValueType, _ int, _ error) {
			if found {
				return
			}
			if kind, err := jsonparser.GetString(entry, "kind"); err == nil && kind != "person" {
				return
			}
			if id, err := jsonparser.GetInt(entry, "id"); err == nil && strconv.FormatInt(id, 10) == userID {
				found = true
				return
			}
			if id, err := jsonparser.GetString(entry, "id"); err == nil && strings.TrimSpace(id) == userID {
				found = true
			}
		}, "personsAndTeams")
		if found {
			return true
		}
	}
	return false
}

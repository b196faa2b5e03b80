// Package operations implements the monday.com resource/operation handlers and
// the registry that routes a (resource, operation) pair to its handler.
package operations

import (
	"context"
	"fmt"
	"sort"

	"github.com/robby/mondaypro/internal/logging"
	"github.com/robby/mondaypro/internal/monday"
	"github.com/sirupsen/logrus"
)

// Resource is a monday.com entity kind.
type Resource string

const (
	ResourceBoard        Resource = "board"
	ResourceBoardColumn  Resource = "boardColumn"
	ResourceBoardGroup   Resource = "boardGroup"
	ResourceBoardItem    Resource = "boardItem"
	ResourceBoardSubitem Resource = "boardSubitem"
	ResourceBoardWebhook Resource = "boardWebhook"
	ResourceDocs         Resource = "docs"
	ResourceFolder       Resource = "folder"
)

// Operation is an action on a resource.
type Operation string

const (
	OpAddUpdate                  Operation = "addUpdate"
	OpArchive                    Operation = "archive"
	OpChangeColumnValue          Operation = "changeColumnValue"
	OpChangeMultipleColumnValues Operation = "changeMultipleColumnValues"
	OpCreate                     Operation = "create"
	OpCreateMany                 Operation = "createMany"
	OpDelete                     Operation = "delete"
	OpDuplicate                  Operation = "duplicate"
	OpGet                        Operation = "get"
	OpGetAll                     Operation = "getAll"
	OpGetByColumnValue           Operation = "getByColumnValue"
	OpGetFiltered                Operation = "getFiltered"
	OpMove                       Operation = "move"
	OpSetPermission              Operation = "setPermission"
	OpUpdate                     Operation = "update"
	OpUpdateHierarchy            Operation = "updateHierarchy"
)

// Key identifies a handler.
type Key struct {
	Resource  Resource
	Operation Operation
}

func (k Key) String() string {
	return string(k.Resource) + "." + string(k.Operation)
}

// ExecutionContext is everything a handler may use while processing one input item.
type ExecutionContext struct {
	Client    *monday.Client
	Params    Params
	ItemIndex int
	Log       logrus.FieldLogger
}

func (ec *ExecutionContext) logger() logrus.FieldLogger {
	if ec.Log == nil {
		return logging.Discard()
	}
	return ec.Log
}

// Handler executes one operation for one input item and returns its JSON result.
// The result is nil, a json.RawMessage, a []json.RawMessage or any value that
// encodes to JSON.
type Handler func(ctx context.Context, ec *ExecutionContext) (any, error)

// Registry maps resource/operation pairs to handlers.
type Registry struct {
	handlers map[Key]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Key]Handler)}
}

// Register adds or replaces the handler for resource.operation.
func (r *Registry) Register(resource Resource, operation Operation, h Handler) {
	r.handlers[Key{Resource: resource, Operation: operation}] = h
}

// Lookup returns the handler for resource.operation, or ErrUnsupportedOperation.
func (r *Registry) Lookup(resource Resource, operation Operation) (Handler, error) {
	h, ok := r.handlers[Key{Resource: resource, Operation: operation}]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnsupportedOperation, resource, operation)
	}
	return h, nil
}

// Keys lists every registered pair, sorted.
func (r *Registry) Keys() []Key {
	keys := make([]Key, 0, len(r.handlers))
	for k := range r.handlers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

// Default returns a registry with every supported operation.
func Default() *Registry {
	r := NewRegistry()

	r.Register(ResourceBoard, OpArchive, BoardArchive)
	r.Register(ResourceBoard, OpCreate, BoardCreate)
	r.Register(ResourceBoard, OpDelete, BoardDelete)
	r.Register(ResourceBoard, OpDuplicate, BoardDuplicate)
	r.Register(ResourceBoard, OpGet, BoardGet)
	r.Register(ResourceBoard, OpGetAll, BoardGetAll)
	r.Register(ResourceBoard, OpUpdate, BoardUpdate)
	r.Register(ResourceBoard, OpUpdateHierarchy, BoardUpdateHierarchy)
	r.Register(ResourceBoard, OpSetPermission, BoardSetPermission)

	r.Register(ResourceBoardColumn, OpCreate, ColumnCreate)
	r.Register(ResourceBoardColumn, OpGetAll, ColumnGetAll)

	r.Register(ResourceBoardGroup, OpCreate, GroupCreate)
	r.Register(ResourceBoardGroup, OpDelete, GroupDelete)
	r.Register(ResourceBoardGroup, OpGetAll, GroupGetAll)

	r.Register(ResourceBoardItem, OpAddUpdate, ItemAddUpdate)
	r.Register(ResourceBoardItem, OpChangeColumnValue, ItemChangeColumnValue)
	r.Register(ResourceBoardItem, OpChangeMultipleColumnValues, ItemChangeMultipleColumnValues)
	r.Register(ResourceBoardItem, OpCreate, ItemCreate)
	r.Register(ResourceBoardItem, OpDelete, ItemDelete)
	r.Register(ResourceBoardItem, OpGet, ItemGet)
	r.Register(ResourceBoardItem, OpGetAll, ItemGetAll)
	r.Register(ResourceBoardItem, OpGetByColumnValue, ItemGetByColumnValue)
	r.Register(ResourceBoardItem, OpGetFiltered, ItemGetFiltered)
	r.Register(ResourceBoardItem, OpMove, ItemMove)

	r.Register(ResourceBoardSubitem, OpCreate, SubitemCreate)

	r.Register(ResourceBoardWebhook, OpCreate, WebhookCreate)
	r.Register(ResourceBoardWebhook, OpCreateMany, WebhookCreateMany)
	r.Register(ResourceBoardWebhook, OpDelete, WebhookDelete)
	r.Register(ResourceBoardWebhook, OpGetAll, WebhookGetAll)

	r.Register(ResourceDocs, OpCreate, DocsCreate)
	r.Register(ResourceDocs, OpDelete, DocsDelete)
	r.Register(ResourceDocs, OpGet, DocsGet)

	r.Register(ResourceFolder, OpCreate, FolderCreate)
	r.Register(ResourceFolder, OpDelete, FolderDelete)
	r.Register(ResourceFolder, OpGetAll, FolderGetAll)
	r.Register(ResourceFolder, OpUpdate, FolderUpdate)

	return r
}

// Package node runs one resource/operation over a batch of input items, the
// way the integration host drives a node execution.
package node

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robby/mondaypro/internal/logging"
	"github.com/robby/mondaypro/internal/monday"
	"github.com/robby/mondaypro/internal/operations"
	"github.com/sirupsen/logrus"
)

// Result is one output entry, tagged with the input item that produced it.
type Result struct {
	Item int `json:"item"`
	JSON any `json:"json"`
}

// Node executes handlers from a Registry against a monday.com client.
type Node struct {
	Client         *monday.Client
	Registry       *operations.Registry
	Log            logrus.FieldLogger
	ContinueOnFail bool
}

// New creates a Node with the default registry.
func New(client *monday.Client, log logrus.FieldLogger) *Node {
	return &Node{
		Client:   client,
		Registry: operations.Default(),
		Log:      log,
	}
}

// Run executes resource.operation once per input item, in order.
// Array results are flattened into one Result per element and nil results are
// dropped. Without ContinueOnFail the first failure aborts the run.
func (n *Node) Run(ctx context.Context, resource operations.Resource, operation operations.Operation, items []operations.Params) ([]Result, error) {
	registry := n.Registry
	if registry == nil {
		registry = operations.Default()
	}

	handler, err := registry.Lookup(resource, operation)
	if err != nil {
		return nil, err
	}

	log := n.logger().WithFields(logrus.Fields{
		logging.RunIDKey:     uuid.NewString(),
		logging.ResourceKey:  resource,
		logging.OperationKey: operation,
	})
	log.WithField("items", len(items)).Debug("Starting run")
	started := time.Now()

	var results []Result
	for i, params := range items {
		if params == nil {
			params = operations.Params{}
		}
		itemLog := log.WithField(logging.ItemKey, i)

		out, err := handler(ctx, &operations.ExecutionContext{
			Client:    n.Client,
			Params:    params,
			ItemIndex: i,
			Log:       itemLog,
		})
		if err != nil {
			if n.ContinueOnFail {
				itemLog.WithError(err).Warn("Item failed, continuing")
				results = append(results, Result{Item: i, JSON: map[string]string{"error": err.Error()}})
				continue
			}
			itemLog.WithError(err).Error("Item failed")
			return nil, &ItemError{Item: i, Err: err}
		}

		flattened, err := flatten(i, out)
		if err != nil {
			return nil, &ItemError{Item: i, Err: err}
		}
		results = append(results, flattened...)
	}

	log.WithFields(logrus.Fields{
		"results":            len(results),
		logging.DurationKey: time.Since(started).Milliseconds(),
	}).Info("Run finished")

	return results, nil
}

func (n *Node) logger() logrus.FieldLogger {
	if n.Log == nil {
		return logging.Discard()
	}
	return n.Log
}

// ItemError is a handler failure for one input item.
type ItemError struct {
	Item int
	Err  error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Item, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// flatten expands list results into one Result per element.
func flatten(item int, out any) ([]Result, error) {
	switch v := out.(type) {
	case nil:
		return nil, nil
	case []json.RawMessage:
		results := make([]Result, 0, len(v))
		for _, elem := range v {
			results = append(results, Result{Item: item, JSON: elem})
		}
		return results, nil
	case json.RawMessage:
		if len(v) == 0 || string(v) == "null" {
			return nil, nil
		}
		if v[0] != '[' {
			return []Result{{Item: item, JSON: v}}, nil
		}
		elems, err := monday.SplitArray(v)
		if err != nil {
			return nil, fmt.Errorf("failed to split result: %w", err)
		}
		return flatten(item, elems)
	default:
		return []Result{{Item: item, JSON: v}}, nil
	}
}

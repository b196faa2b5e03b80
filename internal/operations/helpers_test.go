package operations

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/robby/mondaypro/internal/monday"
	"github.com/robby/mondaypro/internal/transport"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

type sentRequest struct {
	Query     string
	Variables map[string]any
}

// fakeRequester answers with canned bodies in order and records what was sent.
type fakeRequester struct {
	mu        sync.Mutex
	responses []string
	sent      []sentRequest
}

func (f *fakeRequester) RequestWithAuthentication(_ context.Context, _ string, opts transport.Options) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var req sentRequest
	if data, err := json.Marshal(opts.Body); err == nil {
		_ = json.Unmarshal(data, &req)
	}
	idx := len(f.sent)
	f.sent = append(f.sent, req)

	if idx < len(f.responses) {
		return json.RawMessage(f.responses[idx]), nil
	}
	return json.RawMessage(`{"data":{}}`), nil
}

// createTestContext builds an execution context backed by a fake requester.
func createTestContext(t *testing.T, params Params, responses ...string) (*ExecutionContext, *fakeRequester) {
	t.Helper()
	fake := &fakeRequester{responses: responses}
	return &ExecutionContext{
		Client: monday.New(fake),
		Params: params,
	}, fake
}

// request returns the i-th request sent and checks that its document parses.
func (f *fakeRequester) request(t *testing.T, i int) sentRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	require.Greater(t, len(f.sent), i, "request %d was never sent", i)
	req := f.sent[i]
	if _, err := parser.ParseQuery(&ast.Source{Input: req.Query}); err != nil {
		t.Fatalf("request %d is not valid GraphQL: %v\n%s", i, err, req.Query)
	}
	return req
}

func (f *fakeRequester) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// toJSON encodes a handler result for comparison.
func toJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

// failingRequester fails every call at the transport level.
type failingRequester struct{}

func (failingRequester) RequestWithAuthentication(context.Context, string, transport.Options) (json.RawMessage, error) {
	return nil, errors.New("connection refused")
}

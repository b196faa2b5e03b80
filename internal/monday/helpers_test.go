package monday

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/robby/mondaypro/internal/transport"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// recordedCall is a snapshot of one request, taken when it was sent.
type recordedCall struct {
	Credential string
	Options    transport.Options
	Body       map[string]any
}

// fakeRequester replays canned responses in order and records every call.
type fakeRequester struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     []recordedCall
	repeat    string // returned once responses run out, if set
}

func (f *fakeRequester) RequestWithAuthentication(_ context.Context, credential string, opts transport.Options) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var body map[string]any
	if data, err := json.Marshal(opts.Body); err == nil {
		_ = json.Unmarshal(data, &body)
	}

	idx := len(f.calls)
	f.calls = append(f.calls, recordedCall{Credential: credential, Options: opts, Body: body})

	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	if idx < len(f.responses) {
		return json.RawMessage(f.responses[idx]), nil
	}
	if f.repeat != "" {
		return json.RawMessage(f.repeat), nil
	}
	return json.RawMessage(`{"data":{}}`), nil
}

func (f *fakeRequester) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRequester) call(t *testing.T, i int) recordedCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.Greater(t, len(f.calls), i, "call %d was never made", i)
	return f.calls[i]
}

func rawStrings(items []json.RawMessage) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, string(item))
	}
	return out
}

// assertValidQuery fails the test when q is not a syntactically valid GraphQL document.
func assertValidQuery(t *testing.T, q string) {
	t.Helper()
	doc, err := parser.ParseQuery(&ast.Source{Input: q})
	if err != nil {
		t.Fatalf("invalid GraphQL document: %v\n%s", err, q)
	}
	require.NotEmpty(t, doc.Operations)
}

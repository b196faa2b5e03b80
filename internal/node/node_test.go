package node

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/robby/mondaypro/internal/logging"
	"github.com/robby/mondaypro/internal/monday"
	"github.com/robby/mondaypro/internal/operations"
	"github.com/robby/mondaypro/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRequester replays canned bodies in order.
type scriptedRequester struct {
	responses []string
	calls     int
}

func (s *scriptedRequester) RequestWithAuthentication(context.Context, string, transport.Options) (json.RawMessage, error) {
	idx := s.calls
	s.calls++
	if idx < len(s.responses) {
		return json.RawMessage(s.responses[idx]), nil
	}
	return json.RawMessage(`{"data":{}}`), nil
}

func createTestNode(responses ...string) (*Node, *scriptedRequester) {
	fake := &scriptedRequester{responses: responses}
	return New(monday.New(fake), logging.Discard()), fake
}

func encodeResults(t *testing.T, results []Result) string {
	t.Helper()
	data, err := json.Marshal(results)
	require.NoError(t, err)
	return string(data)
}

func TestRun_OneResultPerItem(t *testing.T) {
	n, fake := createTestNode(
		`{"data":{"archive_board":{"id":"1"}}}`,
		`{"data":{"archive_board":{"id":"2"}}}`,
	)

	results, err := n.Run(context.Background(), operations.ResourceBoard, operations.OpArchive, []operations.Params{
		{"boardId": "1"},
		{"boardId": "2"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"item":0,"json":{"id":"1"}},{"item":1,"json":{"id":"2"}}]`, encodeResults(t, results))
	assert.Equal(t, 2, fake.calls)
}

func TestRun_FlattensArrays(t *testing.T) {
	n, _ := createTestNode(`{"data":{"boards":[{"id":"1"},{"id":"2"}]}}`)

	results, err := n.Run(context.Background(), operations.ResourceBoard, operations.OpGet, []operations.Params{
		{"boardId": "1,2"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Item)
	assert.JSONEq(t, `{"id":"2"}`, string(results[1].JSON.(json.RawMessage)))
}

func TestRun_FlattensAccumulatedLists(t *testing.T) {
	n, _ := createTestNode(
		`{"data":{"boards":[{"id":"1"}]}}`,
		`{"data":{"boards":[]}}`,
	)

	results, err := n.Run(context.Background(), operations.ResourceBoard, operations.OpGetAll, []operations.Params{
		{"returnAll": true},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"item":0,"json":{"id":"1"}}]`, encodeResults(t, results))
}

func TestRun_SkipsNilResults(t *testing.T) {
	n, _ := createTestNode(`{"data":{"delete_board":null}}`)

	results, err := n.Run(context.Background(), operations.ResourceBoard, operations.OpDelete, []operations.Params{
		{"boardId": "1"},
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRun_StructResultKeptWhole(t *testing.T) {
	n, _ := createTestNode(`{"data":{"set_board_permission":{"edit_permissions":"viewer","failed_actions":[]}}}`)

	results, err := n.Run(context.Background(), operations.ResourceBoard, operations.OpSetPermission, []operations.Params{
		{"boardId": "1", "basicRoleName": "viewer"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, encodeResults(t, results), `"basicRoleName":"viewer"`)
}

func TestRun_StopsOnFirstFailure(t *testing.T) {
	n, fake := createTestNode(`{"errors":[{"message":"Board not found"}]}`)

	_, err := n.Run(context.Background(), operations.ResourceBoard, operations.OpArchive, []operations.Params{
		{"boardId": "404"},
		{"boardId": "2"},
	})
	require.Error(t, err)
	assert.Equal(t, "item 0: GraphQL Error: Board not found", err.Error())

	var itemErr *ItemError
	require.True(t, errors.As(err, &itemErr))
	assert.Equal(t, 0, itemErr.Item)

	var gqlErr *operations.GraphQLError
	assert.True(t, errors.As(err, &gqlErr))
	assert.Equal(t, 1, fake.calls)
}

func TestRun_ContinueOnFail(t *testing.T) {
	n, fake := createTestNode(
		`{"errors":[{"message":"Board not found"}]}`,
		`{"data":{"archive_board":{"id":"2"}}}`,
	)
	n.ContinueOnFail = true

	results, err := n.Run(context.Background(), operations.ResourceBoard, operations.OpArchive, []operations.Params{
		{"boardId": "404"},
		{},
		{"boardId": "2"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"item":0,"json":{"error":"GraphQL Error: Board not found"}},
		{"item":1,"json":{"error":"Parameter \"boardId\" is required"}},
		{"item":2,"json":{"id":"2"}}
	]`, encodeResults(t, results))
	assert.Equal(t, 2, fake.calls)
}

func TestRun_UnsupportedOperation(t *testing.T) {
	n, fake := createTestNode()

	_, err := n.Run(context.Background(), operations.ResourceDocs, operations.OpMove, []operations.Params{{}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, operations.ErrUnsupportedOperation))
	assert.Zero(t, fake.calls)
}

func TestRun_LogsRunID(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&logging.Config{Level: "debug", Format: logging.FormatJSON, Output: &buf})

	fake := &scriptedRequester{responses: []string{`{"data":{"archive_board":{"id":"1"}}}`}}
	n := New(monday.New(fake), log)

	_, err := n.Run(context.Background(), operations.ResourceBoard, operations.OpArchive, []operations.Params{{"boardId": "1"}})
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)

	var runID string
	for _, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		id, ok := entry[logging.RunIDKey].(string)
		if !ok {
			continue
		}
		if runID == "" {
			runID = id
		}
		assert.Equal(t, runID, id)
	}
	assert.Len(t, runID, 36)
}

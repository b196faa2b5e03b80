package monday

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestAllItems_ConcatenatesUntilEmptyPage(t *testing.T) {
	fake := &fakeRequester{responses: []string{
		`{"data":{"boards":[{"id":1}]}}`,
		`{"data":{"boards":[{"id":2}]}}`,
		`{"data":{"boards":[]}}`,
	}}
	client := New(fake)

	body := NewRequest("query ($limit: Int, $page: Int) { boards (limit: $limit, page: $page) { id } }").
		Var("limit", 10)

	items, err := client.RequestAllItems(context.Background(), "data.boards", body)
	require.NoError(t, err)

	assert.Equal(t, []string{`{"id":1}`, `{"id":2}`}, rawStrings(items))
	assert.Equal(t, 3, fake.callCount())

	for i := 0; i < 3; i++ {
		vars := fake.call(t, i).Body["variables"].(map[string]any)
		assert.EqualValues(t, 50, vars["limit"])
		assert.EqualValues(t, i+1, vars["page"])
	}

	// The caller's request is left alone
	assert.Equal(t, 10, body.Variables["limit"])
	_, hasPage := body.Variables["page"]
	assert.False(t, hasPage)
}

func TestRequestAllItems_EmptyFirstPage(t *testing.T) {
	fake := &fakeRequester{responses: []string{`{"data":{"boards":[]}}`}}
	client := New(fake)

	items, err := client.RequestAllItems(context.Background(), "data.boards", NewRequest("{ boards { id } }"))
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
	assert.Equal(t, 1, fake.callCount())
}

func TestRequestAllItems_MissingPath(t *testing.T) {
	tests := []struct {
		name string
		resp string
	}{
		{"absent", `{"data":{}}`},
		{"null", `{"data":{"boards":null}}`},
		{"not an array", `{"data":{"boards":{"id":1}}}`},
		{"errors only", `{"errors":[{"message":"boom"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRequester{responses: []string{tt.resp}}
			client := New(fake)

			_, err := client.RequestAllItems(context.Background(), "data.boards", NewRequest("{ boards { id } }"))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingPath))
			assert.Equal(t, 1, fake.callCount())
		})
	}
}

func TestRequestAllItems_PageLimit(t *testing.T) {
	fake := &fakeRequester{repeat: `{"data":{"boards":[{"id":1}]}}`}
	client := New(fake, WithMaxPages(3))

	_, err := client.RequestAllItems(context.Background(), "data.boards", NewRequest("{ boards { id } }"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPageLimit))
	assert.Equal(t, 3, fake.callCount())
}

func TestRequestAllItems_TransportErrorAborts(t *testing.T) {
	fake := &fakeRequester{
		responses: []string{`{"data":{"boards":[{"id":1}]}}`},
		errs:      []error{nil, errors.New("reset by peer")},
	}
	client := New(fake)

	items, err := client.RequestAllItems(context.Background(), "data.boards", NewRequest("{ boards { id } }"))
	require.Error(t, err)
	assert.Nil(t, items)

	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr))
}

func TestRequestAllItems_NestedPath(t *testing.T) {
	fake := &fakeRequester{responses: []string{
		`{"data":{"boards":[{"groups":[{"id":"a"},{"id":"b"}]}]}}`,
		`{"data":{"boards":[{"groups":[]}]}}`,
	}}
	client := New(fake)

	items, err := client.RequestAllItems(context.Background(), "data.boards[0].groups", NewRequest("{ boards { groups { id } } }"))
	require.NoError(t, err)
	assert.Equal(t, []string{`{"id":"a"}`, `{"id":"b"}`}, rawStrings(items))
}

const itemsPageResponse = `{"data":{"boards":[{"items_page":{"cursor":"c1","items":[{"id":"1"}]}}]}}`

func TestPaginatedRequest_FollowsCursor(t *testing.T) {
	fake := &fakeRequester{responses: []string{
		itemsPageResponse,
		`{"data":{"next_items_page":{"cursor":"c2","items":[{"id":"2"}]}}}`,
		`{"data":{"next_items_page":{"cursor":null,"items":[{"id":"3"}]}}}`,
	}}
	client := New(fake)

	fields := "{ id name }"
	body := NewRequest("query ($boardId: [ID!]) { boards (ids: $boardId) { items_page (limit: 100) { cursor items " + fields + " } } }").
		Var("boardId", []string{"42"})

	items, err := client.PaginatedRequest(context.Background(), "data.boards[0].items_page", fields, body)
	require.NoError(t, err)

	assert.Equal(t, []string{`{"id":"1"}`, `{"id":"2"}`, `{"id":"3"}`}, rawStrings(items))
	require.Equal(t, 3, fake.callCount())

	followUp := fake.call(t, 1).Body
	assert.Equal(t,
		"query ( $cursor: String!) { next_items_page (cursor: $cursor, limit: 100) { cursor items { id name } } }",
		followUp["query"])
	assert.Equal(t, map[string]any{"cursor": "c1"}, followUp["variables"])
	assert.Equal(t, map[string]any{"cursor": "c2"}, fake.call(t, 2).Body["variables"])
}

func TestPaginatedRequest_NullCursorMakesOneCall(t *testing.T) {
	fake := &fakeRequester{responses: []string{
		`{"data":{"items_page_by_column_values":{"cursor":null,"items":[{"id":"1"},{"id":"2"}]}}}`,
	}}
	client := New(fake)

	items, err := client.PaginatedRequest(context.Background(), "data.items_page_by_column_values", "{ id }", NewRequest("{ x }"))
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 1, fake.callCount())
}

func TestPaginatedRequest_MissingEnvelope(t *testing.T) {
	for _, resp := range []string{`{"data":{"boards":[]}}`, `{"data":{"boards":[{"items_page":null}]}}`, `{"errors":[{"message":"x"}]}`} {
		fake := &fakeRequester{responses: []string{resp}}
		client := New(fake)

		items, err := client.PaginatedRequest(context.Background(), "data.boards[0].items_page", "{ id }", NewRequest("{ x }"))
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NotNil(t, items)
		assert.Equal(t, 1, fake.callCount(), resp)
	}
}

func TestPaginatedRequest_MalformedFollowUpStops(t *testing.T) {
	fake := &fakeRequester{responses: []string{
		itemsPageResponse,
		`{"data":{"next_items_page":null}}`,
	}}
	client := New(fake)

	items, err := client.PaginatedRequest(context.Background(), "data.boards[0].items_page", "{ id }", NewRequest("{ x }"))
	require.NoError(t, err)
	assert.Equal(t, []string{`{"id":"1"}`}, rawStrings(items))
	assert.Equal(t, 2, fake.callCount())
}

func TestPaginatedRequest_ErrorAborts(t *testing.T) {
	fake := &fakeRequester{
		responses: []string{itemsPageResponse},
		errs:      []error{nil, errors.New("timeout")},
	}
	client := New(fake)

	items, err := client.PaginatedRequest(context.Background(), "data.boards[0].items_page", "{ id }", NewRequest("{ x }"))
	assert.Error(t, err)
	assert.Nil(t, items)
}

func TestNextItemsPageQuery_IsValidGraphQL(t *testing.T) {
	q := NextItemsPageQuery("{ id name column_values { id text } }")
	assertValidQuery(t, q)
}

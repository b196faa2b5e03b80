package operations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookCreate(t *testing.T) {
	ec, fake := createTestContext(t, Params{
		"boardId":          "3",
		"url":              "https://hooks.example.com/in",
		"event":            "create_item",
		"additionalFields": map[string]any{"config": `{"columnId": "status"}`},
	}, `{"data":{"create_webhook":{"id":"w1","board_id":3,"event":"create_item","config":"{}"}}}`)

	out, err := WebhookCreate(context.Background(), ec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"w1","board_id":3,"event":"create_item","config":"{}"}`, toJSON(t, out))

	req := fake.request(t, 0)
	assert.Equal(t, map[string]any{
		"boardId": "3",
		"url":     "https://hooks.example.com/in",
		"event":   "create_item",
		"config":  `{"columnId":"status"}`,
	}, req.Variables)
}

func TestWebhookCreate_InvalidConfig(t *testing.T) {
	ec, fake := createTestContext(t, Params{
		"boardId":          "3",
		"url":              "https://hooks.example.com/in",
		"event":            "create_item",
		"additionalFields": map[string]any{"config": `{columnId}`},
	})

	_, err := WebhookCreate(context.Background(), ec)
	assert.EqualError(t, err, "Config must be valid JSON")
	assert.Zero(t, fake.count())
}

func TestWebhookCreateMany_OneCallPerEvent(t *testing.T) {
	ec, fake := createTestContext(t, Params{
		"boardId": "3",
		"url":     "https://hooks.example.com/in",
		"event":   "create_item, change_column_value",
	},
		`{"data":{"create_webhook":{"id":"w1","event":"create_item"}}}`,
		`{"data":{"create_webhook":{"id":"w2","event":"change_column_value"}}}`)

	out, err := WebhookCreateMany(context.Background(), ec)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"w1","event":"create_item"},{"id":"w2","event":"change_column_value"}]`, toJSON(t, out))

	require.Equal(t, 2, fake.count())
	assert.Equal(t, "create_item", fake.request(t, 0).Variables["event"])
	assert.Equal(t, "change_column_value", fake.request(t, 1).Variables["event"])
	assert.NotContains(t, fake.request(t, 0).Variables, "config")
}

func TestWebhookCreateMany_StopsOnFailure(t *testing.T) {
	ec, fake := createTestContext(t, Params{
		"boardId": "3",
		"url":     "https://hooks.example.com/in",
		"event":   "create_item,bogus,delete_item",
	},
		`{"data":{"create_webhook":{"id":"w1"}}}`,
		`{"errors":[{"message":"invalid event"}]}`)

	_, err := WebhookCreateMany(context.Background(), ec)
	require.Error(t, err)
	assert.Equal(t, "failed to create webhook for bogus: GraphQL Error: invalid event", err.Error())
	assert.Equal(t, 2, fake.count())
}

func TestWebhookGetAll(t *testing.T) {
	body := `{"data":{"webhooks":[{"id":"1"},{"id":"2"},{"id":"3"}]}}`

	t.Run("returns everything by default", func(t *testing.T) {
		ec, _ := createTestContext(t, Params{"boardId": "3"}, body)

		out, err := WebhookGetAll(context.Background(), ec)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"1"},{"id":"2"},{"id":"3"}]`, toJSON(t, out))
	})

	t.Run("truncates to limit", func(t *testing.T) {
		ec, _ := createTestContext(t, Params{"boardId": "3", "returnAll": false, "limit": float64(2)}, body)

		out, err := WebhookGetAll(context.Background(), ec)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"1"},{"id":"2"}]`, toJSON(t, out))
	})

	t.Run("absent list is empty", func(t *testing.T) {
		ec, _ := createTestContext(t, Params{"boardId": "3"}, `{"data":{"webhooks":null}}`)

		out, err := WebhookGetAll(context.Background(), ec)
		require.NoError(t, err)
		assert.Equal(t, "[]", toJSON(t, out))
	})
}

func TestWebhookDelete(t *testing.T) {
	ec, fake := createTestContext(t, Params{"webhookId": float64(12)},
		`{"data":{"delete_webhook":{"id":"12"}}}`)

	out, err := WebhookDelete(context.Background(), ec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"12"}`, toJSON(t, out))
	assert.Equal(t, "12", fake.request(t, 0).Variables["webhookId"])
}

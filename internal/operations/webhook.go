package operations

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/robby/mondaypro/internal/monday"
	"github.com/sirupsen/logrus"
)

const createWebhookMutation = `mutation ($boardId: ID!, $url: String!, $event: WebhookEventType!, $config: JSON) {
			create_webhook (
				board_id: $boardId,
				url: $url,
				event: $event,
				config: $config
			) {
				id
				board_id
				event
				config
			}
		}`

type webhookParams struct {
	boardID any
	url     string
	config  string
}

func readWebhookParams(p Params) (webhookParams, error) {
	var wp webhookParams
	var err error

	if wp.boardID, err = p.Require("boardId"); err != nil {
		return wp, err
	}
	if wp.url, err = p.RequireString("url"); err != nil {
		return wp, err
	}

	config, ok, err := p.Object("additionalFields").JSONText("config", "Config")
	if err != nil {
		return wp, err
	}
	if ok {
		wp.config = config
	}
	return wp, nil
}

func (wp webhookParams) request(event string) *monday.Request {
	req := monday.NewRequest(createWebhookMutation).
		Var("boardId", wp.boardID).
		Var("url", wp.url).
		Var("event", event)
	if wp.config != "" {
		req.Var("config", wp.config)
	}
	return req
}

// WebhookCreate subscribes a URL to one board event.
func WebhookCreate(ctx context.Context, ec *ExecutionContext) (any, error) {
	wp, err := readWebhookParams(ec.Params)
	if err != nil {
		return nil, err
	}
	event, err := ec.Params.RequireString("event")
	if err != nil {
		return nil, err
	}

	resp, err := ec.Client.Request(ctx, wp.request(event))
	if err != nil {
		return nil, err
	}
	return project(resp, "data.create_webhook")
}

// WebhookCreateMany subscribes a URL to every event of a comma separated list,
// one create_webhook call per event, and returns the created webhooks.
func WebhookCreateMany(ctx context.Context, ec *ExecutionContext) (any, error) {
	wp, err := readWebhookParams(ec.Params)
	if err != nil {
		return nil, err
	}
	events := ec.Params.StringSlice("event")
	if len(events) == 0 {
		return nil, missingParam("event")
	}

	created := make([]json.RawMessage, 0, len(events))
	for _, event := range events {
		resp, err := ec.Client.Request(ctx, wp.request(event))
		if err != nil {
			return nil, fmt.Errorf("failed to create webhook for %s: %w", event, err)
		}
		webhook, err := project(resp, "data.create_webhook")
		if err != nil {
			return nil, fmt.Errorf("failed to create webhook for %s: %w", event, err)
		}
		if webhook == nil {
			continue
		}
		created = append(created, webhook.(json.RawMessage))

		ec.logger().WithFields(logrus.Fields{"event": event}).Debug("Webhook created")
	}

	return created, nil
}

// WebhookDelete removes a webhook.
func WebhookDelete(ctx context.Context, ec *ExecutionContext) (any, error) {
	webhookID, err := ec.Params.RequireString("webhookId")
	if err != nil {
		return nil, err
	}

	req := monday.NewRequest(`mutation ($webhookId: ID!) {
			delete_webhook (id: $webhookId) {
				id
			}
		}`).Var("webhookId", webhookID)

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.delete_webhook")
}

// WebhookGetAll lists the webhooks of a board, truncated to limit unless returnAll.
func WebhookGetAll(ctx context.Context, ec *ExecutionContext) (any, error) {
	boardID, err := ec.Params.Require("boardId")
	if err != nil {
		return nil, err
	}

	req := monday.NewRequest(`query ($boardId: ID!) {
			webhooks(board_id: $boardId, app_webhooks_only: false) {
				id
				event
				board_id
				config
			}
		}`).Var("boardId", boardID)

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}

	limit := -1
	if !ec.Params.Bool("returnAll", true) {
		limit = ec.Params.Int("limit", defaultLimit)
	}
	return projectList(resp, "data.webhooks", limit)
}

// projectList returns the array at path, or an empty list when it is absent.
// A non-negative limit truncates the list.
func projectList(resp *monday.Response, path string, limit int) ([]json.RawMessage, error) {
	v, err := project(resp, path)
	if err != nil {
		return nil, err
	}

	list := []json.RawMessage{}
	if v != nil {
		if list, err = monday.SplitArray(v.(json.RawMessage)); err != nil {
			return nil, fmt.Errorf("%w: %s is not a list", ErrInvalidResponse, path)
		}
	}

	if limit >= 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

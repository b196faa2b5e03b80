package monday

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/robby/mondaypro/internal/logging"
	"github.com/sirupsen/logrus"
)

const (
	// PageLimit is the page size forced onto page-numbered requests.
	PageLimit = 50
	// CursorPageLimit is the page size of every next_items_page follow-up.
	CursorPageLimit = 100
	// DefaultMaxPages bounds RequestAllItems against a server that never returns an empty page.
	DefaultMaxPages = 1000
)

var (
	// ErrMissingPath is returned when a page-numbered response lacks the projected array.
	ErrMissingPath = errors.New("response is missing the requested property path")
	// ErrPageLimit is returned when RequestAllItems exceeds the configured page cap.
	ErrPageLimit = errors.New("page limit exceeded")
)

// NextItemsPageQuery is the follow-up document used by PaginatedRequest.
func NextItemsPageQuery(fieldsToReturn string) string {
	return fmt.Sprintf(
		"query ( $cursor: String!) { next_items_page (cursor: $cursor, limit: %d) { cursor items %s } }",
		CursorPageLimit, fieldsToReturn,
	)
}

// RequestAllItems repeatedly issues body with page = 1, 2, ... and limit = 50,
// concatenating the array found at propertyPath until a page comes back empty.
// The caller's request is never modified.
func (c *Client) RequestAllItems(ctx context.Context, propertyPath string, body *Request) ([]json.RawMessage, error) {
	base := body.clone()
	base.Variables["limit"] = PageLimit

	log := c.log.WithField(logging.PageKey, propertyPath)
	out := []json.RawMessage{}

	for page := 1; ; page++ {
		if c.maxPages > 0 && page > c.maxPages {
			return nil, fmt.Errorf("%w: %s after %d pages", ErrPageLimit, propertyPath, c.maxPages)
		}

		req := base.clone()
		req.Variables["page"] = page

		resp, err := c.Request(ctx, req)
		if err != nil {
			return nil, err
		}

		items, err := projectArray(resp.Raw, propertyPath)
		if err != nil {
			return nil, err
		}

		log.WithFields(logrus.Fields{"page_number": page, "count": len(items)}).Debug("Fetched page")

		if len(items) == 0 {
			return out, nil
		}
		out = append(out, items...)
	}
}

// PaginatedRequest issues body once, reads the items/cursor envelope at itemsPath
// and follows next_items_page cursors until the cursor is null.
// A missing envelope yields an empty result without any follow-up.
func (c *Client) PaginatedRequest(ctx context.Context, itemsPath, fieldsToReturn string, body *Request) ([]json.RawMessage, error) {
	resp, err := c.Request(ctx, body.clone())
	if err != nil {
		return nil, err
	}

	out := []json.RawMessage{}

	envelope, _, ok := resp.Lookup(itemsPath)
	if !ok {
		return out, nil
	}

	items, cursor := readItemsPage(envelope)
	out = append(out, items...)

	query := NextItemsPageQuery(fieldsToReturn)
	for cursor != "" {
		next := NewRequest(query).Var("cursor", cursor)

		resp, err := c.Request(ctx, next)
		if err != nil {
			return nil, err
		}

		page, typ, ok := resp.Lookup("data.next_items_page")
		if !ok || typ != jsonparser.Object {
			c.log.WithField("cursor", cursor).Debug("Cursor page missing, stopping")
			break
		}

		items, cursor = readItemsPage(page)
		out = append(out, items...)
	}

	return out, nil
}

// projectArray returns the elements of the array at path.
func projectArray(raw []byte, path string) ([]json.RawMessage, error) {
	value, typ, ok := Lookup(raw, path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingPath, path)
	}
	if typ != jsonparser.Array {
		return nil, fmt.Errorf("%w: %s is not an array", ErrMissingPath, path)
	}
	return SplitArray(value)
}

// readItemsPage reads an {items, cursor} envelope. Anything malformed reads as
// no items and no cursor.
func readItemsPage(envelope []byte) ([]json.RawMessage, string) {
	var items []json.RawMessage
	if value, typ, _, err := jsonparser.Get(envelope, "items"); err == nil && typ == jsonparser.Array {
		items, _ = SplitArray(value)
	}

	cursor, err := jsonparser.GetString(envelope, "cursor")
	if err != nil {
		cursor = ""
	}
	return items, cursor
}

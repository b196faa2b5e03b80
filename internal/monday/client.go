// Package monday provides a GraphQL client for the monday.com API.
// It implements a deep module interface - a single raw request primitive, two
// pagination strategies and field selection builders, plus typed helpers for
// the interactive views.
package monday

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/machinebox/graphql"
	"github.com/robby/mondaypro/internal/auth"
	"github.com/robby/mondaypro/internal/logging"
	"github.com/robby/mondaypro/internal/transport"
	"github.com/sirupsen/logrus"
)

// Client is a monday.com GraphQL API client.
// It is safe for concurrent use; every call owns its request state.
type Client struct {
	requester transport.Requester
	mode      auth.Mode
	defaults  []transport.Option
	gql       *graphql.Client
	maxPages  int
	log       logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithMode selects the authentication mode, and therefore the credential profile.
func WithMode(mode auth.Mode) Option {
	return func(c *Client) { c.mode = mode }
}

// WithTransportOptions adds options applied to every request after the fixed defaults.
func WithTransportOptions(opts ...transport.Option) Option {
	return func(c *Client) { c.defaults = append(c.defaults, opts...) }
}

// WithHTTPClient enables the typed query helpers, which run through machinebox/graphql
// on the given (already authenticated) HTTP client.
func WithHTTPClient(endpoint string, hc *http.Client) Option {
	return func(c *Client) {
		if endpoint == "" {
			endpoint = transport.DefaultURL
		}
		c.gql = graphql.NewClient(endpoint, graphql.WithHTTPClient(hc))
	}
}

// WithMaxPages caps the number of pages RequestAllItems will fetch. Zero removes the cap.
func WithMaxPages(n int) Option {
	return func(c *Client) { c.maxPages = n }
}

// WithLogger sets the logger used for pagination progress.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a new monday.com client on top of an authenticated requester.
func New(requester transport.Requester, opts ...Option) *Client {
	c := &Client{
		requester: requester,
		mode:      auth.ModeAccessToken,
		maxPages:  DefaultMaxPages,
		log:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mode returns the configured authentication mode.
func (c *Client) Mode() auth.Mode {
	return c.mode
}

// Credential returns the credential profile name requests are signed with.
func (c *Client) Credential() string {
	return auth.CredentialFor(c.mode)
}

// Request performs exactly one authenticated call carrying body.
// A nil body is sent as an empty object. Overrides are applied after the fixed
// defaults and win on collision. Transport failures are returned as *APIError;
// GraphQL errors inside a successful response are returned as data, unchecked.
func (c *Client) Request(ctx context.Context, body *Request, overrides ...transport.Option) (*Response, error) {
	if body == nil {
		body = &Request{}
	}

	opts := transport.DefaultOptions(body).Apply(c.defaults...).Apply(overrides...)

	raw, err := c.requester.RequestWithAuthentication(ctx, c.Credential(), opts)
	if err != nil {
		return nil, newAPIError(err)
	}

	return decodeResponse(raw), nil
}

// makeRequest executes a typed GraphQL request through machinebox/graphql.
// GraphQL errors are turned into Go errors by the library.
func (c *Client) makeRequest(ctx context.Context, req *graphql.Request, resp interface{}) error {
	if c.gql == nil {
		return errors.New("typed queries are not configured on this client")
	}
	return c.gql.Run(ctx, req, resp)
}

// APIError is the uniform error for any failure of the underlying transport.
type APIError struct {
	Message    string
	StatusCode int    // HTTP status, zero when no response was received
	Payload    []byte // Response body, when there was one
	Err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("monday.com API error: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func newAPIError(err error) *APIError {
	apiErr := &APIError{Message: err.Error(), Err: err}

	var httpErr *transport.HTTPError
	if errors.As(err, &httpErr) {
		apiErr.StatusCode = httpErr.StatusCode
		apiErr.Payload = httpErr.Body
		if msg := firstErrorMessage(httpErr.Body); msg != "" {
			apiErr.Message = fmt.Sprintf("%s (%s)", msg, httpErr.Status)
		}
	}
	return apiErr
}

// firstErrorMessage extracts a human message from an error body, if it has one.
func firstErrorMessage(body []byte) string {
	var payload struct {
		ErrorMessage string         `json:"error_message"`
		Errors       []GraphQLError `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.ErrorMessage != "" {
		return payload.ErrorMessage
	}
	if len(payload.Errors) > 0 {
		return payload.Errors[0].Message
	}
	return ""
}

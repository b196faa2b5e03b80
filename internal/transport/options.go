// Package transport performs authenticated HTTP calls against the monday.com API.
package transport

import (
	"net/http"
	"time"
)

// Fixed wire contract with the monday.com GraphQL endpoint.
const (
	DefaultURL      = "https://api.monday.com/v2/"
	APIVersion      = "2025-10"
	ContentTypeJSON = "application/json"

	HeaderAPIVersion  = "API-Version"
	HeaderContentType = "Content-Type"
)

// Options is the transport options bag for one HTTP round trip.
type Options struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    any
	// JSON marks the body as a value to encode and the response as JSON to decode.
	JSON bool
	// Timeout bounds a single attempt. Zero means no per-attempt timeout.
	Timeout time.Duration
}

// Option overrides one or more fields of Options.
type Option func(*Options)

// DefaultHeaders returns a fresh copy of the pinned request headers.
func DefaultHeaders() map[string]string {
	return map[string]string{
		HeaderAPIVersion:  APIVersion,
		HeaderContentType: ContentTypeJSON,
	}
}

// DefaultOptions returns the fixed defaults for a GraphQL call carrying body.
func DefaultOptions(body any) Options {
	return Options{
		Method:  http.MethodPost,
		URL:     DefaultURL,
		Headers: DefaultHeaders(),
		Body:    body,
		JSON:    true,
	}
}

// Apply returns a copy of o with opts applied in order. Later options win.
func (o Options) Apply(opts ...Option) Options {
	out := o
	if o.Headers != nil {
		out.Headers = make(map[string]string, len(o.Headers))
		for k, v := range o.Headers {
			out.Headers[k] = v
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&out)
		}
	}
	return out
}

// WithMethod overrides the HTTP method.
func WithMethod(method string) Option {
	return func(o *Options) { o.Method = method }
}

// WithURL overrides the endpoint URL.
func WithURL(url string) Option {
	return func(o *Options) { o.URL = url }
}

// WithHeaders replaces the whole header map.
func WithHeaders(headers map[string]string) Option {
	return func(o *Options) { o.Headers = headers }
}

// WithHeader sets a single header, keeping the others.
func WithHeader(key, value string) Option {
	return func(o *Options) {
		if o.Headers == nil {
			o.Headers = make(map[string]string)
		}
		o.Headers[key] = value
	}
}

// WithBody overrides the request body.
func WithBody(body any) Option {
	return func(o *Options) { o.Body = body }
}

// WithJSON toggles JSON encoding of the body and decoding of the response.
func WithJSON(enabled bool) Option {
	return func(o *Options) { o.JSON = enabled }
}

// WithTimeout bounds each attempt.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

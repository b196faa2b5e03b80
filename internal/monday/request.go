package monday

import (
	"encoding/json"

	"github.com/buger/jsonparser"
)

// Request is a GraphQL document plus its variables.
type Request struct {
	Query     string         `json:"query,omitempty"`
	Variables map[string]any `json:"variables,omitempty"`
}

// NewRequest creates a request with an initialized variables map.
func NewRequest(query string) *Request {
	return &Request{Query: query, Variables: map[string]any{}}
}

// Var sets a variable and returns the request for chaining.
func (r *Request) Var(key string, value any) *Request {
	if r.Variables == nil {
		r.Variables = map[string]any{}
	}
	r.Variables[key] = value
	return r
}

// clone returns a shallow copy whose variables map can be changed freely.
func (r *Request) clone() *Request {
	out := &Request{Variables: map[string]any{}}
	if r == nil {
		return out
	}
	out.Query = r.Query
	for k, v := range r.Variables {
		out.Variables[k] = v
	}
	return out
}

// GraphQLError is one entry of a response's errors array.
type GraphQLError struct {
	Message    string         `json:"message"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Response is a decoded GraphQL response. Either Data or Errors (or both) may be set.
// Raw always holds the full body as received.
type Response struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors []GraphQLError  `json:"errors,omitempty"`
	Raw    json.RawMessage `json:"-"`
}

// HasData reports whether the response carried a non-null data member.
func (r *Response) HasData() bool {
	return len(r.Data) > 0 && string(r.Data) != "null"
}

// ErrorMessages returns the messages of every GraphQL error, in order.
func (r *Response) ErrorMessages() []string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

// Lookup projects a path out of the full response, e.g. "data.boards".
func (r *Response) Lookup(path string) (json.RawMessage, jsonparser.ValueType, bool) {
	return Lookup(r.Raw, path)
}

// decodeResponse never fails: a body that does not follow the {data, errors}
// shape is still returned through Raw.
func decodeResponse(raw json.RawMessage) *Response {
	resp := &Response{}
	if err := json.Unmarshal(raw, resp); err != nil {
		resp = &Response{}
	}
	resp.Raw = raw
	return resp
}

package operations

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/robby/mondaypro/internal/monday"
)

var (
	// ErrUnsupportedOperation is returned for an unknown resource/operation pair.
	ErrUnsupportedOperation = errors.New("Unsupported operation")
	// ErrInvalidJSON marks a JSON parameter that does not parse.
	ErrInvalidJSON = errors.New("invalid JSON parameter")
	// ErrMissingParameter marks a required parameter that is not set.
	ErrMissingParameter = errors.New("missing required parameter")
	// ErrNoResponse is returned when the API produced no response at all.
	ErrNoResponse = errors.New("No response from API")
	// ErrInvalidResponse is returned when a response carries neither errors nor data.
	ErrInvalidResponse = errors.New("Invalid API response structure")
)

// ValidationError is a parameter problem detected before any network call.
type ValidationError struct {
	Param   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalidJSON(param, label string) error {
	return &ValidationError{Param: param, Message: label + " must be valid JSON", Err: ErrInvalidJSON}
}

func missingParam(param string) error {
	return &ValidationError{
		Param:   param,
		Message: fmt.Sprintf("Parameter %q is required", param),
		Err:     ErrMissingParameter,
	}
}

// GraphQLError reports the application errors a response carried.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "GraphQL Error: " + strings.Join(e.Messages, ", ")
}

// checkResponse rejects responses with GraphQL errors or without data.
func checkResponse(resp *monday.Response) error {
	if resp == nil {
		return ErrNoResponse
	}
	if len(resp.Errors) > 0 {
		return &GraphQLError{Messages: resp.ErrorMessages()}
	}
	if !resp.HasData() {
		return fmt.Errorf("%w: %s", ErrInvalidResponse, resp.Raw)
	}
	return nil
}

// project checks resp and returns the value at path, or nil when it is absent.
func project(resp *monday.Response, path string) (any, error) {
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	v, _, ok := resp.Lookup(path)
	if !ok {
		return nil, nil
	}
	return v, nil
}

// projectRequired is project for mutations whose missing result is a failure.
func projectRequired(resp *monday.Response, path, action string) (json.RawMessage, error) {
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	v, _, ok := resp.Lookup(path)
	if !ok || isFalsy(v) {
		return nil, fmt.Errorf("%s failed: %s", action, resp.Data)
	}
	return v, nil
}

func isFalsy(v json.RawMessage) bool {
	switch string(v) {
	case "false", "0", `""`:
		return true
	}
	return false
}

func compactJSON(s string) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Package jq filters node output with jq expressions before it is printed.
package jq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/itchyny/gojq"
)

const (
	// DefaultTimeout bounds one expression evaluation.
	DefaultTimeout = 2 * time.Second

	// DefaultMaxInputSize is the largest encoded input accepted (10MB).
	DefaultMaxInputSize = 10 * 1024 * 1024
)

// Filter compiles a jq expression once and applies it to run output.
type Filter struct {
	expression   string
	code         *gojq.Code
	timeout      time.Duration
	maxInputSize int
}

// Compile parses and compiles expression. An empty expression yields a Filter
// that returns its input unchanged.
func Compile(expression string, timeout time.Duration, maxInputSize int) (*Filter, error) {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if maxInputSize == 0 {
		maxInputSize = DefaultMaxInputSize
	}

	f := &Filter{expression: expression, timeout: timeout, maxInputSize: maxInputSize}
	if expression == "" {
		return f, nil
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("jq compilation failed: %w", err)
	}
	f.code = code
	return f, nil
}

// Apply runs the expression against data and returns every emitted value.
// data may be any JSON-encodable value; it is normalized to plain maps, slices
// and float64 first, which is what gojq works on.
func (f *Filter) Apply(ctx context.Context, data any) ([]any, error) {
	input, err := f.normalize(data)
	if err != nil {
		return nil, err
	}
	if f.code == nil {
		return []any{input}, nil
	}

	runCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	var out []any
	iter := f.code.RunWithContext(runCtx, input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			if runCtx.Err() != nil {
				return nil, fmt.Errorf("jq execution timeout after %v", f.timeout)
			}
			return nil, fmt.Errorf("jq: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *Filter) normalize(data any) (any, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal data: %w", err)
	}
	if len(encoded) > f.maxInputSize {
		return nil, fmt.Errorf("data size (%d bytes) exceeds maximum (%d bytes)", len(encoded), f.maxInputSize)
	}

	var v any
	if err := json.Unmarshal(encoded, &v); err != nil {
		return nil, fmt.Errorf("failed to decode data: %w", err)
	}
	return v, nil
}

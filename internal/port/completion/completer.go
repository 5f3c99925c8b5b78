// Package completion defines the port for the language-model completion
// interface consumed by the pipeline stages.
package completion

import (
	"context"
	"encoding/json"
)

// Request is a single completion call. When Schema is set, the provider is
// asked for structured output conforming to it and the returned string is
// the raw JSON document; otherwise the returned string is plain text.
type Request struct {
	Instructions string
	Prompt       string
	SchemaName   string
	Schema       json.RawMessage
}

// Completer performs one blocking completion call. Network, provider and
// parse failures surface as the error value; stages branch on it explicitly
// instead of treating it as exceptional.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

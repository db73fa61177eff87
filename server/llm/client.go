// Package llm wraps the external text-generation services behind a single
// provider-agnostic interface so the pipeline never couples to a vendor SDK.
package llm

import (
	"context"
	"errors"
)

// ErrMissingAPIKey is returned by constructors whose provider requires a
// credential that was not supplied. It is a configuration error: callers
// should surface it before any pipeline work starts.
var ErrMissingAPIKey = errors.New("llm: GEMINI_API_KEY is not set")

// Prompt is one fully-formed instruction for the model service, split into
// the system role text and the user message.
type Prompt struct {
	System string
	User   string
}

// Client is the model-service boundary. Generate performs exactly one
// outbound call per invocation: no retries, no caching, no streaming. A
// failed call is terminal for that call.
type Client interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
	ProviderName() string
}

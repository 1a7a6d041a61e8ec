// Package llm talks to hosted language models. Vendor adapters return
// schema-checked JSON; decorators add retries, timeouts, metrics and a
// request log on top.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one completion per call.
type Provider interface {
	// Generate returns the model output. With req.Schema set the output is
	// a JSON object already validated against the schema.
	Generate(ctx context.Context, req Request) (*Response, error)

	ModelID() string
}

// Request is a single-turn prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema requests structured output. Nil means free text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0,1]. Zero leaves the vendor default.
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema. Name doubles as the cache key for the
// compiled validator, so distinct schemas need distinct names.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Stop reasons shared by all adapters.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// finish assembles an adapter's result. Structured output cut off by the
// token limit is reported as ErrMaxTokensExceeded instead of a schema
// failure.
func finish(req Request, raw json.RawMessage, usage Usage, model, stop string) (*Response, error) {
	if req.Schema != nil {
		if stop == StopMaxTokens {
			return nil, &ErrMaxTokensExceeded{Content: raw}
		}
		if err := validateResponse(req.Schema, raw); err != nil {
			return nil, err
		}
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return &Response{Content: raw, Usage: usage, Model: model, StopReason: stop}, nil
}

// resolveModel expands a short alias. Unknown names pass through so full
// vendor model IDs work too.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}

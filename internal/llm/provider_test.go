package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_Script(t *testing.T) {
	m := NewMockProvider(MockResponse{Content: json.RawMessage(`{"n":1}`), Usage: Usage{InputTokens: 3}})
	m.AddResponse(MockResponse{Err: &ErrRateLimit{}})

	resp, err := m.Generate(context.Background(), Request{System: "first"})
	require.NoError(t, err)
	assert.Equal(t, `{"n":1}`, string(resp.Content))
	assert.Equal(t, "mock", resp.Model)
	assert.Equal(t, StopEnd, resp.StopReason)

	_, err = m.Generate(context.Background(), Request{System: "second"})
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)

	_, err = m.Generate(context.Background(), Request{System: "third"})
	var down *ErrProviderUnavailable
	assert.ErrorAs(t, err, &down)

	require.Equal(t, 3, m.CallCount())
	assert.Equal(t, "third", m.Calls[2].System)
}

func TestContextLabels(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))
	assert.Empty(t, SessionFrom(ctx))

	ctx = WithSession(WithPurpose(ctx, "hint"), "s-42")
	assert.Equal(t, "hint", PurposeFrom(ctx))
	assert.Equal(t, "s-42", SessionFrom(ctx))
}

func TestFinish(t *testing.T) {
	schema := &Schema{Name: "finish-test", Definition: map[string]any{
		"type":     "object",
		"required": []any{"ok"},
	}}

	resp, err := finish(Request{}, json.RawMessage(`not json`), Usage{InputTokens: 2, OutputTokens: 3}, "m", StopMaxTokens)
	require.NoError(t, err, "free text is never validated")
	assert.Equal(t, 5, resp.Usage.TotalTokens)

	_, err = finish(Request{Schema: schema}, json.RawMessage(`{"ok":`), Usage{}, "m", StopMaxTokens)
	var truncated *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &truncated)

	_, err = finish(Request{Schema: schema}, json.RawMessage(`{}`), Usage{}, "m", StopEnd)
	var invalid *ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.Canceled, false},
		{&ErrProviderUnavailable{Err: context.DeadlineExceeded}, false},
		{&ErrMaxTokensExceeded{}, false},
		{&ErrRateLimit{}, true},
		{&ErrInvalidResponse{Err: errors.New("bad")}, true},
		{errors.New("connection reset"), true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Retryable(tt.err), "%v", tt.err)
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, (&ErrRateLimit{RetryAfter: 2 * time.Second, Err: errors.New("429")}).Error(), "retry in 2s")
	assert.Equal(t, "llm: provider unavailable", (&ErrProviderUnavailable{}).Error())
	assert.Contains(t, (&ErrMaxTokensExceeded{Content: json.RawMessage(`{"a"`)}).Error(), "4 bytes")
}

func TestConfig_Validate(t *testing.T) {
	retry := DefaultConfig().Retry
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"mock", Config{Provider: "mock", Retry: retry}, ""},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "k"}, Retry: retry}, ""},
		{"gemini without key", Config{Provider: "gemini", Retry: retry}, "CODETRAIN_GEMINI_API_KEY"},
		{"openrouter without key", Config{Provider: "openrouter", Retry: retry}, "CODETRAIN_OPENROUTER_API_KEY"},
		{"unknown vendor", Config{Provider: "cohere", Retry: retry}, "unknown LLM provider"},
		{"no attempts", Config{Provider: "mock"}, "retry attempts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("CODETRAIN_LLM_PROVIDER", "anthropic")
	t.Setenv("CODETRAIN_ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("CODETRAIN_ANTHROPIC_MODEL", "claude-sonnet")
	t.Setenv("CODETRAIN_LLM_TIMEOUT", "15s")

	cfg := ConfigFromEnv()
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "sk-ant", cfg.Anthropic.APIKey)
	assert.Equal(t, "claude-sonnet", cfg.Anthropic.Model)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, "gpt-mini", cfg.OpenAI.Model)

	t.Setenv("CODETRAIN_LLM_TIMEOUT", "soon")
	assert.Equal(t, time.Minute, ConfigFromEnv().Timeout)
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("GEMINI_API_KEY", "g")
	t.Setenv("OPENROUTER_API_KEY", "r")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "g", cfg.Gemini.APIKey)
	assert.NoError(t, cfg.Validate())
}

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		in    float64
	}{
		{"claude-haiku-4-5-20251001", 1},
		{"claude-opus-4-5-20251101", 5},
		{"claude-opus-4-1", 15},
		{"gpt-5-mini-2025-08-07", 0.25},
		{"gpt-5", 1.25},
		{"openai/gpt-4o-mini", 0.15},
		{"gemini-2.5-flash-lite", 0.1},
		{"qwen/qwen3-coder", 0.22},
	}
	for _, tt := range tests {
		c := LookupCost(tt.model)
		if assert.NotNil(t, c, tt.model) {
			assert.Equal(t, tt.in, c.InputPerMTok, tt.model)
		}
	}

	assert.Nil(t, LookupCost("llama-3-70b"))
	assert.Nil(t, LookupCost("gpt-5x"))
	assert.InDelta(t, 0.0035, ModelCost{InputPerMTok: 1, OutputPerMTok: 5}.Cost(1000, 500), 1e-12)
}

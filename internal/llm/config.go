package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config selects a vendor and carries the settings for all of them, so a
// single environment can switch vendors with one variable.
type Config struct {
	// Provider is one of anthropic, openai, gemini, openrouter or mock.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call, retries included.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig also serves self-hosted OpenAI-compatible servers through
// BaseURL.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

func DefaultConfig() Config {
	return Config{
		Provider:   "openai",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "qwen/qwen3-coder"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: time.Minute,
	}
}

// envStrings lists the CODETRAIN_* variables copied verbatim into Config.
func envStrings(c *Config) map[string]*string {
	return map[string]*string{
		"CODETRAIN_LLM_PROVIDER":       &c.Provider,
		"CODETRAIN_ANTHROPIC_API_KEY":  &c.Anthropic.APIKey,
		"CODETRAIN_ANTHROPIC_MODEL":    &c.Anthropic.Model,
		"CODETRAIN_OPENAI_API_KEY":     &c.OpenAI.APIKey,
		"CODETRAIN_OPENAI_MODEL":       &c.OpenAI.Model,
		"CODETRAIN_OPENAI_BASE_URL":    &c.OpenAI.BaseURL,
		"CODETRAIN_GEMINI_API_KEY":     &c.Gemini.APIKey,
		"CODETRAIN_GEMINI_MODEL":       &c.Gemini.Model,
		"CODETRAIN_OPENROUTER_API_KEY": &c.OpenRouter.APIKey,
		"CODETRAIN_OPENROUTER_MODEL":   &c.OpenRouter.Model,
	}
}

// ConfigFromEnv overlays set CODETRAIN_* variables on the defaults.
// A malformed CODETRAIN_LLM_TIMEOUT is reported and ignored.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for name, dst := range envStrings(&cfg) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	if raw := os.Getenv("CODETRAIN_LLM_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: ignoring CODETRAIN_LLM_TIMEOUT=%q: %v\n", raw, err)
		} else {
			cfg.Timeout = d
		}
	}
	return cfg
}

// vendorKeys is the order DiscoverConfig probes the vendors' own key
// variables in.
var vendorKeys = []struct {
	env      string
	provider string
	apply    func(c *Config, key string)
}{
	{"OPENAI_API_KEY", "openai", func(c *Config, k string) {
		c.OpenAI.APIKey = k
		c.OpenAI.BaseURL = os.Getenv("OPENAI_BASE_URL")
	}},
	{"ANTHROPIC_API_KEY", "anthropic", func(c *Config, k string) { c.Anthropic.APIKey = k }},
	{"GEMINI_API_KEY", "gemini", func(c *Config, k string) { c.Gemini.APIKey = k }},
	{"OPENROUTER_API_KEY", "openrouter", func(c *Config, k string) { c.OpenRouter.APIKey = k }},
}

// DiscoverConfig builds a Config for the first vendor whose standard API
// key variable is set. ok is false when none is.
func DiscoverConfig() (cfg Config, ok bool) {
	for _, v := range vendorKeys {
		key := os.Getenv(v.env)
		if key == "" {
			continue
		}
		cfg = DefaultConfig()
		cfg.Provider = v.provider
		v.apply(&cfg, key)
		return cfg, true
	}
	return Config{}, false
}

// Validate reports a missing key for the selected vendor or an unusable
// retry policy.
func (c Config) Validate() error {
	keys := map[string]string{
		"anthropic":  c.Anthropic.APIKey,
		"openai":     c.OpenAI.APIKey,
		"gemini":     c.Gemini.APIKey,
		"openrouter": c.OpenRouter.APIKey,
	}
	key, known := keys[c.Provider]
	switch {
	case c.Provider == "mock":
	case !known:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	case key == "":
		return fmt.Errorf("%s provider selected but no API key set (CODETRAIN_%s_API_KEY)", c.Provider, strings.ToUpper(c.Provider))
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry attempts must be positive, got %d", c.Retry.MaxAttempts)
	}
	return nil
}

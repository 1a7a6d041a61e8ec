package llm

import (
	"errors"
	"net/http"
)

const openRouterURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider reuses the OpenAI client against OpenRouter and tags
// every request with the attribution headers OpenRouter reads.
type OpenRouterProvider struct {
	*OpenAIProvider
}

func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter: missing API key")
	}
	base := cfg.BaseURL
	if base == "" {
		base = openRouterURL
	}
	hc := &http.Client{Transport: attribution{next: http.DefaultTransport}}
	return &OpenRouterProvider{OpenAIProvider: newOpenAICompatible(cfg.APIKey, base, cfg.Model, hc)}, nil
}

type attribution struct {
	next http.RoundTripper
}

func (a attribution) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("HTTP-Referer", "https://github.com/abhisek/codetrain")
	r.Header.Set("X-Title", "codetrain")
	return a.next.RoundTrip(r)
}

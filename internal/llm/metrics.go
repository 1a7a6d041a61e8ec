package llm

import (
	"context"
	"time"

	"github.com/abhisek/codetrain/internal/metrics"
)

// MetricsProvider is a decorator that counts requests and observes their
// latency, labelled by the purpose attached to the context.
type MetricsProvider struct {
	inner Provider
}

// WithMetrics wraps a Provider with Prometheus instrumentation.
func WithMetrics(p Provider) Provider {
	return &MetricsProvider{inner: p}
}

func (m *MetricsProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	purpose := PurposeFrom(ctx)
	start := time.Now()

	resp, err := m.inner.Generate(ctx, req)

	metrics.LLMDuration.WithLabelValues(purpose).Observe(time.Since(start).Seconds())
	metrics.LLMRequests.WithLabelValues(purpose, metrics.Status(err)).Inc()
	return resp, err
}

func (m *MetricsProvider) ModelID() string {
	return m.inner.ModelID()
}

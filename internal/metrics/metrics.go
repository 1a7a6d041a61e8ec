// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Practice cycles by outcome: completed, skipped
	CyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codetrain_cycles_total",
			Help: "Total number of practice cycles",
		},
		[]string{"outcome"},
	)

	// Mastery updates per skill and correctness
	MasteryUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codetrain_mastery_updates_total",
			Help: "Total number of BKT mastery updates",
		},
		[]string{"skill", "correct"},
	)

	// Tasks handed to learners by where they came from: store, generated
	TaskAcquisitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codetrain_task_acquisitions_total",
			Help: "Total number of tasks accepted into a session",
		},
		[]string{"source"},
	)

	// Generated tasks rejected because the session had already seen them
	TaskRegenerations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "codetrain_task_regenerations_total",
			Help: "Total number of duplicate tasks that forced a regeneration",
		},
	)

	// Skill selections by selector regime
	SelectorDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codetrain_selector_decisions_total",
			Help: "Total number of skill selections by regime",
		},
		[]string{"regime"},
	)

	// LLM requests by purpose and status: success/failure
	LLMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codetrain_llm_requests_total",
			Help: "Total number of LLM requests",
		},
		[]string{"purpose", "status"},
	)

	LLMDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "codetrain_llm_request_duration_seconds",
			Help:    "Time spent waiting for LLM responses, retries included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"purpose"},
	)

	// Sessions currently held by the API server
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "codetrain_active_sessions_current",
			Help: "Current number of open practice sessions",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codetrain_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "codetrain_http_request_duration_seconds",
			Help:    "Time spent serving HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Status maps an error to the status label used by the counters.
func Status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// GinMiddleware records request counts and latency per matched route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Package metrics provides Prometheus metrics for envdeck.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "envdeck",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks HTTP request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "envdeck",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight tracks the number of in-flight HTTP requests.
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "envdeck",
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// EncryptionOperations counts encryption operations.
	EncryptionOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "envdeck",
			Name:      "encryption_operations_total",
			Help:      "Total number of encryption/decryption operations",
		},
		[]string{"operation"}, // "encrypt" or "decrypt"
	)

	// DecryptionFailures counts envelope decryptions that resolved to an
	// empty value. Distinguishes "decryption failed" from "value was empty",
	// which the load result alone cannot.
	DecryptionFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "envdeck",
			Name:      "decryption_failures_total",
			Help:      "Total number of secret values that failed to decrypt on load",
		},
	)

	// GroupSaves counts whole-collection persistence operations by outcome.
	GroupSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "envdeck",
			Name:      "group_saves_total",
			Help:      "Total number of group collection saves",
		},
		[]string{"outcome"}, // "ok" or "error"
	)

	// GroupLoads counts whole-collection loads by source.
	GroupLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "envdeck",
			Name:      "group_loads_total",
			Help:      "Total number of group collection loads",
		},
		[]string{"source"}, // "store" or "defaults"
	)

	// ChatStreamEvents counts streamed chat events by type.
	ChatStreamEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "envdeck",
			Name:      "chat_stream_events_total",
			Help:      "Total number of chat stream events delivered",
		},
		[]string{"type"},
	)

	// ChatStreamsActive tracks the number of open chat streams.
	ChatStreamsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "envdeck",
			Name:      "chat_streams_active",
			Help:      "Number of chat streams currently open",
		},
	)
)

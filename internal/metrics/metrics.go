// Package metrics registers the Prometheus instruments for the
// ingestion pipeline. Counters are process-scoped; the HTTP server
// exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderCalls counts remote provider API calls by provider and outcome.
	ProviderCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "decisiond_provider_calls_total",
		Help: "Remote provider API calls by provider (gmail, drive) and outcome (ok, retried, error).",
	}, []string{"provider", "outcome"})

	// PollCycles counts poll cycles by job and outcome.
	PollCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "decisiond_poll_cycles_total",
		Help: "Poller cycles by job (gmail, drive) and outcome (ok, error).",
	}, []string{"job", "outcome"})

	// SourcesCreated counts sources entering the queue by channel.
	SourcesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "decisiond_sources_created_total",
		Help: "Sources created by channel (meeting, email, document, manual_input).",
	}, []string{"channel"})

	// Extractions counts extraction attempts by outcome (success, empty, failure).
	Extractions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "decisiond_extractions_total",
		Help: "Extraction attempts by outcome (success, empty, failure).",
	}, []string{"outcome"})

	// ItemsExtracted counts validated items persisted, by type.
	ItemsExtracted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "decisiond_items_extracted_total",
		Help: "Validated project items persisted, by item type.",
	}, []string{"type"})
)

package resolver

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	resolverFetchesTotal *prometheus.CounterVec
	resolverProbesTotal  *prometheus.CounterVec
	resolverEntriesTotal *prometheus.CounterVec

	metricsOnce sync.Once
)

// InitMetrics registers the Prometheus collectors for the pipeline.
// It is safe to call multiple times; metrics stay disabled until called.
func InitMetrics() {
	metricsOnce.Do(func() {
		resolverFetchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resolver_document_fetches_total",
				Help: "Total vendor document fetches, labeled by result.",
			},
			[]string{"result"},
		)
		resolverProbesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resolver_image_probes_total",
				Help: "Total image probe requests, labeled by result.",
			},
			[]string{"result"},
		)
		resolverEntriesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resolver_entries_total",
				Help: "Catalog entries processed, labeled by image source.",
			},
			[]string{"source"},
		)
	})
}

// MetricsHandler returns an http.Handler exposing the Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// Snapshot gathers the pipeline's own counter families from the default
// registry and flattens them into name{label=value} keys, so a run can report
// its counters even when no scrape endpoint is configured.
func Snapshot() map[string]float64 {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return nil
	}
	counts := make(map[string]float64)
	for _, family := range families {
		if !strings.HasPrefix(family.GetName(), "resolver_") {
			continue
		}
		for _, metric := range family.GetMetric() {
			key := family.GetName()
			for _, label := range metric.GetLabel() {
				key += fmt.Sprintf("{%s=%s}", label.GetName(), label.GetValue())
			}
			counts[key] = metric.GetCounter().GetValue()
		}
	}
	return counts
}

func observeFetch(ok bool) {
	if resolverFetchesTotal == nil {
		return
	}
	result := "error"
	if ok {
		result = "ok"
	}
	resolverFetchesTotal.WithLabelValues(result).Inc()
}

func observeProbe(result string) {
	if resolverProbesTotal == nil {
		return
	}
	resolverProbesTotal.WithLabelValues(result).Inc()
}

// ObserveEntry records the winning image source for one entry:
// override, direct, fallback, or unresolved.
func ObserveEntry(source string) {
	ObserveEntries(source, 1)
}

// ObserveEntries records n entries at once for a source.
func ObserveEntries(source string, n int) {
	if resolverEntriesTotal == nil || n <= 0 {
		return
	}
	resolverEntriesTotal.WithLabelValues(source).Add(float64(n))
}

// Package metrics bundles Prometheus collectors for the parse pipeline
// and the stats engine cache, on a private registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the collectors and their registry.
type Metrics struct {
	registry          *prometheus.Registry
	messagesParsed    prometheus.Counter
	blocksMalformed   prometheus.Counter
	systemDropped     prometheus.Counter
	authorsExcluded   prometheus.Counter
	parseDuration     prometheus.Histogram
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	reparsesTriggered prometheus.Counter
}

// New builds the collector set on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		messagesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chatmetrics",
			Name:      "messages_parsed_total",
			Help:      "Messages successfully parsed and classified",
		}),
		blocksMalformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chatmetrics",
			Name:      "blocks_malformed_total",
			Help:      "Message blocks dropped for not matching the header grammar",
		}),
		systemDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chatmetrics",
			Name:      "system_messages_dropped_total",
			Help:      "Administrative messages filtered out by the classifier",
		}),
		authorsExcluded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chatmetrics",
			Name:      "excluded_author_messages_total",
			Help:      "Messages dropped because their author is excluded",
		}),
		parseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chatmetrics",
			Name:      "parse_duration_seconds",
			Help:      "Histogram of full transcript parse durations",
			Buckets:   prometheus.DefBuckets,
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chatmetrics",
			Name:      "stats_cache_hits_total",
			Help:      "Stats engine memoization cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chatmetrics",
			Name:      "stats_cache_misses_total",
			Help:      "Stats engine memoization cache misses",
		}),
		reparsesTriggered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chatmetrics",
			Name:      "reparses_triggered_total",
			Help:      "Re-parses triggered by watch mode file events",
		}),
	}

	registry.MustRegister(
		m.messagesParsed,
		m.blocksMalformed,
		m.systemDropped,
		m.authorsExcluded,
		m.parseDuration,
		m.cacheHits,
		m.cacheMisses,
		m.reparsesTriggered,
	)
	return m
}

// Handler exposes the registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// AddMessagesParsed records n successfully parsed messages.
func (m *Metrics) AddMessagesParsed(n int) {
	if m == nil {
		return
	}
	m.messagesParsed.Add(float64(n))
}

// IncBlocksMalformed counts a dropped malformed block.
func (m *Metrics) IncBlocksMalformed() {
	if m == nil {
		return
	}
	m.blocksMalformed.Inc()
}

// IncSystemDropped counts a discarded administrative message.
func (m *Metrics) IncSystemDropped() {
	if m == nil {
		return
	}
	m.systemDropped.Inc()
}

// IncAuthorsExcluded counts a message dropped by author exclusion.
func (m *Metrics) IncAuthorsExcluded() {
	if m == nil {
		return
	}
	m.authorsExcluded.Inc()
}

// ObserveParse records one full transcript parse.
func (m *Metrics) ObserveParse(dur time.Duration) {
	if m == nil {
		return
	}
	m.parseDuration.Observe(dur.Seconds())
}

// CacheHit implements stats.CacheObserver.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// CacheMiss implements stats.CacheObserver.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// IncReparses counts a watch-triggered re-parse.
func (m *Metrics) IncReparses() {
	if m == nil {
		return
	}
	m.reparsesTriggered.Inc()
}

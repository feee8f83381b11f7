package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCountersAppearInExposition(t *testing.T) {
	m := New()
	m.AddMessagesParsed(3)
	m.IncBlocksMalformed()
	m.IncSystemDropped()
	m.IncAuthorsExcluded()
	m.CacheHit()
	m.CacheMiss()
	m.IncReparses()
	m.ObserveParse(50 * time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()

	for _, want := range []string{
		"chatmetrics_messages_parsed_total 3",
		"chatmetrics_blocks_malformed_total 1",
		"chatmetrics_system_messages_dropped_total 1",
		"chatmetrics_excluded_author_messages_total 1",
		"chatmetrics_stats_cache_hits_total 1",
		"chatmetrics_stats_cache_misses_total 1",
		"chatmetrics_reparses_triggered_total 1",
		"chatmetrics_parse_duration_seconds_count 1",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("exposition missing %q:\n%s", want, body)
		}
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.AddMessagesParsed(1)
	m.IncBlocksMalformed()
	m.IncSystemDropped()
	m.IncAuthorsExcluded()
	m.CacheHit()
	m.CacheMiss()
	m.IncReparses()
	m.ObserveParse(time.Millisecond)
}

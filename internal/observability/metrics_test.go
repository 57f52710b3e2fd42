package observability

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/api/recipes", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ObserveAggregateOperation("Recipe.Create", "ok", time.Millisecond)
	m.IncAggregateConflict("Recipe.Create")
	m.ObserveCacheLookup("ingredients", true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 503 {
		t.Fatalf("nil metrics handler status: %d", rec.Code)
	}
}

func TestMetricsRecordAndExpose(t *testing.T) {
	m := New()
	m.ObserveAPI("GET", "/api/recipes", "200", 20*time.Millisecond)
	m.ObserveAPI("GET", "/api/recipes", "200", 30*time.Millisecond)
	m.IncAggregateConflict("Social.Membership.Add.favorite")
	m.ObserveCacheLookup("ingredients", false)

	if got := testutil.ToFloat64(m.apiRequests.WithLabelValues("GET", "/api/recipes", "200")); got != 2 {
		t.Fatalf("api request count: %v", got)
	}
	if got := testutil.ToFloat64(m.aggregateConflicts.WithLabelValues("Social.Membership.Add.favorite")); got != 1 {
		t.Fatalf("conflict count: %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	for _, name := range []string{"foodgram_api_requests_total", "foodgram_cache_lookups_total", "go_goroutines"} {
		if !strings.Contains(body, name) {
			t.Fatalf("exposition missing %s", name)
		}
	}
}

func TestParseHeaders(t *testing.T) {
	got := parseHeaders(" authorization=Bearer x , broken, =v,k= ")
	if len(got) != 1 || got["authorization"] != "Bearer x" {
		t.Fatalf("unexpected headers: %v", got)
	}
	if parseHeaders("") != nil {
		t.Fatalf("empty input should yield nil")
	}
}

func TestClampRatio(t *testing.T) {
	cases := map[float64]float64{0: 0.1, -1: 0.1, 0.5: 0.5, 3: 1}
	for in, want := range cases {
		if got := clampRatio(in); got != want {
			t.Fatalf("clampRatio(%v) = %v, want %v", in, got, want)
		}
	}
}

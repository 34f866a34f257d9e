package metrics

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRenderIncludesCountersAndHistogram(t *testing.T) {
	before := generationStartedTotal.Load()
	IncGenerationStarted()
	AddTempStoreEvicted(0)
	ObserveRenderDurationMs(7)

	if got := generationStartedTotal.Load(); got != before+1 {
		t.Fatalf("expected started counter to grow by one, got %d -> %d", before, got)
	}

	out := Render()
	for _, want := range []string{
		"# TYPE cv_generation_started_total counter",
		"cv_temp_store_evicted_total",
		"cv_render_duration_ms_bucket{le=\"10\"}",
		"cv_render_duration_ms_bucket{le=\"+Inf\"}",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in metrics output:\n%s", want, out)
		}
	}
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{1, 5})
	for _, v := range []float64{0.5, 1, 3, 9} {
		h.Observe(v)
	}

	snap := h.Snapshot()
	if snap.count != 4 || snap.sum != 13.5 {
		t.Fatalf("unexpected totals count=%d sum=%v", snap.count, snap.sum)
	}
	if snap.hits[0] != 2 || snap.hits[1] != 1 {
		t.Fatalf("unexpected bucket hits %v", snap.hits)
	}

	var buf bytes.Buffer
	writeHistogram(&buf, "h", "test", snap)
	for _, want := range []string{
		"h_bucket{le=\"1\"} 2\n",
		"h_bucket{le=\"5\"} 3\n",
		"h_bucket{le=\"+Inf\"} 4\n",
		"h_sum 13.5\n",
		"h_count 4\n",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("expected %q in:\n%s", want, buf.String())
		}
	}
}

func TestActiveSessionsGauge(t *testing.T) {
	SetActiveSessions(3)
	defer SetActiveSessions(0)
	if out := Render(); !strings.Contains(out, "# TYPE cv_active_sessions gauge\ncv_active_sessions 3\n") {
		t.Fatalf("expected session gauge in:\n%s", out)
	}
}

func TestHandlerServesPrometheusText(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("unexpected content type %q", ct)
	}
}

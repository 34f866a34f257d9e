package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"slices"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	generationStartedTotal   atomic.Uint64
	generationCompletedTotal atomic.Uint64
	generationFailedTotal    atomic.Uint64
	downloadsTotal           atomic.Uint64
	tempStoreEvictedTotal    atomic.Uint64
	activeSessions           atomic.Int64

	renderDuration = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500})
)

// IncGenerationStarted increments the started counter.
func IncGenerationStarted() {
	generationStartedTotal.Add(1)
}

// IncGenerationCompleted increments the completed counter.
func IncGenerationCompleted() {
	generationCompletedTotal.Add(1)
}

// IncGenerationFailed increments the failed counter.
func IncGenerationFailed() {
	generationFailedTotal.Add(1)
}

// IncDownloads counts a document handed to a client.
func IncDownloads() {
	downloadsTotal.Add(1)
}

// AddTempStoreEvicted counts entries removed from the temporary store.
func AddTempStoreEvicted(n int) {
	if n <= 0 {
		return
	}
	tempStoreEvictedTotal.Add(uint64(n))
}

// SetActiveSessions records how many sessions hold an orchestrator.
func SetActiveSessions(n int) {
	activeSessions.Store(int64(n))
}

// ObserveRenderDurationMs records a render duration in milliseconds.
func ObserveRenderDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	renderDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "cv_generation_started_total", "Total CV generations started", generationStartedTotal.Load())
	writeCounter(&buf, "cv_generation_completed_total", "Total CV generations completed", generationCompletedTotal.Load())
	writeCounter(&buf, "cv_generation_failed_total", "Total CV generations failed", generationFailedTotal.Load())
	writeCounter(&buf, "cv_downloads_total", "Total CV downloads served", downloadsTotal.Load())
	writeCounter(&buf, "cv_temp_store_evicted_total", "Total entries evicted from the temporary store", tempStoreEvictedTotal.Load())
	writeGauge(&buf, "cv_active_sessions", "Sessions with a live CV orchestrator", activeSessions.Load())
	writeHistogram(&buf, "cv_render_duration_ms", "CV render duration in milliseconds", renderDuration.Snapshot())
	return buf.String()
}

// histogram counts each observation in the first bucket whose bound holds
// it; values above every bound only reach count. Rendering accumulates.
type histogram struct {
	mu     sync.Mutex
	bounds []float64
	hits   []uint64
	sum    float64
	count  uint64
}

type histogramSnapshot struct {
	bounds []float64
	hits   []uint64
	sum    float64
	count  uint64
}

func newHistogram(bounds []float64) *histogram {
	return &histogram{bounds: bounds, hits: make([]uint64, len(bounds))}
}

func (h *histogram) Observe(value float64) {
	i := sort.SearchFloat64s(h.bounds, value)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	if i < len(h.hits) {
		h.hits[i]++
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		bounds: h.bounds,
		hits:   slices.Clone(h.hits),
		sum:    h.sum,
		count:  h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeGauge(buf *bytes.Buffer, name, help string, value int64) {
	fmt.Fprintf(buf, "# HELP %s %s\n# TYPE %s gauge\n%s %d\n", name, help, name, name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n# TYPE %s histogram\n", name, help, name)
	var seen uint64
	for i, bound := range snap.bounds {
		seen += snap.hits[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), seen)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the milliseconds elapsed since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}

package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	introGeneratedTotal   atomic.Uint64
	introFailedTotal      atomic.Uint64
	replaceCompletedTotal atomic.Uint64
	replaceFailedTotal    atomic.Uint64

	rewriteDuration = newHistogram([]float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000})
)

// IncIntroGenerated increments the free-form generation success counter.
func IncIntroGenerated() {
	introGeneratedTotal.Add(1)
}

// IncIntroFailed increments the free-form generation failure counter.
func IncIntroFailed() {
	introFailedTotal.Add(1)
}

// IncReplaceCompleted increments the Pro pipeline success counter.
func IncReplaceCompleted() {
	replaceCompletedTotal.Add(1)
}

// IncReplaceFailed increments the Pro pipeline failure counter.
func IncReplaceFailed() {
	replaceFailedTotal.Add(1)
}

// ObserveRewriteDurationMs records a PDF rewrite duration in milliseconds.
func ObserveRewriteDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	rewriteDuration.Observe(value)
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
	writeCounter(&buf, "intro_generated_total", "Total intros generated", introGeneratedTotal.Load())
	writeCounter(&buf, "intro_failed_total", "Total intro generations failed", introFailedTotal.Load())
	writeCounter(&buf, "replace_completed_total", "Total resume rewrites completed", replaceCompletedTotal.Load())
	writeCounter(&buf, "replace_failed_total", "Total resume rewrites failed", replaceFailedTotal.Load())
	writeHistogram(&buf, "rewrite_duration_ms", "PDF rewrite duration in milliseconds", rewriteDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
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

// Package profiler - Thread-safe timing and metric trackers used by the benchmark harness.
package profiler

import (
	"fmt"
	"io"
	"runtime"
	"sort"
	"sync"
	"time"
)

// DefaultMaxSamples is the sample window used when none is given.
const DefaultMaxSamples = 600

// OperationStats is a snapshot of the timings recorded for one operation.
type OperationStats struct {
	Name  string        `json:"name"`
	Count int64         `json:"count"`
	Total time.Duration `json:"total"`
	Min   time.Duration `json:"min"`
	Max   time.Duration `json:"max"`
	Mean  time.Duration `json:"mean"`
	// P50 and P95 are taken over the most recent samples only.
	P50 time.Duration `json:"p50"`
	P95 time.Duration `json:"p95"`
}

// MetricStats is a snapshot of the values recorded for one metric.
type MetricStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	Samples int     `json:"samples"`
}

// timeTracker tracks operation timing statistics.
type timeTracker struct {
	durations []time.Duration
	totalTime time.Duration
	minTime   time.Duration
	maxTime   time.Duration
	count     int64
}

// metricTracker tracks statistics for a custom metric.
type metricTracker struct {
	values []float64
	sum    float64
	min    float64
	max    float64
	count  int64
}

// Tracker records named operation durations and metric values.
//
// Count, Total, Min and Max cover every recorded sample. Percentiles and
// metric means are computed over a sliding window of the most recent
// maxSamples samples. All methods are safe for concurrent use.
type Tracker struct {
	mu         sync.RWMutex
	maxSamples int
	operations map[string]*timeTracker
	metrics    map[string]*metricTracker
}

// NewTracker creates a tracker keeping up to maxSamples recent samples per name.
//
// Arguments:
// - maxSamples: Window size; zero or less selects DefaultMaxSamples.
//
// Returns:
// - A ready to use Tracker.
func NewTracker(maxSamples int) *Tracker {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	return &Tracker{
		maxSamples: maxSamples,
		operations: make(map[string]*timeTracker),
		metrics:    make(map[string]*metricTracker),
	}
}

// StartOperation begins timing an operation.
//
// Arguments:
// - name: The name of the operation to track
//
// Returns:
// - A function to call when the operation completes. It records and returns the elapsed time.
func (t *Tracker) StartOperation(name string) func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		elapsed := time.Since(start)
		t.Record(name, elapsed)
		return elapsed
	}
}

// Record adds one duration sample for name.
func (t *Tracker) Record(name string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tracker, exists := t.operations[name]
	if !exists {
		tracker = &timeTracker{
			durations: make([]time.Duration, 0, t.maxSamples),
			minTime:   d,
			maxTime:   d,
		}
		t.operations[name] = tracker
	}

	tracker.durations = append(tracker.durations, d)
	if len(tracker.durations) > t.maxSamples {
		// Remove oldest sample
		tracker.durations = tracker.durations[1:]
	}

	tracker.totalTime += d
	tracker.count++

	if d < tracker.minTime {
		tracker.minTime = d
	}
	if d > tracker.maxTime {
		tracker.maxTime = d
	}
}

// RecordMetric records a custom metric value.
//
// Arguments:
// - name: The name of the metric
// - value: The metric value to record
func (t *Tracker) RecordMetric(name string, value float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tracker, exists := t.metrics[name]
	if !exists {
		tracker = &metricTracker{
			values: make([]float64, 0, t.maxSamples),
			min:    value,
			max:    value,
		}
		t.metrics[name] = tracker
	}

	tracker.values = append(tracker.values, value)
	if len(tracker.values) > t.maxSamples {
		tracker.sum -= tracker.values[0]
		tracker.values = tracker.values[1:]
	}

	tracker.sum += value
	tracker.count++

	if value < tracker.min {
		tracker.min = value
	}
	if value > tracker.max {
		tracker.max = value
	}
}

// percentile returns the p-th percentile (0..1) of the sorted samples using
// the nearest-rank method.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(p*float64(len(sorted))+0.5) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}

func (tt *timeTracker) stats(name string) OperationStats {
	sorted := append([]time.Duration(nil), tt.durations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return OperationStats{
		Name:  name,
		Count: tt.count,
		Total: tt.totalTime,
		Min:   tt.minTime,
		Max:   tt.maxTime,
		Mean:  tt.totalTime / time.Duration(tt.count),
		P50:   percentile(sorted, 0.50),
		P95:   percentile(sorted, 0.95),
	}
}

func (mt *metricTracker) stats(name string) MetricStats {
	return MetricStats{
		Name:    name,
		Count:   mt.count,
		Min:     mt.min,
		Max:     mt.max,
		Mean:    mt.sum / float64(len(mt.values)),
		Samples: len(mt.values),
	}
}

// Operation returns the statistics for name, or false if nothing was recorded.
func (t *Tracker) Operation(name string) (OperationStats, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tracker, ok := t.operations[name]
	if !ok {
		return OperationStats{}, false
	}
	return tracker.stats(name), true
}

// Operations returns the statistics of every operation sorted by name.
func (t *Tracker) Operations() []OperationStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]OperationStats, 0, len(t.operations))
	for name, tracker := range t.operations {
		out = append(out, tracker.stats(name))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Metric returns the statistics for a custom metric, or false if nothing was recorded.
func (t *Tracker) Metric(name string) (MetricStats, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tracker, ok := t.metrics[name]
	if !ok {
		return MetricStats{}, false
	}
	return tracker.stats(name), true
}

// Metrics returns the statistics of every custom metric sorted by name.
func (t *Tracker) Metrics() []MetricStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]MetricStats, 0, len(t.metrics))
	for name, tracker := range t.metrics {
		out = append(out, tracker.stats(name))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Reset discards everything recorded so far.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.operations = make(map[string]*timeTracker)
	t.metrics = make(map[string]*metricTracker)
}

// WriteReport prints memory usage, custom metrics and operation timings to w.
func (t *Tracker) WriteReport(w io.Writer) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	fmt.Fprintf(w, "PROFILER REPORT - %s\n", time.Now().Format("15:04:05.000"))

	fmt.Fprintf(w, "\nMEMORY USAGE:\n")
	fmt.Fprintf(w, "  Alloc: %s\n", FormatBytes(mem.Alloc))
	fmt.Fprintf(w, "  Total Alloc: %s\n", FormatBytes(mem.TotalAlloc))
	fmt.Fprintf(w, "  Heap Objects: %d\n", mem.HeapObjects)
	fmt.Fprintf(w, "  GC Cycles: %d\n", mem.NumGC)

	if metrics := t.Metrics(); len(metrics) > 0 {
		fmt.Fprintf(w, "\nCUSTOM METRICS:\n")
		for _, m := range metrics {
			fmt.Fprintf(w, "  %s: avg=%.4f, min=%.4f, max=%.4f, samples=%d\n",
				m.Name, m.Mean, m.Min, m.Max, m.Samples)
		}
	}

	if ops := t.Operations(); len(ops) > 0 {
		fmt.Fprintf(w, "\nOPERATION TIMINGS:\n")
		for _, op := range ops {
			fmt.Fprintf(w, "  %s: avg=%v, p50=%v, p95=%v, min=%v, max=%v, count=%d\n",
				op.Name,
				op.Mean.Truncate(time.Microsecond),
				op.P50.Truncate(time.Microsecond),
				op.P95.Truncate(time.Microsecond),
				op.Min.Truncate(time.Microsecond),
				op.Max.Truncate(time.Microsecond),
				op.Count)
		}
	}
}

// FormatBytes formats byte counts in human-readable format.
func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

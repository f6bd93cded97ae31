package profiler

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_Record(t *testing.T) {
	tr := NewTracker(0)
	for _, ms := range []int{30, 10, 20} {
		tr.Record("nms", time.Duration(ms)*time.Millisecond)
	}

	stats, ok := tr.Operation("nms")
	require.True(t, ok)
	assert.Equal(t, "nms", stats.Name)
	assert.Equal(t, int64(3), stats.Count)
	assert.Equal(t, 60*time.Millisecond, stats.Total)
	assert.Equal(t, 10*time.Millisecond, stats.Min)
	assert.Equal(t, 30*time.Millisecond, stats.Max)
	assert.Equal(t, 20*time.Millisecond, stats.Mean)
	assert.Equal(t, 20*time.Millisecond, stats.P50)
	assert.Equal(t, 30*time.Millisecond, stats.P95)

	_, ok = tr.Operation("missing")
	assert.False(t, ok)
}

func TestTracker_Window(t *testing.T) {
	tr := NewTracker(2)
	tr.Record("op", 100*time.Millisecond)
	tr.Record("op", 1*time.Millisecond)
	tr.Record("op", 2*time.Millisecond)

	stats, ok := tr.Operation("op")
	require.True(t, ok)
	assert.Equal(t, int64(3), stats.Count)
	assert.Equal(t, 100*time.Millisecond, stats.Max, "max covers evicted samples")
	assert.Equal(t, 2*time.Millisecond, stats.P95, "percentiles only see the window")

	tr.RecordMetric("iou", 1)
	tr.RecordMetric("iou", 2)
	tr.RecordMetric("iou", 4)
	m, ok := tr.Metric("iou")
	require.True(t, ok)
	assert.Equal(t, 3.0, m.Mean)
	assert.Equal(t, 2, m.Samples)
	assert.Equal(t, int64(3), m.Count)
	assert.Equal(t, 1.0, m.Min)
	assert.Equal(t, 4.0, m.Max)
}

func TestTracker_StartOperation(t *testing.T) {
	tr := NewTracker(10)
	done := tr.StartOperation("sleep")
	time.Sleep(2 * time.Millisecond)
	elapsed := done()

	stats, ok := tr.Operation("sleep")
	require.True(t, ok)
	assert.Equal(t, int64(1), stats.Count)
	assert.GreaterOrEqual(t, elapsed, 2*time.Millisecond)
	assert.Equal(t, elapsed, stats.Total)
}

func TestTracker_Concurrent(t *testing.T) {
	tr := NewTracker(50)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				tr.Record("op", time.Microsecond)
				tr.RecordMetric("value", float64(i))
			}
		}()
	}
	wg.Wait()

	stats, ok := tr.Operation("op")
	require.True(t, ok)
	assert.Equal(t, int64(800), stats.Count)
	assert.Equal(t, 800*time.Microsecond, stats.Total)
}

func TestTracker_ReportAndReset(t *testing.T) {
	tr := NewTracker(10)
	tr.Record("iou3d", time.Millisecond)
	tr.RecordMetric("kept", 3)

	var buf bytes.Buffer
	tr.WriteReport(&buf)
	assert.Contains(t, buf.String(), "OPERATION TIMINGS")
	assert.Contains(t, buf.String(), "iou3d: avg=1ms")
	assert.Contains(t, buf.String(), "kept: avg=3.0000")

	tr.Reset()
	assert.Empty(t, tr.Operations())
	assert.Empty(t, tr.Metrics())
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.0 KB", FormatBytes(1024))
	assert.Equal(t, "1.5 MB", FormatBytes(1536*1024))
}

package metrics

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nvr-ai/go-bbox/box"
)

// captureLogs routes the default logger into a buffer at the given level
// for the duration of the test.
func captureLogs(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func runEveryMetric(t *testing.T) {
	a := mustBox(t, []float64{0, 0, 9, 9}, box.XYXY)
	b := mustBox(t, []float64{5, 0, 14, 9}, box.XYXY)
	IoU2D(a, b)
	IoU2DBatch(box.FromBoxes(a), box.FromBoxes(a, b))

	c := mustBox3D(t, 0, 0, 0, 2, 2, 2, box.Identity)
	IoU3D(c, c)
}

func TestDebugLogging(t *testing.T) {
	tests := []struct {
		name    string
		level   slog.Level
		message string
	}{
		{"Scalar 2D", slog.LevelDebug, "msg=iou2d "},
		{"Batch 2D", slog.LevelDebug, `msg="iou2d batch" rows=1 cols=2`},
		{"3D", slog.LevelDebug, "msg=iou3d "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t, tt.level)
			runEveryMetric(t)
			assert.Contains(t, buf.String(), tt.message)
		})
	}
}

func TestDebugLogging_Disabled(t *testing.T) {
	buf := captureLogs(t, slog.LevelInfo)
	runEveryMetric(t)
	assert.Empty(t, buf.String())
}

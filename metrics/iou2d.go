// Package metrics - Intersection-over-Union for 2D boxes, box lists and 3D cuboids.
package metrics

import (
	"context"
	"log/slog"
	"math"

	"github.com/nvr-ai/go-bbox/box"
)

// overlap computes inter / (areaA + areaB - inter) for two inclusive-pixel
// boxes. Every IoU path in this package goes through it so they agree bit for
// bit.
func overlap(ax1, ay1, ax2, ay2, areaA, bx1, by1, bx2, by2, areaB float64) (inter, iou float64) {
	xA := math.Max(ax1, bx1)
	yA := math.Max(ay1, by1)
	xB := math.Min(ax2, bx2)
	yB := math.Min(ay2, by2)

	interW := math.Max(0, xB-xA+1)
	interH := math.Max(0, yB-yA+1)
	inter = interW * interH

	return inter, zeroIfNotFinite(inter / (areaA + areaB - inter))
}

// debugEnabled reports whether the default logger emits debug records.
// Every debug log in this package sits behind it.
func debugEnabled() bool {
	return slog.Default().Enabled(context.Background(), slog.LevelDebug)
}

func zeroIfNotFinite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// IoU2D computes the Intersection over Union of two boxes.
//
// Coordinates are inclusive, so two boxes sharing an edge pixel overlap by one
// pixel column. A zero or undefined union yields 0.
//
// Arguments:
//   - a, b: The boxes to compare.
//
// Returns:
//   - float64: The IoU in [0, 1].
//
// Example:
//
// ```go
//
//	a, _ := box.FromTwoPoint(0, 0, 9, 9)
//	b, _ := box.FromTwoPoint(5, 0, 14, 9)
//	fmt.Println(IoU2D(a, b)) // 0.3333333333333333
//
// ```
func IoU2D(a, b box.Box2D) float64 {
	inter, iou := overlap(
		a.X1(), a.Y1(), a.X2(), a.Y2(), a.Area(),
		b.X1(), b.Y1(), b.X2(), b.Y2(), b.Area(),
	)

	if debugEnabled() {
		slog.Debug("iou2d",
			"intersection", inter,
			"area_a", a.Area(),
			"area_b", b.Area(),
			"iou", iou)
	}

	return iou
}

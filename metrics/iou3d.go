package metrics

import (
	"log/slog"
	"math"

	"github.com/nvr-ai/go-bbox/box"
	"github.com/nvr-ai/go-bbox/geometry"
)

// IoU3D computes the Intersection over Union of two cuboids from the top-down
// view.
//
// Only yaw rotations are supported. The overlap area of the two footprints is
// multiplied by the vertical overlap, where each box spans [cz - h, cz]. Boxes
// whose footprints do not collide short-circuit to 0. The result is rounded
// half to even to 5 decimals.
//
// Arguments:
//   - a, b: The cuboids to compare.
//
// Returns:
//   - float64: The IoU in [0, 1].
func IoU3D(a, b box.Box3D) float64 {
	pa, pb := a.Footprint(), b.Footprint()
	if !geometry.PolygonsCollide(pa, pb) {
		return 0
	}

	area := geometry.PolygonArea(geometry.PolygonIntersection(pa, pb))

	zmax := math.Min(a.CZ(), b.CZ())
	zmin := math.Max(a.CZ()-a.Height(), b.CZ()-b.Height())
	interVol := area * math.Max(0, zmax-zmin)

	union := a.Volume() + b.Volume() - interVol
	iou := zeroIfNotFinite(interVol / union)

	if debugEnabled() {
		slog.Debug("iou3d",
			"footprint_intersection", area,
			"intersection_volume", interVol,
			"union_volume", union)
	}

	return math.RoundToEven(iou*1e5) / 1e5
}

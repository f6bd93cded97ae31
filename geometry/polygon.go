package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// pushBias is added to the normalized overlap depth so a polygon moved by the
// push vector no longer touches the other one under float rounding.
const pushBias = 1e-10

// Polygon is an implicitly closed list of vertices.
//
// All algorithms in this package assume the polygon is convex and wound
// counter-clockwise. Neither property is checked at runtime.
type Polygon []mgl64.Vec2

// Validate checks that the polygon has exactly n vertices.
func (p Polygon) Validate(n int) error {
	if len(p) != n {
		return errors.Wrapf(ErrInvalidShape, "expected %d vertices, got %d", n, len(p))
	}
	return nil
}

// EdgesOf returns the edge vectors of a polygon in traversal order, including
// the closing edge from the last vertex back to the first.
func EdgesOf(p Polygon) []mgl64.Vec2 {
	n := len(p)
	edges := make([]mgl64.Vec2, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, p[(i+1)%n].Sub(p[i]))
	}
	return edges
}

// Orthogonal returns v rotated by 90 degrees: (-y, x).
func Orthogonal(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-v[1], v[0]}
}

// project returns the [min, max] interval of the polygon projected onto axis.
func project(axis mgl64.Vec2, p Polygon) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range p {
		d := v.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

// IsSeparatingAxis reports whether axis separates polygons a and b.
//
// When the projections of a and b onto axis do not overlap the axis separates
// them and no push vector is returned. Otherwise the minimum translation along
// axis that would pull them apart is returned as the push vector.
//
// Arguments:
//   - axis: Candidate separating axis (need not be normalized).
//   - a, b: Convex polygons.
//
// Returns:
//   - bool: True if axis separates the polygons.
//   - *mgl64.Vec2: The push vector when the projections overlap, nil otherwise.
func IsSeparatingAxis(axis mgl64.Vec2, a, b Polygon) (bool, *mgl64.Vec2) {
	min1, max1 := project(axis, a)
	min2, max2 := project(axis, b)

	if max1 < min2 || max2 < min1 {
		return true, nil
	}

	d := math.Min(max2-min1, max1-min2)
	push := axis.Mul(d/axis.Dot(axis) + pushBias)
	return false, &push
}

// PolygonsCollide reports whether two convex polygons overlap, using the
// separating axis theorem.
//
// The candidate axes are the orthogonals of every edge of a followed by every
// edge of b. The first separating axis ends the test.
//
// Example:
//
// ```go
//
//	a := Polygon{{0, 0}, {2, 0}, {2, 2}, {0, 2}}
//	b := Polygon{{1, 1}, {3, 1}, {3, 3}, {1, 3}}
//	fmt.Println(PolygonsCollide(a, b)) // true
//
// ```
func PolygonsCollide(a, b Polygon) bool {
	edges := append(EdgesOf(a), EdgesOf(b)...)
	for _, e := range edges {
		if separates, _ := IsSeparatingAxis(Orthogonal(e), a, b); separates {
			return false
		}
	}
	return true
}

// PolygonArea computes the area of a polygon with the Shoelace formula.
//
// The sum wraps around so the closing edge is included. The result is always
// non-negative; polygons with fewer than 3 vertices have zero area.
func PolygonArea(p Polygon) float64 {
	n := len(p)
	if n < 3 {
		return 0
	}

	var xy, yx float64
	for i := 0; i < n; i++ {
		next := p[(i+1)%n]
		xy += p[i][0] * next[1]
		yx += next[0] * p[i][1]
	}
	return math.Abs(xy-yx) / 2
}

// insideEdge reports whether p lies on the left of, or on, the directed edge e1->e2.
func insideEdge(p, e1, e2 mgl64.Vec2) bool {
	return Cross2(e2.Sub(e1), p.Sub(e1)) >= 0
}

// lineIntersection returns the intersection point of the line through e1, e2
// and the line through s, e.
func lineIntersection(e1, e2, s, e mgl64.Vec2) mgl64.Vec2 {
	dc := e1.Sub(e2)
	dp := s.Sub(e)
	n1 := Cross2(e1, e2)
	n2 := Cross2(s, e)
	n3 := 1.0 / Cross2(dc, dp)
	return mgl64.Vec2{
		(n1*dp[0] - n2*dc[0]) * n3,
		(n1*dp[1] - n2*dc[1]) * n3,
	}
}

// PolygonIntersection clips subject against the convex clip polygon with the
// Sutherland-Hodgman algorithm and returns the intersection polygon.
//
// Each clip edge, starting with the edge from the last clip vertex to the
// first, clips the complete output of the previous pass. An empty polygon is
// returned when the two polygons do not intersect.
//
// Arguments:
//   - subject: The polygon being clipped.
//   - clip: The convex, counter-clockwise clip region.
//
// Returns:
//   - Polygon: The vertices of the intersection, or nil.
func PolygonIntersection(subject, clip Polygon) Polygon {
	if len(subject) == 0 || len(clip) == 0 {
		return nil
	}

	output := subject
	e1 := clip[len(clip)-1]

	for _, e2 := range clip {
		input := output
		if len(input) == 0 {
			return nil
		}
		output = make(Polygon, 0, len(input)+1)
		s := input[len(input)-1]

		for _, e := range input {
			if insideEdge(e, e1, e2) {
				if !insideEdge(s, e1, e2) {
					output = append(output, lineIntersection(e1, e2, s, e))
				}
				output = append(output, e)
			} else if insideEdge(s, e1, e2) {
				output = append(output, lineIntersection(e1, e2, s, e))
			}
			s = e
		}
		e1 = e2
	}

	if len(output) == 0 {
		return nil
	}
	return output
}

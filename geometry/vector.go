package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Plane holds the coefficients (A, B, C, D) of the plane equation Ax + By + Cz + D = 0.
type Plane [4]float64

// Normal returns the (A, B, C) normal of the plane.
func (p Plane) Normal() mgl64.Vec3 {
	return mgl64.Vec3{p[0], p[1], p[2]}
}

// D returns the constant term of the plane equation.
func (p Plane) D() float64 {
	return p[3]
}

// Cross2 returns the z component of the cross product of two 2D vectors.
func Cross2(a, b mgl64.Vec2) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// PlaneFromPoints computes the plane passing through three points.
//
// The normal is (b-a) x (c-a) and D = -normal . a. Collinear points produce a
// plane with a zero normal; PointPlaneDistance rejects such planes.
//
// Arguments:
//   - a, b, c: Points on the plane.
//
// Returns:
//   - Plane: The plane coefficients (A, B, C, D).
//
// Example:
//
// ```go
//
//	pl := PlaneFromPoints(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{-1, 1, 0}, mgl64.Vec3{2, 0, 3})
//	fmt.Println(pl) // [-1 3 2 -4]
//
// ```
func PlaneFromPoints(a, b, c mgl64.Vec3) Plane {
	n := b.Sub(a).Cross(c.Sub(a))
	return Plane{n[0], n[1], n[2], -n.Dot(a)}
}

// PointPlaneDistance returns the distance from a point to a plane.
//
// Arguments:
//   - p: The point.
//   - pl: The plane.
//   - signed: If true the signed distance is returned, otherwise its absolute value.
//
// Returns:
//   - float64: The distance.
//   - error: ErrDegeneratePlane if the plane normal has zero length.
func PointPlaneDistance(p mgl64.Vec3, pl Plane, signed bool) (float64, error) {
	n := pl.Normal()
	norm := n.Len()
	if norm == 0 {
		return 0, errors.Wrapf(ErrDegeneratePlane, "plane %v has a zero normal", pl)
	}

	dist := (n.Dot(p) + pl.D()) / norm
	if signed {
		return dist, nil
	}
	return math.Abs(dist), nil
}

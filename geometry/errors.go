// Package geometry - Vector, plane and convex polygon primitives used by the overlap metrics.
package geometry

import "github.com/pkg/errors"

var (
	// ErrInvalidShape is returned when a polygon does not have the expected number of vertices.
	ErrInvalidShape = errors.New("invalid polygon shape")
	// ErrDegeneratePlane is returned when a plane has a zero-length normal.
	ErrDegeneratePlane = errors.New("degenerate plane")
)

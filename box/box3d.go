package box

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-bbox/geometry"
)

// Box3D is a cuboid with a center, three extents and a rotation.
//
// Length runs along the local x axis, width along local y and height along
// local z. Corners are derived from these fields every time they are asked
// for. The quaternion is used as given and never renormalized.
type Box3D struct {
	center      mgl64.Vec3
	l, w, h     float64
	orientation Quaternion
}

// NewBox3D creates a cuboid centered at (cx, cy, cz).
//
// Arguments:
//   - cx, cy, cz: Center of the cuboid.
//   - l, w, h: Length, width and height.
//   - q: Rotation about the center.
//
// Returns:
//   - Box3D: The cuboid.
//   - error: ErrInvalidValue if any value is not finite.
//
// Example:
//
// ```go
//
//	b, _ := NewBox3D(0, 0, 0, 4, 2, 1, Identity)
//	fmt.Println(b.Corner(1)) // [-2 -1 -0.5] <nil>
//
// ```
func NewBox3D(cx, cy, cz, l, w, h float64, q Quaternion) (Box3D, error) {
	if err := finite("center", cx, cy, cz); err != nil {
		return Box3D{}, err
	}
	if err := finite("extent", l, w, h); err != nil {
		return Box3D{}, err
	}
	if err := finite("quaternion", q.W, q.X, q.Y, q.Z); err != nil {
		return Box3D{}, err
	}
	return Box3D{center: mgl64.Vec3{cx, cy, cz}, l: l, w: w, h: h, orientation: q}, nil
}

// NewBox3DFromCorner creates a cuboid from its back-bottom-left corner.
func NewBox3DFromCorner(x, y, z, l, w, h float64, q Quaternion) (Box3D, error) {
	return NewBox3D(x+l/2, y+w/2, z+h/2, l, w, h, q)
}

// Center returns the center.
func (b Box3D) Center() mgl64.Vec3 { return b.center }

// CX returns the x coordinate of the center.
func (b Box3D) CX() float64 { return b.center[0] }

// CY returns the y coordinate of the center.
func (b Box3D) CY() float64 { return b.center[1] }

// CZ returns the z coordinate of the center.
func (b Box3D) CZ() float64 { return b.center[2] }

// Length returns the extent along local x.
func (b Box3D) Length() float64 { return b.l }

// Width returns the extent along local y.
func (b Box3D) Width() float64 { return b.w }

// Height returns the extent along local z.
func (b Box3D) Height() float64 { return b.h }

// Quaternion returns the rotation.
func (b Box3D) Quaternion() Quaternion { return b.orientation }

// SetCenter moves the cuboid.
func (b *Box3D) SetCenter(c mgl64.Vec3) error {
	if err := finite("center", c[0], c[1], c[2]); err != nil {
		return err
	}
	b.center = c
	return nil
}

// SetCenterSlice moves the cuboid to a center given as exactly three values.
func (b *Box3D) SetCenterSlice(c []float64) error {
	if len(c) != 3 {
		return errors.Wrapf(ErrInvalidShape, "center: expected 3 values, got %d", len(c))
	}
	return b.SetCenter(mgl64.Vec3{c[0], c[1], c[2]})
}

// SetCX sets the x coordinate of the center.
func (b *Box3D) SetCX(v float64) error { return b.setCenterAxis(0, "cx", v) }

// SetCY sets the y coordinate of the center.
func (b *Box3D) SetCY(v float64) error { return b.setCenterAxis(1, "cy", v) }

// SetCZ sets the z coordinate of the center.
func (b *Box3D) SetCZ(v float64) error { return b.setCenterAxis(2, "cz", v) }

func (b *Box3D) setCenterAxis(i int, name string, v float64) error {
	if err := finite(name, v); err != nil {
		return err
	}
	b.center[i] = v
	return nil
}

// SetLength sets the extent along local x.
func (b *Box3D) SetLength(v float64) error { return setExtent(&b.l, "length", v) }

// SetWidth sets the extent along local y.
func (b *Box3D) SetWidth(v float64) error { return setExtent(&b.w, "width", v) }

// SetHeight sets the extent along local z.
func (b *Box3D) SetHeight(v float64) error { return setExtent(&b.h, "height", v) }

func setExtent(dst *float64, name string, v float64) error {
	if err := finite(name, v); err != nil {
		return err
	}
	*dst = v
	return nil
}

// SetQuaternion replaces the rotation.
func (b *Box3D) SetQuaternion(q Quaternion) error {
	if err := finite("quaternion", q.W, q.X, q.Y, q.Z); err != nil {
		return err
	}
	b.orientation = q
	return nil
}

// halfExtents are the signed local offsets of the eight corners, scaled by
// (l/2, w/2, h/2).
var halfExtents = [8]mgl64.Vec3{
	{-1, -1, -1}, // back-left-bottom
	{1, -1, -1},  // front-left-bottom
	{1, 1, -1},   // front-right-bottom
	{-1, 1, -1},  // back-right-bottom
	{-1, -1, 1},  // back-left-top
	{1, -1, 1},   // front-left-top
	{1, 1, 1},    // front-right-top
	{-1, 1, 1},   // back-right-top
}

func (b Box3D) corner(i int) mgl64.Vec3 {
	s := halfExtents[i]
	local := mgl64.Vec3{s[0] * b.l / 2, s[1] * b.w / 2, s[2] * b.h / 2}
	return b.center.Add(b.orientation.Rotate(local))
}

// Corner returns corner P1 through P8 in world coordinates.
//
// P1..P4 are the bottom face (back-left, front-left, front-right, back-right)
// and P5..P8 are the same corners on the top face.
func (b Box3D) Corner(i int) (mgl64.Vec3, error) {
	if i < 1 || i > 8 {
		return mgl64.Vec3{}, errors.Wrapf(ErrOutOfRange, "corner must be in 1..8, got %d", i)
	}
	return b.corner(i - 1), nil
}

// Corners returns P1 through P8 in order.
func (b Box3D) Corners() [8]mgl64.Vec3 {
	var out [8]mgl64.Vec3
	for i := range out {
		out[i] = b.corner(i)
	}
	return out
}

// Footprint returns the XY projection of the bottom face, P1..P4.
func (b Box3D) Footprint() geometry.Polygon {
	p := make(geometry.Polygon, 4)
	for i := range p {
		c := b.corner(i)
		p[i] = mgl64.Vec2{c[0], c[1]}
	}
	return p
}

// Volume returns l * w * h.
func (b Box3D) Volume() float64 {
	return b.l * b.w * b.h
}

func (b Box3D) String() string {
	q := b.orientation
	return fmt.Sprintf("BBox3D(x=%v, y=%v, z=%v), length=%v, width=%v, height=%v, q=(%v, %v, %v, %v))",
		b.center[0], b.center[1], b.center[2], b.l, b.w, b.h, q.W, q.X, q.Y, q.Z)
}

package box

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Quaternion is a rotation in (w, x, y, z) form.
type Quaternion struct {
	W, X, Y, Z float64
}

// Identity is the rotation that leaves every vector unchanged.
var Identity = Quaternion{W: 1}

// NewQuaternion creates a quaternion from its real part and vector part.
func NewQuaternion(w, x, y, z float64) (Quaternion, error) {
	if err := finite("quaternion", w, x, y, z); err != nil {
		return Quaternion{}, err
	}
	return Quaternion{W: w, X: x, Y: y, Z: z}, nil
}

// QuaternionFromSlice creates a quaternion from exactly four values in (w, x, y, z) order.
func QuaternionFromSlice(values []float64) (Quaternion, error) {
	if len(values) != 4 {
		return Quaternion{}, errors.Wrapf(ErrInvalidShape, "quaternion: expected 4 values, got %d", len(values))
	}
	return NewQuaternion(values[0], values[1], values[2], values[3])
}

// QuaternionFromAxisAngle returns the rotation of angle radians about axis.
// The axis is normalized first.
func QuaternionFromAxisAngle(axis mgl64.Vec3, angle float64) (Quaternion, error) {
	if axis.Len() == 0 {
		return Quaternion{}, errors.Wrap(ErrInvalidValue, "quaternion: zero rotation axis")
	}
	return fromMgl(mgl64.QuatRotate(angle, axis.Normalize())), nil
}

// QuaternionFromEuler builds a rotation from angles about the x, y and z axes.
//
// The rotations are applied in y, z, x order, i.e. q = Qy * Qz * Qx.
//
// Example:
//
// ```go
//
//	q := QuaternionFromEuler([3]float64{0, 0, -1.59})
//	fmt.Printf("%.5f %.5f\n", q.W, q.Z) // 0.70028 -0.71386
//
// ```
func QuaternionFromEuler(angles [3]float64) Quaternion {
	qx := mgl64.QuatRotate(angles[0], mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(angles[1], mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(angles[2], mgl64.Vec3{0, 0, 1})
	return fromMgl(qy.Mul(qz).Mul(qx))
}

func fromMgl(q mgl64.Quat) Quaternion {
	return Quaternion{W: q.W, X: q.V[0], Y: q.V[1], Z: q.V[2]}
}

func (q Quaternion) mgl() mgl64.Quat {
	return mgl64.Quat{W: q.W, V: mgl64.Vec3{q.X, q.Y, q.Z}}
}

// Norm returns the Euclidean norm of the four components.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalize returns the unit quaternion pointing the same way. The zero
// quaternion is returned unchanged.
func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	if n == 0 {
		return q
	}
	return Quaternion{W: q.W / n, X: q.X / n, Y: q.Y / n, Z: q.Z / n}
}

// Rotate applies the rotation to v. q is assumed to be a unit quaternion.
func (q Quaternion) Rotate(v mgl64.Vec3) mgl64.Vec3 {
	return q.mgl().Rotate(v)
}

// Values returns the components in (w, x, y, z) order.
func (q Quaternion) Values() [4]float64 {
	return [4]float64{q.W, q.X, q.Y, q.Z}
}

package render

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/nvr-ai/go-bbox/box"
)

// Camera is a pinhole camera.
//
// K is the 3x4 intrinsic matrix, R the 3x3 rotation from world to camera
// coordinates and T the 3x1 translation.
type Camera struct {
	K *mat.Dense
	R *mat.Dense
	T *mat.Dense
}

// NewCamera builds a camera from row-major intrinsics (12 values), rotation
// (9 values) and translation (3 values).
func NewCamera(k, r, t []float64) (*Camera, error) {
	if len(k) != 12 || len(r) != 9 || len(t) != 3 {
		return nil, errors.Wrapf(ErrInvalidCamera,
			"expected 12, 9 and 3 values, got %d, %d and %d", len(k), len(r), len(t))
	}
	return &Camera{
		K: mat.NewDense(3, 4, append([]float64(nil), k...)),
		R: mat.NewDense(3, 3, append([]float64(nil), r...)),
		T: mat.NewDense(3, 1, append([]float64(nil), t...)),
	}, nil
}

func checkDims(name string, m *mat.Dense, rows, cols int) error {
	if m == nil {
		return errors.Wrapf(ErrInvalidCamera, "%s is nil", name)
	}
	if r, c := m.Dims(); r != rows || c != cols {
		return errors.Wrapf(ErrInvalidCamera, "%s is %dx%d, expected %dx%d", name, r, c, rows, cols)
	}
	return nil
}

// Extrinsic returns the 4x4 matrix [R | T; 0 0 0 1].
func (c *Camera) Extrinsic() (*mat.Dense, error) {
	if err := checkDims("R", c.R, 3, 3); err != nil {
		return nil, err
	}
	if err := checkDims("T", c.T, 3, 1); err != nil {
		return nil, err
	}

	e := mat.NewDense(4, 4, nil)
	e.Set(3, 3, 1)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			e.Set(i, j, c.R.At(i, j))
		}
		e.Set(i, 3, c.T.At(i, 0))
	}
	return e, nil
}

// projection returns K * E.
func (c *Camera) projection() (*mat.Dense, error) {
	if err := checkDims("K", c.K, 3, 4); err != nil {
		return nil, err
	}
	e, err := c.Extrinsic()
	if err != nil {
		return nil, err
	}

	var p mat.Dense
	p.Mul(c.K, e)
	return &p, nil
}

func project(p *mat.Dense, x mgl64.Vec3) (mgl64.Vec2, error) {
	var u mat.VecDense
	u.MulVec(p, mat.NewVecDense(4, []float64{x[0], x[1], x[2], 1}))

	w := u.AtVec(2)
	if w <= 0 {
		return mgl64.Vec2{}, errors.Wrapf(ErrBehindCamera, "point %v has depth %v", x, w)
	}
	return mgl64.Vec2{u.AtVec(0) / w, u.AtVec(1) / w}, nil
}

// Project maps a world point to pixel coordinates: u = K * [R|T] * [p; 1],
// returning u[0:2] / u[2].
//
// Arguments:
//   - p: Point in world coordinates.
//
// Returns:
//   - mgl64.Vec2: Pixel coordinates.
//   - error: ErrInvalidCamera for malformed matrices, ErrBehindCamera when the
//     point is on or behind the camera plane.
func (c *Camera) Project(p mgl64.Vec3) (mgl64.Vec2, error) {
	m, err := c.projection()
	if err != nil {
		return mgl64.Vec2{}, err
	}
	return project(m, p)
}

// ProjectBox projects the eight corners of b in P1..P8 order.
func (c *Camera) ProjectBox(b box.Box3D) ([8]mgl64.Vec2, error) {
	var out [8]mgl64.Vec2

	m, err := c.projection()
	if err != nil {
		return out, err
	}

	for i, corner := range b.Corners() {
		u, err := project(m, corner)
		if err != nil {
			return out, errors.Wrapf(err, "corner P%d", i+1)
		}
		out[i] = u
	}
	return out, nil
}

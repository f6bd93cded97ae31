package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CorrectDistortion applies a radial polynomial lens correction to a projected
// point.
//
// The point is normalized to [-1, 1] over a w x h image, giving radius r. The
// correction factor is sum(coeffs[i] * r^(2(i+1))) and the point moves away
// from the image center by that factor of its offset.
func CorrectDistortion(u mgl64.Vec2, coeffs []float64, w, h int) mgl64.Vec2 {
	fw, fh := float64(w), float64(h)
	x := 2*u[0]/fw - 1
	y := 2*u[1]/fh - 1
	r2 := x*x + y*y

	var distortion float64
	for i, c := range coeffs {
		distortion += math.Pow(r2, float64(i+1)) * c
	}

	center := mgl64.Vec2{fw / 2, fh / 2}
	return u.Add(u.Sub(center).Mul(distortion))
}

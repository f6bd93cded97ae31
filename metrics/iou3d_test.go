package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-bbox/box"
)

func mustBox3D(t testing.TB, cx, cy, cz, l, w, h float64, q box.Quaternion) box.Box3D {
	t.Helper()
	b, err := box.NewBox3D(cx, cy, cz, l, w, h, q)
	require.NoError(t, err)
	return b
}

func yaw(angle float64) box.Quaternion {
	return box.QuaternionFromEuler([3]float64{0, 0, angle})
}

func TestIoU3D_NonOverlapping(t *testing.T) {
	a := mustBox3D(t,
		-2.553668269106177, -63.56305079381365, 1.988316894113887,
		4.7, 1.8420955618567376, 1.4,
		box.Quaternion{W: -0.7123296970493456, Z: 0.7018449990571904})
	b := mustBox3D(t,
		-60.00052106600015, -4.111285291215302, 0.7497459084120979,
		4.7, 1.8, 1.819601518010064,
		box.Quaternion{W: 0.999845654958524, Z: 0.017568900379933073})

	assert.Equal(t, 0.0, IoU3D(a, b))
	assert.Equal(t, 0.0, IoU3D(b, a))
}

func TestIoU3D_Self(t *testing.T) {
	a := mustBox3D(t,
		-49.19743041908411, 12.38666074615689, 0.782056864653507,
		5.340892485711914, 2.457703972075464, 1.9422248281533563,
		box.Quaternion{W: 0.9997472337219893, Z: 0.022482630300529462})

	assert.Equal(t, 1.0, IoU3D(a, a))
}

func TestIoU3D(t *testing.T) {
	tests := []struct {
		name     string
		a, b     box.Box3D
		expected float64
	}{
		{
			name:     "Half length shift",
			a:        mustBox3D(t, 0, 0, 0, 2, 2, 2, box.Identity),
			b:        mustBox3D(t, 1, 0, 0, 2, 2, 2, box.Identity),
			expected: 0.33333,
		},
		{
			name:     "Half height shift",
			a:        mustBox3D(t, 0, 0, 0, 2, 2, 2, box.Identity),
			b:        mustBox3D(t, 0, 0, 1, 2, 2, 2, box.Identity),
			expected: 0.33333,
		},
		{
			name:     "Stacked",
			a:        mustBox3D(t, 0, 0, 0, 2, 2, 2, box.Identity),
			b:        mustBox3D(t, 0, 0, 2, 2, 2, 2, box.Identity),
			expected: 0,
		},
		{
			name:     "Footprints apart",
			a:        mustBox3D(t, 0, 0, 0, 2, 2, 2, box.Identity),
			b:        mustBox3D(t, 10, 0, 0, 2, 2, 2, box.Identity),
			expected: 0,
		},
		{
			// The footprints intersect in a regular octagon of area 8(sqrt2-1),
			// so the IoU is 1/sqrt2.
			name:     "Yawed 45 degrees concentric",
			a:        mustBox3D(t, 0, 0, 0, 2, 2, 2, box.Identity),
			b:        mustBox3D(t, 0, 0, 0, 2, 2, 2, yaw(math.Pi/4)),
			expected: 0.70711,
		},
		{
			// The diamond |x-1|+|y| <= sqrt2 covers 2sqrt2-1 of the unit
			// square, giving (2sqrt2-1)/(9-2sqrt2).
			name:     "Yawed 45 degrees shifted",
			a:        mustBox3D(t, 0, 0, 0, 2, 2, 2, box.Identity),
			b:        mustBox3D(t, 1, 0, 0, 2, 2, 2, yaw(math.Pi/4)),
			expected: 0.29627,
		},
		{
			name:     "Yawed 90 degrees",
			a:        mustBox3D(t, 0, 0, 0, 4, 2, 2, box.Identity),
			b:        mustBox3D(t, 0, 0, 0, 4, 2, 2, yaw(math.Pi/2)),
			expected: 0.33333,
		},
		{
			name:     "Flat boxes",
			a:        mustBox3D(t, 0, 0, 0, 2, 2, 0, box.Identity),
			b:        mustBox3D(t, 0, 0, 0, 2, 2, 0, box.Identity),
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, IoU3D(tt.a, tt.b), 1e-12)
			assert.InDelta(t, tt.expected, IoU3D(tt.b, tt.a), 1e-12)
		})
	}
}

func BenchmarkIoU3D(b *testing.B) {
	x := mustBox3D(b, 0, 0, 0, 4, 2, 1.5, box.QuaternionFromEuler([3]float64{0, 0, 0.3}))
	y := mustBox3D(b, 1, 0.5, 0.2, 4, 2, 1.5, box.QuaternionFromEuler([3]float64{0, 0, -0.2}))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = IoU3D(x, y)
	}
}

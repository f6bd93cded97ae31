package metrics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-bbox/box"
)

// naiveIoU spells out the rectangle IoU without any shared helpers.
func naiveIoU(a, b [4]float64) float64 {
	xA, yA := max(a[0], b[0]), max(a[1], b[1])
	xB, yB := min(a[2], b[2]), min(a[3], b[3])
	interW := max(0.0, xB-xA+1)
	interH := max(0.0, yB-yA+1)
	inter := interW * interH
	areaA := (a[2] - a[0] + 1) * (a[3] - a[1] + 1)
	areaB := (b[2] - b[0] + 1) * (b[3] - b[1] + 1)
	iou := inter / (areaA + areaB - inter)
	if math.IsNaN(iou) || math.IsInf(iou, 0) {
		return 0
	}
	return iou
}

func mustBox(t testing.TB, values []float64, mode box.Mode) box.Box2D {
	t.Helper()
	b, err := box.New(values, mode)
	require.NoError(t, err)
	return b
}

func TestIoU2D(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Identical", []float64{0, 0, 99, 99}, []float64{0, 0, 99, 99}, 1},
		{"No overlap", []float64{0, 0, 99, 99}, []float64{200, 200, 299, 299}, 0},
		{"Adjacent", []float64{0, 0, 9, 9}, []float64{10, 0, 19, 9}, 0},
		{"Shared pixel column", []float64{0, 0, 9, 9}, []float64{9, 0, 18, 9}, 10.0 / 190.0},
		{"Half width", []float64{0, 0, 9, 9}, []float64{5, 0, 14, 9}, 50.0 / 150.0},
		{"Contained", []float64{0, 0, 99, 99}, []float64{25, 25, 74, 74}, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustBox(t, tt.a, box.XYXY)
			b := mustBox(t, tt.b, box.XYXY)

			assert.InDelta(t, tt.expected, IoU2D(a, b), 1e-12)
			assert.Equal(t, IoU2D(a, b), IoU2D(b, a), "IoU should be symmetric")
		})
	}
}

func TestIoU2D_MatchesNaive(t *testing.T) {
	a := mustBox(t, []float64{39, 63, 203, 112}, box.XYWH)
	b := mustBox(t, []float64{54, 66, 198, 114}, box.XYWH)

	expected := naiveIoU(a.Values(box.XYXY), b.Values(box.XYXY))
	assert.Equal(t, expected, IoU2D(a, b))
	assert.InDelta(t, 20492.0/24816.0, expected, 1e-12)
}

func TestIoU2D_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 500; i++ {
		a := randomBox(t, rng)
		b := randomBox(t, rng)

		iou := IoU2D(a, b)
		assert.Equal(t, naiveIoU(a.Values(box.XYXY), b.Values(box.XYXY)), iou)
		assert.GreaterOrEqual(t, iou, 0.0)
		assert.LessOrEqual(t, iou, 1.0)
	}
}

func randomBox(t testing.TB, rng *rand.Rand) box.Box2D {
	t.Helper()
	return mustBox(t, []float64{
		float64(rng.Intn(300)), float64(rng.Intn(300)),
		float64(1 + rng.Intn(120)), float64(1 + rng.Intn(120)),
	}, box.XYWH)
}

func BenchmarkIoU2D(b *testing.B) {
	x := mustBox(b, []float64{39, 63, 203, 112}, box.XYWH)
	y := mustBox(b, []float64{54, 66, 198, 114}, box.XYWH)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = IoU2D(x, y)
	}
}

package postprocess

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-bbox/box"
)

// naiveNMS is a direct rendition of the py-faster-rcnn CPU NMS using a
// suppressed flag per box instead of shrinking the order list.
func naiveNMS(rows [][]float64, scores []float64, thresh float64) []int {
	n := len(rows)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	area := func(r []float64) float64 { return (r[2] - r[0] + 1) * (r[3] - r[1] + 1) }
	suppressed := make([]bool, n)
	keep := []int{}

	for oi, i := range order {
		if suppressed[i] {
			continue
		}
		keep = append(keep, i)
		for _, j := range order[oi+1:] {
			if suppressed[j] {
				continue
			}
			a, b := rows[i], rows[j]
			xx1, yy1 := max(a[0], b[0]), max(a[1], b[1])
			xx2, yy2 := min(a[2], b[2]), min(a[3], b[3])
			w := max(0.0, xx2-xx1+1)
			h := max(0.0, yy2-yy1+1)
			inter := w * h
			if !(inter/(area(a)+area(b)-inter) <= thresh) {
				suppressed[j] = true
			}
		}
	}
	return keep
}

func randomRows(rng *rand.Rand, n int) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		x, y := float64(rng.Intn(200)), float64(rng.Intn(200))
		rows[i] = []float64{x, y, x + float64(10+rng.Intn(60)), y + float64(10+rng.Intn(60))}
	}
	return rows
}

func TestNMS_MatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 20; trial++ {
		n := 1 + rng.Intn(200)
		rows := randomRows(rng, n)
		scores := make([]float64, n)
		for i := range scores {
			scores[i] = rng.Float64()
		}
		thresh := 0.1 + 0.8*rng.Float64()

		boxes, err := box.NewList(rows, box.XYXY)
		require.NoError(t, err)

		keep, err := NMS(boxes, scores, thresh)
		require.NoError(t, err)
		assert.Equal(t, naiveNMS(rows, scores, thresh), keep, "trial %d", trial)
	}
}

func TestNMS(t *testing.T) {
	tests := []struct {
		name      string
		rows      [][]float64
		scores    []float64
		threshold float64
		expected  []int
	}{
		{
			name:      "Overlapping pair keeps the higher score",
			rows:      [][]float64{{0, 0, 9, 9}, {1, 1, 10, 10}, {50, 50, 59, 59}},
			scores:    []float64{0.8, 0.9, 0.7},
			threshold: 0.5,
			expected:  []int{1, 2},
		},
		{
			name:      "Ties keep the lower index",
			rows:      [][]float64{{0, 0, 9, 9}, {0, 0, 9, 9}},
			scores:    []float64{0.5, 0.5},
			threshold: 0.3,
			expected:  []int{0},
		},
		{
			name:      "Overlap equal to the threshold survives",
			rows:      [][]float64{{0, 0, 9, 9}, {5, 0, 14, 9}},
			scores:    []float64{0.9, 0.8},
			threshold: 50.0 / 150.0,
			expected:  []int{0, 1},
		},
		{
			name:      "Threshold 1 keeps everything",
			rows:      [][]float64{{0, 0, 9, 9}, {0, 0, 9, 9}, {0, 0, 9, 9}},
			scores:    []float64{0.1, 0.3, 0.2},
			threshold: 1,
			expected:  []int{1, 2, 0},
		},
		{
			name:      "Degenerate box is suppressed by nothing and suppresses nothing",
			rows:      [][]float64{{0, 0, -1, -1}, {0, 0, 9, 9}},
			scores:    []float64{0.9, 0.8},
			threshold: 0.5,
			expected:  []int{0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boxes, err := box.NewList(tt.rows, box.XYXY)
			require.NoError(t, err)

			keep, err := NMS(boxes, tt.scores, tt.threshold)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, keep)
		})
	}
}

func TestNMS_Empty(t *testing.T) {
	keep, err := NMS(box.FromBoxes(), nil, 0.5)
	require.NoError(t, err)
	assert.NotNil(t, keep)
	assert.Empty(t, keep)
}

func TestNMS_ShapeMismatch(t *testing.T) {
	boxes, err := box.NewList([][]float64{{0, 0, 9, 9}}, box.XYXY)
	require.NoError(t, err)

	_, err = NMS(boxes, []float64{0.1, 0.2}, 0.5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func BenchmarkNMS(b *testing.B) {
	rng := rand.New(rand.NewSource(7))
	rows := randomRows(rng, 1000)
	scores := make([]float64, len(rows))
	for i := range scores {
		scores[i] = rng.Float64()
	}
	boxes, err := box.NewList(rows, box.XYXY)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = NMS(boxes, scores, 0.5)
	}
}

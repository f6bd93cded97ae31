package postprocess

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-bbox/box"
)

// NMS performs greedy non-maximum suppression over a list of boxes.
//
// Boxes are visited in descending score order; ties keep the lower input index
// first. The highest remaining box is kept and every other remaining box whose
// overlap with it exceeds threshold is discarded. Overlap is
// inter / (area_i + area_j - inter) under the inclusive-pixel convention, and a
// box is kept when its overlap is <= threshold.
//
// Arguments:
//   - boxes: Candidate boxes.
//   - scores: One confidence per box.
//   - threshold: Overlap above which a box is suppressed.
//
// Returns:
//   - []int: Indices into boxes of the kept boxes, highest score first. Never nil.
//   - error: ErrShapeMismatch if len(scores) != boxes.Len().
//
// Example:
//
// ```go
//
//	boxes, _ := box.NewList([][]float64{{0, 0, 10, 10}, {1, 1, 10, 10}, {50, 50, 10, 10}}, box.XYWH)
//	keep, _ := NMS(boxes, []float64{0.9, 0.8, 0.7}, 0.5)
//	fmt.Println(keep) // [0 2]
//
// ```
func NMS(boxes *box.List, scores []float64, threshold float64) ([]int, error) {
	n := boxes.Len()
	if len(scores) != n {
		return nil, errors.Wrapf(ErrShapeMismatch, "%d scores for %d boxes", len(scores), n)
	}
	if n == 0 {
		return []int{}, nil
	}

	x1, y1, x2, y2 := boxes.X1(), boxes.Y1(), boxes.X2(), boxes.Y2()
	areas := boxes.Areas()

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	keep := make([]int, 0, n)
	for len(order) > 0 {
		i := order[0]
		keep = append(keep, i)

		// Filter in place: the write index never passes the read index.
		rest := order[:0]
		for _, j := range order[1:] {
			w := math.Max(0, math.Min(x2[i], x2[j])-math.Max(x1[i], x1[j])+1)
			h := math.Max(0, math.Min(y2[i], y2[j])-math.Max(y1[i], y1[j])+1)
			inter := w * h

			if inter/(areas[i]+areas[j]-inter) <= threshold {
				rest = append(rest, j)
			}
		}
		order = rest
	}

	return keep, nil
}

package metrics

import (
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/nvr-ai/go-bbox/box"
	"github.com/nvr-ai/go-bbox/util"
)

// listColumns caches the columns of a list that every pair needs.
type listColumns struct {
	x1, y1, x2, y2, areas []float64
}

func columnsOf(l *box.List) listColumns {
	return listColumns{x1: l.X1(), y1: l.Y1(), x2: l.X2(), y2: l.Y2(), areas: l.Areas()}
}

// fillRows writes rows [start, end) of the IoU matrix into data.
func fillRows(data []float64, a, b listColumns, start, end int) {
	m := len(b.x1)
	for i := start; i < end; i++ {
		row := data[i*m : (i+1)*m]
		for j := range row {
			_, row[j] = overlap(
				a.x1[i], a.y1[i], a.x2[i], a.y2[i], a.areas[i],
				b.x1[j], b.y1[j], b.x2[j], b.y2[j], b.areas[j],
			)
		}
	}
}

// IoU2DBatch computes the IoU of every box in a against every box in b.
//
// Element (i, j) of the result equals IoU2D(a.At(i), b.At(j)) exactly. Rows
// are spread across CPUs with util.Parallel; each row only reads the inputs
// and writes its own slice of the result.
//
// Arguments:
//   - a: N boxes.
//   - b: M boxes.
//
// Returns:
//   - *mat.Dense: The N x M IoU matrix, or nil when either list is empty.
func IoU2DBatch(a, b *box.List) *mat.Dense {
	n, m := a.Len(), b.Len()
	if n == 0 || m == 0 {
		return nil
	}

	ca, cb := columnsOf(a), columnsOf(b)
	data := make([]float64, n*m)
	util.Parallel(n, func(start, end int) {
		fillRows(data, ca, cb, start, end)
	})

	if debugEnabled() {
		slog.Debug("iou2d batch", "rows", n, "cols", m)
	}
	return mat.NewDense(n, m, data)
}

// IoU2DBatchSerial is IoU2DBatch on the calling goroutine.
func IoU2DBatchSerial(a, b *box.List) *mat.Dense {
	n, m := a.Len(), b.Len()
	if n == 0 || m == 0 {
		return nil
	}

	data := make([]float64, n*m)
	fillRows(data, columnsOf(a), columnsOf(b), 0, n)
	return mat.NewDense(n, m, data)
}

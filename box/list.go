package box

import (
	"fmt"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Column offsets of a row in a List.
const (
	colX1 = iota
	colY1
	colX2
	colY2
	numCols
)

// List is an ordered N x 4 table of boxes.
//
// Rows are always stored as (x1, y1, x2, y2) whatever layout the caller used.
// Widths and heights are computed from the corners on demand. Unlike Box2D, a
// List does not reject degenerate rows, so a row can describe an empty box.
//
// Operations that change the number of rows return a new List.
type List struct {
	// boxes has shape (N, 4). It is nil for an empty list.
	boxes *tensor.Dense
}

func newList(data []float64) *List {
	if len(data) == 0 {
		return &List{}
	}
	return &List{
		boxes: tensor.New(tensor.WithShape(len(data)/numCols, numCols), tensor.WithBacking(data)),
	}
}

// NewList creates a list from rows of four values laid out according to mode.
//
// Arguments:
//   - rows: One slice of exactly four values per box.
//   - mode: Layout of every row.
//
// Returns:
//   - *List: The list, in XYXY form internally.
//   - error: ErrInvalidShape if a row does not hold four values, ErrInvalidValue
//     for an unknown mode or a non-finite value.
//
// Example:
//
// ```go
//
//	l, _ := NewList([][]float64{{39, 63, 203, 112}, {54, 66, 198, 114}}, XYWH)
//	fmt.Println(l.Len(), l.X2()) // 2 [241 251]
//
// ```
func NewList(rows [][]float64, mode Mode) (*List, error) {
	if err := validMode(mode); err != nil {
		return nil, err
	}

	data := make([]float64, 0, len(rows)*numCols)
	for i, row := range rows {
		if len(row) != numCols {
			return nil, errors.Wrapf(ErrInvalidShape, "row %d: expected 4 values, got %d", i, len(row))
		}
		if err := finite(fmt.Sprintf("row %d", i), row...); err != nil {
			return nil, err
		}
		x1, y1, x2, y2 := row[0], row[1], row[2], row[3]
		if mode == XYWH {
			x2 = x1 + row[2] - 1
			y2 = y1 + row[3] - 1
		}
		data = append(data, x1, y1, x2, y2)
	}
	return newList(data), nil
}

// FromBoxes creates a list holding the given boxes in order.
func FromBoxes(boxes ...Box2D) *List {
	data := make([]float64, 0, len(boxes)*numCols)
	for _, b := range boxes {
		data = append(data, b.x1, b.y1, b.x2, b.y2)
	}
	return newList(data)
}

func (l *List) data() []float64 {
	if l == nil || l.boxes == nil {
		return nil
	}
	return l.boxes.Data().([]float64)
}

func (l *List) empty() bool {
	return l == nil || l.boxes == nil
}

// Len returns the number of boxes.
func (l *List) Len() int {
	if l.empty() {
		return 0
	}
	return l.boxes.Shape()[0]
}

// Shape returns (N, 4).
func (l *List) Shape() (int, int) {
	return l.Len(), numCols
}

func (l *List) checkIndex(i, upper int) error {
	if i < 0 || i >= upper {
		return errors.Wrapf(ErrOutOfRange, "index %d outside [0, %d)", i, upper)
	}
	return nil
}

// cell reads one coordinate. The row and column are always in range.
func (l *List) cell(i, c int) float64 {
	v, err := l.boxes.At(i, c)
	if err != nil {
		panic(err)
	}
	return v.(float64)
}

// At returns the box in row i. It panics if i is out of range, like slice indexing.
func (l *List) At(i int) Box2D {
	if err := l.checkIndex(i, l.Len()); err != nil {
		panic(err)
	}
	return Box2D{x1: l.cell(i, colX1), y1: l.cell(i, colY1), x2: l.cell(i, colX2), y2: l.cell(i, colY2)}
}

// Set replaces the box in row i.
func (l *List) Set(i int, b Box2D) error {
	if err := l.checkIndex(i, l.Len()); err != nil {
		return err
	}
	for c, v := range [numCols]float64{b.x1, b.y1, b.x2, b.y2} {
		if err := l.boxes.SetAt(v, i, c); err != nil {
			return errors.Wrapf(err, "row %d", i)
		}
	}
	return nil
}

func (l *List) column(c int) []float64 {
	out := make([]float64, l.Len())
	for i := range out {
		out[i] = l.cell(i, c)
	}
	return out
}

func (l *List) setColumn(c int, name string, values []float64) error {
	if len(values) != l.Len() {
		return errors.Wrapf(ErrInvalidShape, "%s: expected %d values, got %d", name, l.Len(), len(values))
	}
	if err := finite(name, values...); err != nil {
		return err
	}
	for i, v := range values {
		if err := l.boxes.SetAt(v, i, c); err != nil {
			return errors.Wrapf(err, "%s row %d", name, i)
		}
	}
	return nil
}

// X1 returns the left coordinate of every box.
func (l *List) X1() []float64 { return l.column(colX1) }

// Y1 returns the top coordinate of every box.
func (l *List) Y1() []float64 { return l.column(colY1) }

// X2 returns the right coordinate of every box.
func (l *List) X2() []float64 { return l.column(colX2) }

// Y2 returns the bottom coordinate of every box.
func (l *List) Y2() []float64 { return l.column(colY2) }

// Widths returns x2 - x1 + 1 for every box.
func (l *List) Widths() []float64 {
	x1, x2 := l.X1(), l.X2()
	for i := range x2 {
		x2[i] = x2[i] - x1[i] + 1
	}
	return x2
}

// Heights returns y2 - y1 + 1 for every box.
func (l *List) Heights() []float64 {
	y1, y2 := l.Y1(), l.Y2()
	for i := range y2 {
		y2[i] = y2[i] - y1[i] + 1
	}
	return y2
}

// Areas returns width * height for every box.
func (l *List) Areas() []float64 {
	w, h := l.Widths(), l.Heights()
	for i := range w {
		w[i] *= h[i]
	}
	return w
}

// SetX1 overwrites the left coordinate of every box.
func (l *List) SetX1(values []float64) error { return l.setColumn(colX1, "x1", values) }

// SetY1 overwrites the top coordinate of every box.
func (l *List) SetY1(values []float64) error { return l.setColumn(colY1, "y1", values) }

// SetX2 overwrites the right coordinate of every box.
func (l *List) SetX2(values []float64) error { return l.setColumn(colX2, "x2", values) }

// SetY2 overwrites the bottom coordinate of every box.
func (l *List) SetY2(values []float64) error { return l.setColumn(colY2, "y2", values) }

// SetWidths resizes every box keeping its left edge fixed.
func (l *List) SetWidths(w []float64) error {
	if len(w) != l.Len() {
		return errors.Wrapf(ErrInvalidShape, "width: expected %d values, got %d", l.Len(), len(w))
	}
	x1 := l.X1()
	x2 := make([]float64, len(w))
	for i := range w {
		x2[i] = x1[i] + w[i] - 1
	}
	return l.SetX2(x2)
}

// SetHeights resizes every box keeping its top edge fixed.
func (l *List) SetHeights(h []float64) error {
	if len(h) != l.Len() {
		return errors.Wrapf(ErrInvalidShape, "height: expected %d values, got %d", l.Len(), len(h))
	}
	y1 := l.Y1()
	y2 := make([]float64, len(h))
	for i := range h {
		y2[i] = y1[i] + h[i] - 1
	}
	return l.SetY2(y2)
}

// Append returns a new list with the boxes added at the end.
func (l *List) Append(boxes ...Box2D) *List {
	return l.Concat(FromBoxes(boxes...))
}

// Concat returns a new list holding the rows of l followed by the rows of o.
func (l *List) Concat(o *List) *List {
	switch {
	case l.empty() && o.empty():
		return &List{}
	case o.empty():
		return newList(append([]float64(nil), l.data()...))
	case l.empty():
		return newList(append([]float64(nil), o.data()...))
	}

	joined, err := l.boxes.Concat(0, o.boxes)
	if err != nil {
		// Both operands are float64 tensors of shape (N, 4).
		panic(err)
	}
	return &List{boxes: joined}
}

// span returns the rows [from, to) as a new list.
func (l *List) span(from, to int) *List {
	indices := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		indices = append(indices, i)
	}
	out, _ := l.Select(indices)
	return out
}

// Insert returns a new list with b placed at row i. i may equal Len.
func (l *List) Insert(i int, b Box2D) (*List, error) {
	if err := l.checkIndex(i, l.Len()+1); err != nil {
		return nil, err
	}
	return l.span(0, i).Append(b).Concat(l.span(i, l.Len())), nil
}

// Delete returns a new list without row i.
func (l *List) Delete(i int) (*List, error) {
	if err := l.checkIndex(i, l.Len()); err != nil {
		return nil, err
	}
	return l.span(0, i).Concat(l.span(i+1, l.Len())), nil
}

// Select returns a new list holding the rows at the given indices, in order.
func (l *List) Select(indices []int) (*List, error) {
	out := make([]float64, 0, len(indices)*numCols)
	for _, i := range indices {
		if err := l.checkIndex(i, l.Len()); err != nil {
			return nil, err
		}
		b := l.At(i)
		out = append(out, b.x1, b.y1, b.x2, b.y2)
	}
	return newList(out), nil
}

// Scale returns a new list with every coordinate multiplied by s.
func (l *List) Scale(s float64) *List {
	if l.empty() {
		return &List{}
	}
	scaled, err := l.boxes.MulScalar(s, true)
	if err != nil {
		panic(err)
	}
	return &List{boxes: scaled}
}

// Rows returns every box as four values laid out according to mode.
func (l *List) Rows(mode Mode) [][4]float64 {
	n := l.Len()
	out := make([][4]float64, n)
	for i := 0; i < n; i++ {
		out[i] = l.At(i).Values(mode)
	}
	return out
}

// Equal reports whether both lists hold identical rows.
func (l *List) Equal(o *List) bool {
	a, b := l.data(), o.data()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (l *List) String() string {
	return fmt.Sprintf("BBox2DList(%v)", l.Rows(XYWH))
}

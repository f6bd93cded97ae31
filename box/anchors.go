package box

import "math"

// AnchorRatios enumerates one anchor per ratio around the center of b.
//
// Each ratio is height / width. Every anchor keeps the area of b as closely as
// whole pixels allow, with sizes rounded half to even. Rows follow the order
// of ratios.
//
// Example:
//
// ```go
//
//	b, _ := FromTwoPoint(0, 0, 15, 15)
//	anchors := AnchorRatios(b, []float64{0.5, 1, 2})
//	fmt.Println(anchors.Rows(XYXY)) // [[-3.5 2 18.5 13] [0 0 15 15] [2.5 -3 12.5 18]]
//
// ```
func AnchorRatios(b Box2D, ratios []float64) *List {
	w, h := b.Width(), b.Height()
	ctr := b.Center()
	size := w * h

	data := make([]float64, 0, len(ratios)*numCols)
	for _, r := range ratios {
		ws := math.RoundToEven(math.Sqrt(size / r))
		hs := math.RoundToEven(ws * r)
		data = append(data,
			ctr[0]-0.5*(ws-1),
			ctr[1]-0.5*(hs-1),
			ctr[0]+0.5*(ws-1),
			ctr[1]+0.5*(hs-1),
		)
	}
	return newList(data)
}

package render

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-bbox/box"
)

// cuboidEdges lists the corner pairs joined when drawing a cuboid, using
// zero-based P1..P8 indices.
var cuboidEdges = [12][2]int{
	{0, 1}, {1, 5}, {5, 4}, {4, 0}, // left face
	{3, 2}, {2, 6}, {6, 7}, {7, 3}, // right face
	{0, 3}, {1, 2}, {5, 6}, {4, 7}, // connecting edges
}

func toPoint(v mgl64.Vec2) image.Point {
	return image.Pt(int(math.Round(v[0])), int(math.Round(v[1])))
}

func checkImage(img *gocv.Mat) error {
	if img == nil || img.Empty() {
		return ErrEmptyImage
	}
	return nil
}

// DrawBoxes outlines every box of the list on img.
//
// Boxes use inclusive pixel coordinates, so the outline covers columns x1
// through x2 and rows y1 through y2.
//
// Arguments:
//   - img: The image to draw on, modified in place.
//   - boxes: The boxes to draw.
//   - c: Line color.
//   - thickness: Line thickness in pixels; a negative value fills the box.
//
// Returns:
//   - error: ErrEmptyImage if img holds no pixels.
func DrawBoxes(img *gocv.Mat, boxes *box.List, c color.RGBA, thickness int) error {
	if err := checkImage(img); err != nil {
		return err
	}

	for _, r := range boxes.Rows(box.XYXY) {
		rect := image.Rect(
			int(math.Round(r[0])), int(math.Round(r[1])),
			int(math.Round(r[2]))+1, int(math.Round(r[3]))+1,
		)
		gocv.Rectangle(img, rect, c, thickness)
	}
	return nil
}

// DrawCuboid draws the 12 edges of a projected cuboid.
//
// pts holds the image positions of P1..P8, e.g. from Camera.ProjectBox.
func DrawCuboid(img *gocv.Mat, pts [8]mgl64.Vec2, c color.RGBA, thickness int) error {
	if err := checkImage(img); err != nil {
		return err
	}
	if thickness < 1 {
		return errors.Errorf("cuboid edges need a thickness of at least 1, got %d", thickness)
	}

	for _, e := range cuboidEdges {
		gocv.Line(img, toPoint(pts[e[0]]), toPoint(pts[e[1]]), c, thickness)
	}
	return nil
}

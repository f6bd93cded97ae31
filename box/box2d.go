package box

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Box2D is an axis-aligned box on the pixel grid.
//
// Coordinates are inclusive on both ends, so Width = X2 - X1 + 1 and
// Height = Y2 - Y1 + 1. A Box2D built by the constructors always satisfies
// X1 <= X2 and Y1 <= Y2. The zero value is the 1x1 box at the origin.
type Box2D struct {
	x1, y1, x2, y2 float64
}

// FromWidthHeight creates a box from its top-left corner and its size.
//
// Arguments:
//   - x, y: Top-left corner.
//   - w, h: Width and height, both at least 1.
//
// Returns:
//   - Box2D: The box.
//   - error: ErrInvalidValue if a value is not finite or the size is below 1.
//
// Example:
//
// ```go
//
//	b, _ := FromWidthHeight(24, 48, 64, 96)
//	fmt.Println(b.X2(), b.Y2()) // 87 143
//
// ```
func FromWidthHeight(x, y, w, h float64) (Box2D, error) {
	if err := finite("box", x, y, w, h); err != nil {
		return Box2D{}, err
	}
	if w < 1 || h < 1 {
		return Box2D{}, errors.Wrapf(ErrInvalidValue, "width and height must be at least 1, got %vx%v", w, h)
	}
	return Box2D{x1: x, y1: y, x2: x + w - 1, y2: y + h - 1}, nil
}

// FromTwoPoint creates a box from its top-left and bottom-right corners.
//
// Arguments:
//   - x1, y1: Top-left corner.
//   - x2, y2: Bottom-right corner, inclusive.
//
// Returns:
//   - Box2D: The box.
//   - error: ErrInvalidValue if a value is not finite or the corners are out of order.
func FromTwoPoint(x1, y1, x2, y2 float64) (Box2D, error) {
	if err := finite("box", x1, y1, x2, y2); err != nil {
		return Box2D{}, err
	}
	if x2 < x1 || y2 < y1 {
		return Box2D{}, errors.Wrapf(ErrInvalidValue,
			"bottom-right (%v, %v) is above or left of top-left (%v, %v)", x2, y2, x1, y1)
	}
	return Box2D{x1: x1, y1: y1, x2: x2, y2: y2}, nil
}

// New creates a box from exactly four values laid out according to mode.
func New(values []float64, mode Mode) (Box2D, error) {
	if len(values) != 4 {
		return Box2D{}, errors.Wrapf(ErrInvalidShape, "expected 4 values, got %d", len(values))
	}
	if err := validMode(mode); err != nil {
		return Box2D{}, err
	}
	if mode == XYXY {
		return FromTwoPoint(values[0], values[1], values[2], values[3])
	}
	return FromWidthHeight(values[0], values[1], values[2], values[3])
}

// X1 returns the left coordinate.
func (b Box2D) X1() float64 { return b.x1 }

// Y1 returns the top coordinate.
func (b Box2D) Y1() float64 { return b.y1 }

// X2 returns the right coordinate.
func (b Box2D) X2() float64 { return b.x2 }

// Y2 returns the bottom coordinate.
func (b Box2D) Y2() float64 { return b.y2 }

// Width returns the inclusive width.
func (b Box2D) Width() float64 { return b.x2 - b.x1 + 1 }

// Height returns the inclusive height.
func (b Box2D) Height() float64 { return b.y2 - b.y1 + 1 }

// Area returns Width * Height.
func (b Box2D) Area() float64 { return b.Width() * b.Height() }

// SetX1 moves the left edge. The right edge stays put and the width follows.
func (b *Box2D) SetX1(x float64) error {
	if err := finite("x1", x); err != nil {
		return err
	}
	if x > b.x2 {
		return errors.Wrapf(ErrInvalidValue, "x1=%v is greater than x2=%v", x, b.x2)
	}
	b.x1 = x
	return nil
}

// SetY1 moves the top edge. The bottom edge stays put and the height follows.
func (b *Box2D) SetY1(y float64) error {
	if err := finite("y1", y); err != nil {
		return err
	}
	if y > b.y2 {
		return errors.Wrapf(ErrInvalidValue, "y1=%v is greater than y2=%v", y, b.y2)
	}
	b.y1 = y
	return nil
}

// SetX2 moves the right edge.
func (b *Box2D) SetX2(x float64) error {
	if err := finite("x2", x); err != nil {
		return err
	}
	if x < b.x1 {
		return errors.Wrapf(ErrInvalidValue, "x2=%v is less than x1=%v", x, b.x1)
	}
	b.x2 = x
	return nil
}

// SetY2 moves the bottom edge.
func (b *Box2D) SetY2(y float64) error {
	if err := finite("y2", y); err != nil {
		return err
	}
	if y < b.y1 {
		return errors.Wrapf(ErrInvalidValue, "y2=%v is less than y1=%v", y, b.y1)
	}
	b.y2 = y
	return nil
}

// SetWidth resizes the box keeping the left edge fixed.
func (b *Box2D) SetWidth(w float64) error {
	if err := finite("width", w); err != nil {
		return err
	}
	if w < 1 {
		return errors.Wrapf(ErrInvalidValue, "width must be at least 1, got %v", w)
	}
	b.x2 = b.x1 + w - 1
	return nil
}

// SetHeight resizes the box keeping the top edge fixed.
func (b *Box2D) SetHeight(h float64) error {
	if err := finite("height", h); err != nil {
		return err
	}
	if h < 1 {
		return errors.Wrapf(ErrInvalidValue, "height must be at least 1, got %v", h)
	}
	b.y2 = b.y1 + h - 1
	return nil
}

// Center returns the center of the box on the pixel grid.
func (b Box2D) Center() mgl64.Vec2 {
	return mgl64.Vec2{b.x1 + (b.Width()-1)/2, b.y1 + (b.Height()-1)/2}
}

// AspectRatio returns a box with the same top-left corner and roughly the same
// area whose width / height equals ratio. Sizes are rounded half to even.
//
// Arguments:
//   - ratio: The target width / height, greater than zero.
//
// Returns:
//   - Box2D: The reshaped box.
//   - error: ErrInvalidValue if ratio is not positive or the result collapses below 1px.
//
// Example:
//
// ```go
//
//	b, _ := FromWidthHeight(0, 0, 16, 16)
//	tall, _ := b.AspectRatio(0.5)
//	fmt.Println(tall.Width(), tall.Height()) // 11 22
//
// ```
func (b Box2D) AspectRatio(ratio float64) (Box2D, error) {
	if !(ratio > 0) || math.IsInf(ratio, 0) {
		return Box2D{}, errors.Wrapf(ErrInvalidValue, "aspect ratio must be positive, got %v", ratio)
	}

	// Work with height / width from here on.
	inv := 1.0 / ratio
	areaRatio := b.Area() / inv
	w := math.RoundToEven(math.Sqrt(areaRatio))
	h := math.RoundToEven(inv * w)
	return FromWidthHeight(b.x1, b.y1, w, h)
}

// Scale multiplies every coordinate by s.
func (b Box2D) Scale(s float64) (Box2D, error) {
	return FromTwoPoint(b.x1*s, b.y1*s, b.x2*s, b.y2*s)
}

// Values returns the box as four values laid out according to mode.
func (b Box2D) Values(mode Mode) [4]float64 {
	if mode == XYXY {
		return [4]float64{b.x1, b.y1, b.x2, b.y2}
	}
	return [4]float64{b.x1, b.y1, b.Width(), b.Height()}
}

// Equal reports whether both boxes have identical corners.
func (b Box2D) Equal(o Box2D) bool {
	return b == o
}

func (b Box2D) String() string {
	return fmt.Sprintf("BBox2D([%v, %v, %v, %v])", b.x1, b.y1, b.Width(), b.Height())
}

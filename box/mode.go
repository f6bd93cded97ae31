// Package box - Bounding box value types for 2D detections and 3D cuboids.
package box

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Mode identifies how four box values are laid out.
type Mode int

const (
	// XYWH is (x, y, width, height) with (x, y) the top-left corner.
	XYWH Mode = iota
	// XYXY is (x1, y1, x2, y2), the top-left and bottom-right corners.
	XYXY
)

// String returns the name of the mode.
func (m Mode) String() string {
	switch m {
	case XYWH:
		return "XYWH"
	case XYXY:
		return "XYXY"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

var (
	// ErrInvalidShape is returned when input does not have the expected number of values.
	ErrInvalidShape = errors.New("invalid shape")
	// ErrInvalidValue is returned when a value would break a box invariant.
	ErrInvalidValue = errors.New("invalid value")
	// ErrOutOfRange is returned when an index is outside a list.
	ErrOutOfRange = errors.New("index out of range")
)

func validMode(mode Mode) error {
	if mode != XYWH && mode != XYXY {
		return errors.Wrapf(ErrInvalidValue, "unknown box mode %v", mode)
	}
	return nil
}

func finite(name string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrInvalidValue, "%s must be finite, got %v", name, v)
		}
	}
	return nil
}

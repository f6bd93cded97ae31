// Package render - Camera projection and drawing helpers for visualizing boxes.
package render

import "github.com/pkg/errors"

var (
	// ErrBehindCamera is returned when a point does not project in front of the camera.
	ErrBehindCamera = errors.New("point is behind the camera")
	// ErrInvalidCamera is returned when camera matrices have the wrong dimensions.
	ErrInvalidCamera = errors.New("invalid camera")
	// ErrInvalidScale is returned when a resize factor is not positive or collapses the image.
	ErrInvalidScale = errors.New("invalid scale")
	// ErrEmptyImage is returned when drawing onto an empty image.
	ErrEmptyImage = errors.New("empty image")
)

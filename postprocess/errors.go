// Package postprocess - Non-maximum suppression over box lists and detection results.
package postprocess

import "github.com/pkg/errors"

var (
	// ErrShapeMismatch is returned when the scores and boxes have different lengths.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrInvalidScore is returned when a detection score is NaN or infinite.
	ErrInvalidScore = errors.New("invalid score")
)

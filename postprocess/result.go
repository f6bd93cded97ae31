package postprocess

import "github.com/nvr-ai/go-bbox/box"

// Result represents a single detection result.
type Result struct {
	// The bounding box of the result.
	Box box.Box2D
	// The confidence score of the result.
	Score float32
	// The predicted class index of the result.
	Class int
}

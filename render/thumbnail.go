package render

import (
	"image"
	"math"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-bbox/box"
)

// Thumbnail resizes img by scale with Lanczos3 resampling and scales boxes by
// the same factor so they stay aligned with the image content.
//
// Arguments:
//   - img: Source image.
//   - scale: Resize factor, greater than zero.
//   - boxes: Boxes in img coordinates; may be nil.
//
// Returns:
//   - image.Image: The resized image.
//   - *box.List: The scaled boxes, nil when boxes is nil.
//   - error: ErrInvalidScale if scale is not positive or the result would be empty.
func Thumbnail(img image.Image, scale float64, boxes *box.List) (image.Image, *box.List, error) {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return nil, nil, errors.Wrapf(ErrInvalidScale, "scale must be positive, got %v", scale)
	}

	bounds := img.Bounds()
	w := uint(math.Round(float64(bounds.Dx()) * scale))
	h := uint(math.Round(float64(bounds.Dy()) * scale))
	if w == 0 || h == 0 {
		return nil, nil, errors.Wrapf(ErrInvalidScale,
			"scaling %dx%d by %v leaves no pixels", bounds.Dx(), bounds.Dy(), scale)
	}

	out := resize.Resize(w, h, img, resize.Lanczos3)
	if boxes == nil {
		return out, nil, nil
	}
	return out, boxes.Scale(scale), nil
}

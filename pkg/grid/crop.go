package grid

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/muesli/smartcrop"
)

// resizer adapts imaging to the smartcrop analyzer.
type resizer struct {
	resampler imaging.ResampleFilter
}

func (r *resizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), r.resampler)
}

// cropSize returns the largest w×h inside the source with w/h == ratio.
func cropSize(b image.Rectangle, ratio float64) (w, h int) {
	w, h = b.Dx(), b.Dy()
	if float64(w)/float64(h) > ratio {
		w = int(math.Round(float64(h) * ratio))
	} else {
		h = int(math.Round(float64(w) / ratio))
	}
	return max(w, 1), max(h, 1)
}

// cropToAspect trims img so that every base cell of shape ends up with
// aspect o.CellAspect. The source is returned untouched when no crop applies.
func (o Options) cropToAspect(img image.Image, shape Shape) (image.Image, error) {
	if o.CellAspect == 0 || o.Crop == CropNone {
		return img, nil
	}
	b := img.Bounds()
	ratio := o.CellAspect * float64(Columns) / float64(shape.Rows())
	w, h := cropSize(b, ratio)
	if w == b.Dx() && h == b.Dy() {
		return img, nil
	}

	switch o.Crop {
	case CropSmart:
		analyzer := smartcrop.NewAnalyzer(&resizer{resampler: imaging.Lanczos})
		best, err := analyzer.FindBestCrop(img, w, h)
		if err != nil {
			return nil, wrapError(ErrCodeInvalidInput, err, "smart crop")
		}
		return imaging.Crop(img, fitRect(b, best.Min, w, h)), nil
	default:
		return imaging.CropAnchor(img, w, h, imaging.Center), nil
	}
}

// fitRect places a w×h rectangle at origin, shifted back inside b when it overhangs.
func fitRect(b image.Rectangle, origin image.Point, w, h int) image.Rectangle {
	x := min(max(origin.X, b.Min.X), b.Max.X-w)
	y := min(max(origin.Y, b.Min.Y), b.Max.Y-h)
	return image.Rect(x, y, x+w, y+h)
}

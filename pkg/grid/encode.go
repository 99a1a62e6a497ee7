package grid

import (
	"bytes"
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"
)

var bufPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// encodePNG serializes img losslessly. The scratch buffer goes back to the
// pool on every path; the returned slice is a private copy.
func encodePNG(img image.Image) ([]byte, error) {
	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufPool.Put(buf)

	if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
		return nil, wrapError(ErrCodeEncodeFailure, err, "png encode")
	}
	if buf.Len() == 0 {
		return nil, newError(ErrCodeEncodeFailure, "png encode produced no output")
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// decodePNG turns cell bytes back into an NRGBA raster.
func decodePNG(data []byte) (*image.NRGBA, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, wrapError(ErrCodeInvalidInput, err, "decode cell")
	}
	return imaging.Clone(img), nil
}

// newCanvas acquires a w×h surface filled with bg.
func newCanvas(w, h int, bg color.Color) (*image.NRGBA, error) {
	dst := imaging.New(w, h, bg)
	if dst.Bounds().Empty() {
		return nil, newError(ErrCodeRenderTargetUnavailable, "cannot allocate %dx%d surface", w, h)
	}
	return dst, nil
}

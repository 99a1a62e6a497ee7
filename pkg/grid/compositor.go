package grid

import (
	"context"
	"image"
	"io"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
)

// Preview is the predicted feed appearance with every overlap margin removed.
type Preview struct {
	Image *image.NRGBA
	Data  []byte // PNG
}

// Compositor reassembles a CellSequence the way the feed will display it.
type Compositor struct {
	opts   Options
	logger *log.Logger
}

// NewCompositor validates opts. A nil logger discards output.
func NewCompositor(opts Options, logger *log.Logger) (*Compositor, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Compositor{opts: opts, logger: logger}, nil
}

// Composite requires len(cells) == shape.Cells() in row-major order.
func (c *Compositor) Composite(ctx context.Context, cells CellSequence, shape Shape) (*Preview, error) {
	if !shape.Valid() {
		return nil, newError(ErrCodeInvalidInput, "unsupported grid shape %d rows", int(shape))
	}
	if len(cells) != shape.Cells() {
		return nil, newError(ErrCodeShapeMismatch, "%s grid needs %d cells, got %d", shape, shape.Cells(), len(cells))
	}

	imgs := make([]*image.NRGBA, len(cells))
	for i, cell := range cells {
		row, col := position(i)
		if cell.Row != row || cell.Col != col {
			return nil, newError(ErrCodeShapeMismatch, "cell %d is at row %d col %d, want row %d col %d",
				i, cell.Row, cell.Col, row, col)
		}
		img, err := cell.raster()
		if err != nil {
			return nil, err
		}
		imgs[i] = img
	}

	width, height := 0, 0
	for i, img := range imgs {
		row, col := position(i)
		vis, err := c.visibleWidth(img, i, col)
		if err != nil {
			return nil, err
		}
		if row == 0 {
			width += vis
		}
		if col == 0 {
			height += img.Bounds().Dy()
		}
	}

	dst, err := newCanvas(width, height, c.opts.background())
	if err != nil {
		return nil, err
	}

	x, y := 0, 0
	for i, img := range imgs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		_, col := position(i)
		if col == 0 {
			x = 0
			if i > 0 {
				y += imgs[i-Columns].Bounds().Dy()
			}
		}
		lead, _ := margins(col, c.opts.Margin)
		vis, _ := c.visibleWidth(img, i, col)

		drawW := vis
		if c.opts.Strip == StripLeading {
			drawW = img.Bounds().Dx() - lead
		}
		b := img.Bounds()
		region := imaging.Crop(img, image.Rect(lead, 0, lead+drawW, b.Dy()).Add(b.Min))
		dst = imaging.Paste(dst, region, image.Pt(x, y))
		x += vis
	}

	data, err := encodePNG(dst)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("composited preview", "shape", shape, "size", dst.Bounds().Size(), "strip", c.opts.Strip)
	return &Preview{Image: dst, Data: data}, nil
}

// visibleWidth is the cell width with both overlap margins removed.
func (c *Compositor) visibleWidth(img *image.NRGBA, index, col int) (int, error) {
	lead, trail := margins(col, c.opts.Margin)
	vis := img.Bounds().Dx() - lead - trail
	if vis <= 0 {
		return 0, newError(ErrCodeShapeMismatch, "cell %d is %dpx wide, narrower than its %dpx of margin",
			index, img.Bounds().Dx(), lead+trail)
	}
	return vis, nil
}

// raster returns the decoded pixels, decoding Data when Image is unset.
func (c Cell) raster() (*image.NRGBA, error) {
	if c.Image != nil {
		return c.Image, nil
	}
	if len(c.Data) == 0 {
		return nil, newError(ErrCodeInvalidInput, "cell %d has no pixels", c.Index)
	}
	return decodePNG(c.Data)
}

// DecodeCells rebuilds a CellSequence from PNG buffers given in upload order.
func DecodeCells(buffers [][]byte) (CellSequence, error) {
	cells := make(CellSequence, len(buffers))
	for i, data := range buffers {
		img, err := decodePNG(data)
		if err != nil {
			return nil, wrapError(ErrCodeInvalidInput, err, "cell %d", i+1)
		}
		row, col := position(i)
		cells[i] = Cell{Row: row, Col: col, Index: i, Image: img, Data: data}
	}
	return cells, nil
}

package grid

import (
	"context"
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
)

// Cell is one exported tile, i.e. one feed post.
type Cell struct {
	Row, Col int
	Index    int
	Image    *image.NRGBA
	Data     []byte // PNG
}

func (c Cell) Label() string                { return Label(c.Index) }
func (c Cell) FileName(shape Shape) string { return FileName(shape, c.Index) }

// CellSequence holds cells in upload order: row-major, index = row*3 + col.
type CellSequence []Cell

// Slicer cuts a source image into overlapping feed cells.
type Slicer struct {
	opts   Options
	logger *log.Logger
}

// NewSlicer validates opts. A nil logger discards output.
func NewSlicer(opts Options, logger *log.Logger) (*Slicer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Slicer{opts: opts, logger: logger}, nil
}

// Slice returns exactly shape.Cells() cells or an error, never a partial result.
func (s *Slicer) Slice(ctx context.Context, img image.Image, shape Shape) (CellSequence, error) {
	if !shape.Valid() {
		return nil, newError(ErrCodeInvalidInput, "unsupported grid shape %d rows", int(shape))
	}
	if img == nil || img.Bounds().Empty() {
		return nil, newError(ErrCodeInvalidInput, "source image has zero area")
	}
	start := time.Now()

	src, err := s.opts.cropToAspect(img, shape)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	base, baseH := b.Dx()/Columns, b.Dy()/shape.Rows()
	if base == 0 || baseH == 0 {
		return nil, newError(ErrCodeInvalidInput, "source %dx%d too small for %s grid", b.Dx(), b.Dy(), shape)
	}

	cells := make(CellSequence, shape.Cells())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.workers())
	for i := range cells {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cell, err := s.render(src, i, base, baseH)
			if err != nil {
				return err
			}
			cells[i] = cell
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug("sliced image",
		"shape", shape, "source", b.Size(), "cell", image.Pt(base, baseH),
		"margin", s.opts.Margin, "elapsed", time.Since(start).Round(time.Millisecond))
	return cells, nil
}

// render produces the cell at index. The source window extends margin pixels
// into each interior neighbour; whatever falls outside src stays background.
func (s *Slicer) render(src image.Image, index, base, baseH int) (Cell, error) {
	row, col := position(index)
	lead, trail := margins(col, s.opts.Margin)
	w, h := base+lead+trail, baseH

	dst, err := newCanvas(w, h, s.opts.background())
	if err != nil {
		return Cell{}, err
	}

	b := src.Bounds()
	x0, y0 := col*base-lead, row*baseH
	want := image.Rect(x0, y0, x0+w, y0+h).Add(b.Min)
	if read := want.Intersect(b); !read.Empty() {
		dst = imaging.Overlay(dst, imaging.Crop(src, read), read.Min.Sub(want.Min), 1.0)
	}

	data, err := encodePNG(dst)
	if err != nil {
		return Cell{}, err
	}
	return Cell{Row: row, Col: col, Index: index, Image: dst, Data: data}, nil
}

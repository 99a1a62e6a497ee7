// Package grid cuts an image into a 3-column feed grid and predicts how the
// posted grid will look.
//
// Feeds render a fixed gutter between neighbouring posts, which swallows a
// strip of the picture at every column boundary. The Slicer widens each cell
// by Options.Margin pixels on every interior side so the gutter hides only
// duplicated pixels; the Compositor strips those margins again to produce a
// preview of the seamless result.
//
//	cells, preview, err := grid.Run(ctx, img, grid.Shape2x3, grid.DefaultOptions(), logger)
//	for _, c := range cells {
//	    fmt.Println(c.FileName(grid.Shape2x3), c.Label())
//	}
package grid

import (
	"context"
	"image"

	"github.com/charmbracelet/log"
)

// Run slices img and composites the preview from the full, joined sequence.
func Run(ctx context.Context, img image.Image, shape Shape, opts Options, logger *log.Logger) (CellSequence, *Preview, error) {
	slicer, err := NewSlicer(opts, logger)
	if err != nil {
		return nil, nil, err
	}
	compositor, err := NewCompositor(opts, logger)
	if err != nil {
		return nil, nil, err
	}
	cells, err := slicer.Slice(ctx, img, shape)
	if err != nil {
		return nil, nil, err
	}
	preview, err := compositor.Composite(ctx, cells, shape)
	if err != nil {
		return nil, nil, err
	}
	return cells, preview, nil
}

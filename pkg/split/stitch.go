package split

import (
	"context"
	"fmt"
	"os"

	"github.com/PhantomInTheWire/feed-grid/pkg/grid"
)

// LoadCells reads previously exported cell files given in upload order.
func LoadCells(paths []string) (grid.CellSequence, error) {
	buffers := make([][]byte, len(paths))
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		buffers[i] = data
	}
	return grid.DecodeCells(buffers)
}

// Stitch rebuilds the feed preview from exported cell files and writes it to outPath.
func Stitch(ctx context.Context, paths []string, shape grid.Shape, opts grid.Options, outPath string) (*grid.Preview, error) {
	cells, err := LoadCells(paths)
	if err != nil {
		return nil, err
	}
	c, err := grid.NewCompositor(opts, nil)
	if err != nil {
		return nil, err
	}
	preview, err := c.Composite(ctx, cells, shape)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(outPath, preview.Data, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", outPath, err)
	}
	return preview, nil
}

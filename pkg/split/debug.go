package split

import (
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/PhantomInTheWire/feed-grid/pkg/grid"
)

var (
	leadTint  = color.NRGBA{R: 255, A: 255}
	trailTint = color.NRGBA{B: 255, A: 255}
)

const tintOpacity = 0.3

// MarkMargins returns a copy of cell with its leading margin tinted red and
// its trailing margin tinted blue.
func MarkMargins(cell grid.Cell, margin int) *image.NRGBA {
	out := imaging.Clone(cell.Image)
	if margin <= 0 {
		return out
	}
	w, h := out.Bounds().Dx(), out.Bounds().Dy()
	if cell.Col > 0 {
		out = imaging.Overlay(out, imaging.New(margin, h, leadTint), image.Pt(0, 0), tintOpacity)
	}
	if cell.Col < grid.Columns-1 {
		out = imaging.Overlay(out, imaging.New(margin, h, trailTint), image.Pt(w-margin, 0), tintOpacity)
	}
	return out
}

// WriteDebug saves a margin-marked copy of every cell into dir.
func WriteDebug(dir string, shape grid.Shape, cells grid.CellSequence, margin int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cells))
	for _, cell := range cells {
		name := cell.FileName(shape)
		if err := imaging.Save(MarkMargins(cell, margin), filepath.Join(dir, name)); err != nil {
			return nil, err
		}
		names = append(names, filepath.Join(DebugDir, name))
	}
	return names, nil
}

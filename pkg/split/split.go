// Package split is the file-system shell around the grid core: it opens an
// image, slices it, and writes the cells, the preview and an upload manifest.
package split

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/PhantomInTheWire/feed-grid/pkg/grid"
)

const (
	PreviewName  = "preview.png"
	ManifestName = "manifest.txt"
	DebugDir     = "debug"
)

// Config controls what Image writes besides the cells.
type Config struct {
	Grid  grid.Options
	Zip   bool // bundle everything into grid-<shape>.zip as well
	Debug bool // write margin-highlighted copies under debug/
}

// DefaultConfig slices with grid.DefaultOptions and writes loose files only.
func DefaultConfig() Config {
	return Config{Grid: grid.DefaultOptions()}
}

// Result lists the files written for one source image. Paths are relative to Dir.
type Result struct {
	Dir      string
	Source   string
	Cells    []string // upload order
	Preview  string
	Manifest string
	Archive  string
	Debug    []string
}

// Image splits the image at inPath into a shape grid inside outDir.
func Image(ctx context.Context, inPath, outDir string, shape grid.Shape, cfg Config, logger *log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	src, err := imaging.Open(inPath, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", inPath, err)
	}

	cells, preview, err := grid.Run(ctx, src, shape, cfg.Grid, logger)
	if err != nil {
		return nil, fmt.Errorf("slice %s: %w", inPath, err)
	}

	res, err := Write(outDir, shape, cells, preview)
	if err != nil {
		return nil, err
	}
	res.Source = inPath

	if cfg.Zip {
		name := ArchiveName(shape)
		f, err := os.Create(filepath.Join(outDir, name))
		if err != nil {
			return nil, err
		}
		if err := Archive(f, shape, cells, preview); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		res.Archive = name
	}

	if cfg.Debug {
		res.Debug, err = WriteDebug(filepath.Join(outDir, DebugDir), shape, cells, cfg.Grid.Margin)
		if err != nil {
			return nil, err
		}
	}

	logger.Info("split image", "source", filepath.Base(inPath), "shape", shape.String(), "cells", len(cells), "dir", outDir)
	return res, nil
}

// Write stores cells (as grid-<shape>-N.png), the preview and the manifest in dir.
func Write(dir string, shape grid.Shape, cells grid.CellSequence, preview *grid.Preview) (*Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	res := &Result{Dir: dir, Cells: make([]string, 0, len(cells))}
	for _, cell := range cells {
		name := cell.FileName(shape)
		if err := os.WriteFile(filepath.Join(dir, name), cell.Data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
		res.Cells = append(res.Cells, name)
	}

	if preview != nil {
		if err := os.WriteFile(filepath.Join(dir, PreviewName), preview.Data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", PreviewName, err)
		}
		res.Preview = PreviewName
	}

	f, err := os.Create(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := WriteManifest(f, shape, cells); err != nil {
		return nil, fmt.Errorf("write %s: %w", ManifestName, err)
	}
	res.Manifest = ManifestName
	return res, f.Close()
}

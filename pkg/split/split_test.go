package split

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhantomInTheWire/feed-grid/pkg/grid"
)

func writeSource(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	p := filepath.Join(dir, name)
	require.NoError(t, imaging.Save(img, p))
	return p
}

func TestImage(t *testing.T) {
	tmp := t.TempDir()
	src := writeSource(t, tmp, "photo.png", 300, 200)
	out := filepath.Join(tmp, "out")

	cfg := DefaultConfig()
	cfg.Zip = true
	cfg.Debug = true
	res, err := Image(context.Background(), src, out, grid.Shape2x3, cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"grid-3x2-1.png", "grid-3x2-2.png", "grid-3x2-3.png",
		"grid-3x2-4.png", "grid-3x2-5.png", "grid-3x2-6.png",
	}, res.Cells)
	assert.Equal(t, PreviewName, res.Preview)
	assert.Equal(t, "grid-3x2.zip", res.Archive)
	assert.Len(t, res.Debug, 6)

	for _, name := range append(res.Cells, res.Preview, res.Manifest, res.Archive) {
		assert.FileExists(t, filepath.Join(out, name))
	}
	for _, name := range res.Debug {
		assert.FileExists(t, filepath.Join(out, name))
	}

	cell, err := imaging.Open(filepath.Join(out, "grid-3x2-2.png"))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(132, 100), cell.Bounds().Size())

	preview, err := imaging.Open(filepath.Join(out, PreviewName))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(300, 200), preview.Bounds().Size())
}

func TestImageMissingFile(t *testing.T) {
	_, err := Image(context.Background(), filepath.Join(t.TempDir(), "nope.png"), t.TempDir(), grid.Shape1x3, DefaultConfig(), nil)
	assert.Error(t, err)
}

func TestImagePropagatesGridErrors(t *testing.T) {
	tmp := t.TempDir()
	src := writeSource(t, tmp, "tiny.png", 2, 2)
	_, err := Image(context.Background(), src, filepath.Join(tmp, "out"), grid.Shape1x3, DefaultConfig(), nil)
	require.Error(t, err)
	assert.True(t, grid.IsCode(err, grid.ErrCodeInvalidInput), "got %v", err)
}

func TestWriteManifest(t *testing.T) {
	cells := make(grid.CellSequence, 3)
	for i := range cells {
		cells[i] = grid.Cell{Row: 0, Col: i, Index: i}
	}
	var buf bytes.Buffer
	require.NoError(t, WriteManifest(&buf, grid.Shape1x3, cells))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "# 3x1 grid: upload in this order", lines[0])
	assert.Equal(t, "grid-3x1-1.png\t1행 1열 (1번째 업로드)", lines[1])
	assert.Equal(t, "grid-3x1-3.png\t1행 3열 (3번째 업로드)", lines[3])
}

func TestArchive(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 90, 30))
	cells, preview, err := grid.Run(context.Background(), src, grid.Shape1x3, grid.DefaultOptions(), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Archive(&buf, grid.Shape1x3, cells, preview))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"grid-3x1-1.png", "grid-3x1-2.png", "grid-3x1-3.png", PreviewName, ManifestName}, names)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	var got bytes.Buffer
	_, err = got.ReadFrom(rc)
	require.NoError(t, err)
	assert.Equal(t, cells[0].Data, got.Bytes())
}

func TestMarkMargins(t *testing.T) {
	opts := grid.DefaultOptions()
	opts.Margin = 4
	src := image.NewNRGBA(image.Rect(0, 0, 60, 20))
	cells, _, err := grid.Run(context.Background(), src, grid.Shape1x3, opts, nil)
	require.NoError(t, err)

	// Source is transparent, so cells are plain white before marking.
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	left := MarkMargins(cells[0], 4)
	assert.Equal(t, white, left.NRGBAAt(0, 0), "leftmost column has no leading margin")
	assert.Less(t, left.NRGBAAt(left.Bounds().Dx()-1, 0).R, uint8(255), "trailing margin tinted blue")

	mid := MarkMargins(cells[1], 4)
	assert.Less(t, mid.NRGBAAt(0, 0).B, uint8(255), "leading margin tinted red")
	assert.Equal(t, white, mid.NRGBAAt(10, 0))

	// The cell itself is left untouched.
	assert.Equal(t, white, cells[1].Image.NRGBAAt(0, 0))
}

func TestBatch(t *testing.T) {
	tmp := t.TempDir()
	in := filepath.Join(tmp, "in")
	require.NoError(t, os.MkdirAll(in, 0o755))
	writeSource(t, in, "a.png", 90, 90)
	writeSource(t, in, "b.jpg", 120, 60)
	require.NoError(t, os.WriteFile(filepath.Join(in, "c.png"), []byte("broken"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.txt"), []byte("skip"), 0o644))

	inputs, err := FindImages(in)
	require.NoError(t, err)
	require.Len(t, inputs, 3)

	out := filepath.Join(tmp, "out")
	results, err := Batch(context.Background(), inputs, out, grid.Shape1x3, DefaultConfig(), 2, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "c.png")

	require.Len(t, results, 3)
	require.NotNil(t, results[0])
	require.NotNil(t, results[1])
	assert.Nil(t, results[2])
	assert.Equal(t, filepath.Join(out, "a"), results[0].Dir)
	assert.FileExists(t, filepath.Join(out, "b", "grid-3x1-3.png"))
}

func TestBatchCancelled(t *testing.T) {
	tmp := t.TempDir()
	src := writeSource(t, tmp, "a.png", 90, 90)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Batch(ctx, []string{src, src}, filepath.Join(tmp, "out"), grid.Shape1x3, DefaultConfig(), 1, nil)
	assert.Error(t, err)
}

func TestStitch(t *testing.T) {
	tmp := t.TempDir()
	src := writeSource(t, tmp, "photo.png", 300, 300)
	out := filepath.Join(tmp, "out")
	res, err := Image(context.Background(), src, out, grid.Shape3x3, DefaultConfig(), nil)
	require.NoError(t, err)

	paths := make([]string, len(res.Cells))
	for i, name := range res.Cells {
		paths[i] = filepath.Join(out, name)
	}
	stitched := filepath.Join(tmp, "stitched.png")
	preview, err := Stitch(context.Background(), paths, grid.Shape3x3, grid.DefaultOptions(), stitched)
	require.NoError(t, err)

	want, err := os.ReadFile(filepath.Join(out, PreviewName))
	require.NoError(t, err)
	assert.Equal(t, want, preview.Data)
	assert.FileExists(t, stitched)

	_, err = Stitch(context.Background(), paths[:4], grid.Shape2x3, grid.DefaultOptions(), stitched)
	assert.True(t, grid.IsCode(err, grid.ErrCodeShapeMismatch), "got %v", err)
}

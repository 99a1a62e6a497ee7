package grid

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompositor(t *testing.T, opts Options) *Compositor {
	t.Helper()
	c, err := NewCompositor(opts, nil)
	require.NoError(t, err)
	return c
}

func TestCompositeDimensions(t *testing.T) {
	src := gradient(301, 200)
	cells := mustSlice(t, src, Shape2x3, testOptions(16))
	preview, err := mustCompositor(t, testOptions(16)).Composite(context.Background(), cells, Shape2x3)
	require.NoError(t, err)
	assert.Equal(t, 100*3, preview.Image.Bounds().Dx())
	assert.Equal(t, 100*2, preview.Image.Bounds().Dy())
}

func TestCompositeShapeMismatch(t *testing.T) {
	cells := mustSlice(t, gradient(300, 200), Shape2x3, testOptions(16))
	_, err := mustCompositor(t, testOptions(16)).Composite(context.Background(), cells[:4], Shape2x3)
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeShapeMismatch), "got %v", err)
}

func TestCompositeWrongOrder(t *testing.T) {
	cells := mustSlice(t, gradient(300, 100), Shape1x3, testOptions(16))
	cells[0], cells[2] = cells[2], cells[0]
	_, err := mustCompositor(t, testOptions(16)).Composite(context.Background(), cells, Shape1x3)
	assert.True(t, IsCode(err, ErrCodeShapeMismatch), "got %v", err)
}

func TestCompositeCellNarrowerThanMargin(t *testing.T) {
	cells := mustSlice(t, gradient(90, 30), Shape1x3, testOptions(0))
	_, err := mustCompositor(t, testOptions(16)).Composite(context.Background(), cells, Shape1x3)
	assert.True(t, IsCode(err, ErrCodeShapeMismatch), "got %v", err)
}

func TestCompositeInvalidShape(t *testing.T) {
	_, err := mustCompositor(t, testOptions(16)).Composite(context.Background(), nil, Shape(0))
	assert.True(t, IsCode(err, ErrCodeInvalidInput), "got %v", err)
}

func TestCompositeFromDecodedCells(t *testing.T) {
	src := gradient(300, 300)
	cells, preview, err := Run(context.Background(), src, Shape3x3, testOptions(16), nil)
	require.NoError(t, err)

	buffers := make([][]byte, len(cells))
	for i, c := range cells {
		buffers[i] = c.Data
	}
	decoded, err := DecodeCells(buffers)
	require.NoError(t, err)

	for i := range decoded {
		decoded[i].Image = nil
	}
	again, err := mustCompositor(t, testOptions(16)).Composite(context.Background(), decoded, Shape3x3)
	require.NoError(t, err)
	assert.Equal(t, preview.Image.Pix, again.Image.Pix)
	assert.Equal(t, preview.Data, again.Data)
}

func TestDecodeCellsRejectsGarbage(t *testing.T) {
	_, err := DecodeCells([][]byte{[]byte("not a png")})
	assert.True(t, IsCode(err, ErrCodeInvalidInput), "got %v", err)
}

func TestCompositeEmptyCell(t *testing.T) {
	cells := CellSequence{{Row: 0, Col: 0}, {Row: 0, Col: 1, Index: 1}, {Row: 0, Col: 2, Index: 2}}
	_, err := mustCompositor(t, testOptions(16)).Composite(context.Background(), cells, Shape1x3)
	assert.True(t, IsCode(err, ErrCodeInvalidInput), "got %v", err)
}

func TestCompositeStripPoliciesAgree(t *testing.T) {
	// Trailing margins are painted red; both policies must hide them.
	red := color.NRGBA{R: 255, A: 255}
	cells := make(CellSequence, 3)
	for i := range cells {
		lead, trail := margins(i, 2)
		w := 10 + lead + trail
		img := image.NewNRGBA(image.Rect(0, 0, w, 4))
		for y := 0; y < 4; y++ {
			for x := 0; x < w; x++ {
				c := color.NRGBA{G: uint8(i * 80), A: 255}
				if x >= w-trail {
					c = red
				}
				img.SetNRGBA(x, y, c)
			}
		}
		cells[i] = Cell{Row: 0, Col: i, Index: i, Image: img}
	}

	var out [][]byte
	for _, policy := range []StripPolicy{StripLeading, StripBoth} {
		opts := testOptions(2)
		opts.Strip = policy
		preview, err := mustCompositor(t, opts).Composite(context.Background(), cells, Shape1x3)
		require.NoError(t, err)
		require.Equal(t, image.Rect(0, 0, 30, 4), preview.Image.Bounds(), string(policy))
		for x := 0; x < 30; x++ {
			assert.NotEqual(t, red, preview.Image.NRGBAAt(x, 2), "%s x=%d", policy, x)
		}
		out = append(out, preview.Image.Pix)
	}
	assert.Equal(t, out[0], out[1])
}

func TestCompositeCancelled(t *testing.T) {
	cells := mustSlice(t, gradient(300, 100), Shape1x3, testOptions(16))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := mustCompositor(t, testOptions(16)).Composite(ctx, cells, Shape1x3)
	assert.ErrorIs(t, err, context.Canceled)
}

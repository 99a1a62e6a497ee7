package grid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShape(t *testing.T) {
	tests := []struct {
		in      string
		want    Shape
		wantErr bool
	}{
		{in: "3x1", want: Shape1x3},
		{in: "1x3", want: Shape1x3},
		{in: "3x2", want: Shape2x3},
		{in: "2X3", want: Shape2x3},
		{in: "3×3", want: Shape3x3},
		{in: " 2 ", want: Shape2x3},
		{in: "3x4", wantErr: true},
		{in: "2x2", wantErr: true},
		{in: "0", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "3x3x3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseShape(tt.in)
			if tt.wantErr {
				assert.True(t, IsCode(err, ErrCodeInvalidInput), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShapeText(t *testing.T) {
	assert.Equal(t, "3x2", Shape2x3.String())
	assert.Equal(t, 6, Shape2x3.Cells())
	assert.Equal(t, 3, Shape1x3.Cols())

	var s Shape
	require.NoError(t, s.UnmarshalText([]byte("3x3")))
	assert.Equal(t, Shape3x3, s)
	text, err := s.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "3x3", string(text))
}

func TestMargins(t *testing.T) {
	lead, trail := margins(0, 16)
	assert.Equal(t, [2]int{0, 16}, [2]int{lead, trail})
	lead, trail = margins(1, 16)
	assert.Equal(t, [2]int{16, 16}, [2]int{lead, trail})
	lead, trail = margins(2, 16)
	assert.Equal(t, [2]int{16, 0}, [2]int{lead, trail})
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "1행 1열 (1번째 업로드)", Label(0))
	assert.Equal(t, "1행 3열 (3번째 업로드)", Label(2))
	assert.Equal(t, "2행 2열 (5번째 업로드)", Label(4))
	assert.Equal(t, "3행 3열 (9번째 업로드)", Label(8))
	assert.Equal(t, "grid-3x2-4.png", FileName(Shape2x3, 3))
}

func TestParseAspect(t *testing.T) {
	tests := map[string]float64{"": 0, "none": 0, "1": 1, "4:5": 0.8, "16/9": 16.0 / 9.0, "0.5": 0.5}
	for in, want := range tests {
		got, err := ParseAspect(in)
		require.NoError(t, err, in)
		assert.InDelta(t, want, got, 1e-9, in)
	}
	for _, in := range []string{"x", "4:0", "-1", "a:b"} {
		_, err := ParseAspect(in)
		assert.Error(t, err, in)
	}
}

func TestParseModes(t *testing.T) {
	m, err := ParseCropMode("SMART")
	require.NoError(t, err)
	assert.Equal(t, CropSmart, m)
	m, err = ParseCropMode("none")
	require.NoError(t, err)
	assert.Equal(t, CropNone, m)
	_, err = ParseCropMode("fill")
	assert.Error(t, err)

	p, err := ParseStripPolicy("")
	require.NoError(t, err)
	assert.Equal(t, StripLeading, p)
	_, err = ParseStripPolicy("trailing")
	assert.Error(t, err)
}

func TestOptionsValidate(t *testing.T) {
	opts := DefaultOptions()
	assert.NoError(t, opts.Validate())

	opts.Strip = "sideways"
	assert.True(t, IsCode(opts.Validate(), ErrCodeInvalidInput))

	opts = DefaultOptions()
	opts.CellAspect = -1
	assert.Error(t, opts.Validate())
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("boom")
	err := wrapError(ErrCodeEncodeFailure, cause, "cell %d", 3)
	assert.Equal(t, "ENCODE_FAILURE: cell 3: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrCodeEncodeFailure, CodeOf(err))
	assert.Equal(t, Code(""), CodeOf(cause))
	assert.False(t, IsCode(cause, ErrCodeEncodeFailure))
}

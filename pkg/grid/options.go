package grid

import (
	"image/color"
	"runtime"
	"strconv"
	"strings"
)

// DefaultMargin is the gutter compensation observed on the destination feed.
const DefaultMargin = 16

// CropMode picks how the source is trimmed to a target cell aspect ratio.
type CropMode string

const (
	CropNone   CropMode = ""
	CropCenter CropMode = "center"
	CropSmart  CropMode = "smart"
)

// StripPolicy controls how the compositor removes overlap margins.
type StripPolicy string

const (
	// StripLeading drops each cell's leading margin and lets the next cell
	// paint over the trailing one.
	StripLeading StripPolicy = "leading"
	// StripBoth draws only the region between both margins.
	StripBoth StripPolicy = "both"
)

// Options configures both the Slicer and the Compositor. The zero value is
// not usable; start from DefaultOptions.
type Options struct {
	Margin     int         // overlap pixels at each interior column boundary
	CellAspect float64     // width/height of a base cell; 0 keeps the source ratio
	Crop       CropMode    // how to reach CellAspect
	Strip      StripPolicy // compositor margin removal
	Background color.Color // fill for pixels outside the source
	Workers    int         // parallel cell renders; <= 0 means GOMAXPROCS
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Margin:     DefaultMargin,
		Crop:       CropCenter,
		Strip:      StripLeading,
		Background: color.White,
		Workers:    runtime.GOMAXPROCS(0),
	}
}

// Validate checks the options without touching any image.
func (o Options) Validate() error {
	if o.Margin < 0 {
		return newError(ErrCodeInvalidInput, "margin must be >= 0, got %d", o.Margin)
	}
	if o.CellAspect < 0 {
		return newError(ErrCodeInvalidInput, "cell aspect must be >= 0, got %g", o.CellAspect)
	}
	switch o.Crop {
	case CropNone, CropCenter, CropSmart:
	default:
		return newError(ErrCodeInvalidInput, "unknown crop mode %q", o.Crop)
	}
	switch o.Strip {
	case StripLeading, StripBoth:
	default:
		return newError(ErrCodeInvalidInput, "unknown strip policy %q", o.Strip)
	}
	return nil
}

func (o Options) background() color.Color {
	if o.Background == nil {
		return color.White
	}
	return o.Background
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

// ParseCropMode maps a flag value onto a CropMode. "none" and "" disable cropping.
func ParseCropMode(s string) (CropMode, error) {
	switch m := CropMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "none", CropNone:
		return CropNone, nil
	case CropCenter, CropSmart:
		return m, nil
	default:
		return "", newError(ErrCodeInvalidInput, "unknown crop mode %q (want none, center or smart)", s)
	}
}

// ParseStripPolicy maps a flag value onto a StripPolicy.
func ParseStripPolicy(s string) (StripPolicy, error) {
	switch p := StripPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return StripLeading, nil
	case StripLeading, StripBoth:
		return p, nil
	default:
		return "", newError(ErrCodeInvalidInput, "unknown strip policy %q (want leading or both)", s)
	}
}

// ParseAspect reads a ratio written as "4:5", "4/5" or "0.8".
func ParseAspect(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" || s == "none" {
		return 0, nil
	}
	for _, sep := range []string{":", "/"} {
		if a, b, ok := strings.Cut(s, sep); ok {
			w, errW := strconv.ParseFloat(a, 64)
			h, errH := strconv.ParseFloat(b, 64)
			if errW != nil || errH != nil || w <= 0 || h <= 0 {
				return 0, newError(ErrCodeInvalidInput, "invalid aspect ratio %q", s)
			}
			return w / h, nil
		}
	}
	r, err := strconv.ParseFloat(s, 64)
	if err != nil || r <= 0 {
		return 0, newError(ErrCodeInvalidInput, "invalid aspect ratio %q", s)
	}
	return r, nil
}

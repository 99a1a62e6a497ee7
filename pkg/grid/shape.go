package grid

import (
	"fmt"
	"strconv"
	"strings"
)

// Columns is fixed: the feed grid is always three posts wide.
const Columns = 3

// Shape selects how many rows of three cells the image is cut into.
type Shape int

const (
	Shape1x3 Shape = 1
	Shape2x3 Shape = 2
	Shape3x3 Shape = 3
)

// Shapes lists every supported shape in ascending row count.
var Shapes = []Shape{Shape1x3, Shape2x3, Shape3x3}

func (s Shape) Rows() int  { return int(s) }
func (s Shape) Cols() int  { return Columns }
func (s Shape) Cells() int { return int(s) * Columns }

// Valid reports whether s has between one and three rows.
func (s Shape) Valid() bool {
	return s >= Shape1x3 && s <= Shape3x3
}

// String renders the shape columns-first, e.g. "3x2", matching exported file names.
func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", Columns, int(s))
}

// ParseShape accepts "3x2", "2x3" or a bare row count such as "2".
func ParseShape(s string) (Shape, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "×", "x")

	var rows string
	switch parts := strings.Split(s, "x"); len(parts) {
	case 1:
		rows = parts[0]
	case 2:
		switch {
		case parts[0] == "3":
			rows = parts[1]
		case parts[1] == "3":
			rows = parts[0]
		default:
			return 0, newError(ErrCodeInvalidInput, "unsupported grid shape %q: one side must be 3", s)
		}
	default:
		return 0, newError(ErrCodeInvalidInput, "invalid grid shape %q", s)
	}

	n, err := strconv.Atoi(rows)
	if err != nil {
		return 0, wrapError(ErrCodeInvalidInput, err, "invalid grid shape %q", s)
	}
	shape := Shape(n)
	if !shape.Valid() {
		return 0, newError(ErrCodeInvalidInput, "unsupported grid shape %q: rows must be 1-3", s)
	}
	return shape, nil
}

// Set implements pflag.Value so a Shape can be bound directly to a flag.
func (s *Shape) Set(v string) error {
	shape, err := ParseShape(v)
	if err != nil {
		return err
	}
	*s = shape
	return nil
}

// Type implements pflag.Value.
func (s *Shape) Type() string { return "shape" }

// UnmarshalText lets TOML profiles spell the shape as a string.
func (s *Shape) UnmarshalText(text []byte) error {
	return s.Set(string(text))
}

func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// position maps a row-major index to its row and column.
func position(index int) (row, col int) {
	return index / Columns, index % Columns
}

// margins returns how many margin pixels sit on the left and right of a cell in col.
// Edge columns only overlap their single neighbour.
func margins(col, margin int) (lead, trail int) {
	if col > 0 {
		lead = margin
	}
	if col < Columns-1 {
		trail = margin
	}
	return lead, trail
}

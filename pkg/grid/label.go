package grid

import "fmt"

// Label is the upload instruction shown for the cell at index, e.g.
// "1행 2열 (2번째 업로드)". The wording is what users follow when posting.
func Label(index int) string {
	row, col := position(index)
	return fmt.Sprintf("%d행 %d열 (%d번째 업로드)", row+1, col+1, index+1)
}

// FileName is the export name of the cell at index, e.g. "grid-3x2-4.png".
func FileName(shape Shape, index int) string {
	return fmt.Sprintf("grid-%s-%d.png", shape, index+1)
}

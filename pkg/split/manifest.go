package split

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"

	"github.com/PhantomInTheWire/feed-grid/pkg/grid"
)

// ArchiveName is the zip file name for a shape, e.g. "grid-3x2.zip".
func ArchiveName(shape grid.Shape) string {
	return fmt.Sprintf("grid-%s.zip", shape)
}

// WriteManifest writes one "file<TAB>label" line per cell in upload order.
func WriteManifest(w io.Writer, shape grid.Shape, cells grid.CellSequence) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s grid: upload in this order\n", shape)
	for _, cell := range cells {
		fmt.Fprintf(bw, "%s\t%s\n", cell.FileName(shape), cell.Label())
	}
	return bw.Flush()
}

// Archive writes cells, preview and manifest into a single zip stream.
// PNG entries are stored as-is; only the manifest is deflated.
func Archive(w io.Writer, shape grid.Shape, cells grid.CellSequence, preview *grid.Preview) error {
	zw := zip.NewWriter(w)

	store := func(name string, data []byte) error {
		f, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
		if err != nil {
			return err
		}
		_, err = f.Write(data)
		return err
	}

	for _, cell := range cells {
		if err := store(cell.FileName(shape), cell.Data); err != nil {
			zw.Close()
			return fmt.Errorf("archive %s: %w", cell.FileName(shape), err)
		}
	}
	if preview != nil {
		if err := store(PreviewName, preview.Data); err != nil {
			zw.Close()
			return fmt.Errorf("archive %s: %w", PreviewName, err)
		}
	}

	mf, err := zw.CreateHeader(&zip.FileHeader{Name: ManifestName, Method: zip.Deflate})
	if err != nil {
		zw.Close()
		return err
	}
	if err := WriteManifest(mf, shape, cells); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

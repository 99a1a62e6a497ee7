package split

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/PhantomInTheWire/feed-grid/pkg/grid"
)

// imageExts are the formats imaging.Open can decode.
var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true,
}

// FindImages walks dir and returns every decodable image file, sorted.
func FindImages(dir string) ([]string, error) {
	var inputs []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && imageExts[strings.ToLower(filepath.Ext(p))] {
			inputs = append(inputs, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(inputs)
	return inputs, nil
}

// OutputDir is where Batch writes the grid for input: outDir/<input base name>.
func OutputDir(outDir, input string) string {
	base := filepath.Base(input)
	return filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base)))
}

// Batch splits every input with a pool of workers. Results are in input order;
// a failed input leaves a nil entry and contributes to the joined error.
func Batch(ctx context.Context, inputs []string, outDir string, shape grid.Shape, cfg Config, workers int, logger *log.Logger) ([]*Result, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if workers <= 0 {
		workers = 1
	}

	type task struct {
		idx  int
		path string
	}
	type result struct {
		idx int
		res *Result
		err error
	}

	tasks := make(chan task)
	results := make(chan result, len(inputs))

	for i := 0; i < workers; i++ {
		go func() {
			for t := range tasks {
				res, err := Image(ctx, t.path, OutputDir(outDir, t.path), shape, cfg, logger)
				results <- result{t.idx, res, err}
			}
		}()
	}

	go func() {
		defer close(tasks)
		for i, p := range inputs {
			select {
			case tasks <- task{i, p}:
			case <-ctx.Done():
				return
			}
		}
	}()

	out := make([]*Result, len(inputs))
	errs := make([]error, len(inputs))
	for range inputs {
		select {
		case r := <-results:
			out[r.idx] = r.res
			if r.err != nil {
				errs[r.idx] = fmt.Errorf("%s: %w", inputs[r.idx], r.err)
				logger.Error("split failed", "source", inputs[r.idx], "err", r.err)
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return out, errors.Join(errs...)
}

// Command local-bench slices every image under $SHARED_DIR/input and reports
// how long the whole batch took.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/PhantomInTheWire/feed-grid/pkg/config"
	"github.com/PhantomInTheWire/feed-grid/pkg/split"
)

var (
	sharedDir  = config.Env("SHARED_DIR", "../../shared")
	inputDir   = filepath.Join(sharedDir, "input")
	outputDir  = filepath.Join(sharedDir, "output")
	maxWorkers = config.EnvInt("MAX_WORKERS", 8)
	rounds     = config.EnvInt("BENCH_ROUNDS", 1)
)

func checkErr(logger *log.Logger, err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, TimeFormat: "15:04:05.00"})
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load(os.Getenv("GRID_PROFILE"))
	checkErr(logger, err)
	sc, err := cfg.SplitConfig()
	checkErr(logger, err)

	checkErr(logger, os.RemoveAll(outputDir))
	checkErr(logger, os.MkdirAll(outputDir, 0o755))

	inputs, err := split.FindImages(inputDir)
	checkErr(logger, err)
	if len(inputs) == 0 {
		logger.Warn("no images", "dir", inputDir)
		return
	}

	logger.Info("bench start", "images", len(inputs), "workers", maxWorkers, "rounds", rounds, "shape", cfg.Shape.String())

	var total time.Duration
	for r := 0; r < rounds; r++ {
		start := time.Now()
		_, err := split.Batch(ctx, inputs, outputDir, cfg.Shape, sc, maxWorkers, logger)
		elapsed := time.Since(start)
		total += elapsed
		if err != nil {
			logger.Error("round failed", "round", r+1, "err", err)
		}
		logger.Info("round done", "round", r+1, "elapsed", elapsed.Round(time.Millisecond),
			"per_image", (elapsed / time.Duration(len(inputs))).Round(time.Microsecond))
	}

	logger.Info("done", "avg_round", (total / time.Duration(rounds)).Round(time.Millisecond), "output", outputDir)
}

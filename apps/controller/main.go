// Command controller slices one image and publishes the resulting bundle to
// MinIO in a single step. It is configured entirely through the environment:
// GRID_PROFILE points at an optional TOML profile, GRID_* and MINIO_*
// override it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/PhantomInTheWire/feed-grid/pkg/config"
	"github.com/PhantomInTheWire/feed-grid/pkg/split"
	"github.com/PhantomInTheWire/feed-grid/pkg/storage"
)

var invalidKeyChars = regexp.MustCompile(`[^a-z0-9-]`)

// sanitizePrefix turns an image path into a unique, URL-safe object prefix.
func sanitizePrefix(base, image string, id uuid.UUID) string {
	name := strings.TrimSuffix(filepath.Base(image), filepath.Ext(image))
	name = invalidKeyChars.ReplaceAllString(strings.ToLower(name), "-")
	name = strings.Trim(name, "-")
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" {
		name = "grid"
	}
	key := fmt.Sprintf("%s-%s", name, id.String()[:8])
	if base != "" {
		key = strings.TrimSuffix(base, "/") + "/" + key
	}
	return key
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, TimeFormat: "15:04:05.00"})

	if len(os.Args) < 2 {
		fmt.Println("Usage: controller <image-path>")
		os.Exit(1)
	}
	imagePath := os.Args[1]

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, imagePath, logger); err != nil {
		logger.Fatal("controller failed", "err", err)
	}
}

func run(ctx context.Context, imagePath string, logger *log.Logger) error {
	cfg, err := config.Load(os.Getenv("GRID_PROFILE"))
	if err != nil {
		return err
	}
	if !cfg.Storage.Enabled() {
		return fmt.Errorf("MINIO_ENDPOINT and MINIO_BUCKET must be set")
	}
	sc, err := cfg.SplitConfig()
	if err != nil {
		return err
	}
	sc.Zip = true

	prefix := sanitizePrefix(cfg.Storage.Prefix, imagePath, uuid.New())
	outDir := filepath.Join(config.Env("SHARED_DIR", "./shared"), "grids", filepath.Base(prefix))

	res, err := split.Image(ctx, imagePath, outDir, cfg.Shape, sc, logger)
	if err != nil {
		return fmt.Errorf("error splitting image: %w", err)
	}
	logger.Info("grid created", "cells", res.Cells, "dir", outDir)

	storeCfg := cfg.Storage
	storeCfg.Prefix = prefix
	u, err := storage.New(ctx, storeCfg, logger)
	if err != nil {
		return err
	}
	keys, err := u.UploadDir(ctx, outDir)
	if err != nil {
		return fmt.Errorf("failed to upload grid to MinIO: %w", err)
	}
	for _, k := range keys {
		logger.Info("uploaded", "key", k)
	}
	fmt.Printf("%s/%s/%s\n", strings.TrimSuffix(storeCfg.Endpoint, "/"), storeCfg.Bucket, u.Key(res.Archive))
	return nil
}

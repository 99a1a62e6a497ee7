package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/PhantomInTheWire/feed-grid/pkg/config"
	"github.com/PhantomInTheWire/feed-grid/pkg/grid"
	"github.com/PhantomInTheWire/feed-grid/pkg/split"
	"github.com/PhantomInTheWire/feed-grid/pkg/storage"
)

func (c *cli) sliceCommand() *cobra.Command {
	var (
		flags  gridFlags
		zip    bool
		debug  bool
		upload bool
	)

	cmd := &cobra.Command{
		Use:   "slice <image>",
		Short: "Cut an image into feed posts plus a preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.load(cmd, &flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("zip") {
				cfg.Zip = zip
			}
			if cmd.Flags().Changed("debug") {
				cfg.Debug = debug
			}
			return c.runSlice(cmd.Context(), cmd.OutOrStdout(), args[0], cfg, upload)
		},
	}

	bindGridFlags(cmd, &flags)
	cmd.Flags().BoolVar(&zip, "zip", false, "also bundle the output into a zip archive")
	cmd.Flags().BoolVar(&debug, "debug", false, "also write copies with margins highlighted")
	cmd.Flags().BoolVar(&upload, "upload", false, "publish the output to the configured MinIO bucket")
	return cmd
}

func (c *cli) runSlice(ctx context.Context, out io.Writer, input string, cfg config.Config, upload bool) error {
	sc, err := cfg.SplitConfig()
	if err != nil {
		return err
	}

	p := newProgress(c.logger)
	res, err := split.Image(ctx, input, cfg.Output, cfg.Shape, sc, c.logger)
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Sliced %s into %d posts", filepath.Base(input), len(res.Cells)))

	printOrder(out, res)

	if upload {
		return c.publish(ctx, cfg.Storage, res.Dir)
	}
	return nil
}

// printOrder lists each exported file next to its upload instruction.
func printOrder(out io.Writer, res *split.Result) {
	for i, name := range res.Cells {
		fmt.Fprintf(out, "%s\t%s\n", filepath.Join(res.Dir, name), grid.Label(i))
	}
	if res.Preview != "" {
		fmt.Fprintf(out, "%s\tpreview\n", filepath.Join(res.Dir, res.Preview))
	}
	if res.Archive != "" {
		fmt.Fprintf(out, "%s\tarchive\n", filepath.Join(res.Dir, res.Archive))
	}
}

func (c *cli) publish(ctx context.Context, cfg storage.Config, dir string) error {
	if !cfg.Enabled() {
		return fmt.Errorf("upload requested but no storage endpoint/bucket configured (set MINIO_ENDPOINT and MINIO_BUCKET or [storage] in the profile)")
	}
	u, err := storage.New(ctx, cfg, c.logger)
	if err != nil {
		return err
	}
	keys, err := u.UploadDir(ctx, dir)
	if err != nil {
		return err
	}
	c.logger.Info("published", "bucket", cfg.Bucket, "objects", len(keys))
	return nil
}

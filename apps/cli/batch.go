package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/PhantomInTheWire/feed-grid/pkg/split"
)

func (c *cli) batchCommand() *cobra.Command {
	var (
		flags gridFlags
		jobs  int
	)

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Slice every image in a directory, one output folder per image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.load(cmd, &flags)
			if err != nil {
				return err
			}
			sc, err := cfg.SplitConfig()
			if err != nil {
				return err
			}

			inputs, err := split.FindImages(args[0])
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				c.logger.Warn("no images found", "dir", args[0])
				return nil
			}

			c.logger.Info("batch start", "images", len(inputs), "jobs", jobs, "shape", cfg.Shape.String())
			p := newProgress(c.logger)
			results, err := split.Batch(cmd.Context(), inputs, cfg.Output, cfg.Shape, sc, jobs, c.logger)
			done := 0
			for _, res := range results {
				if res != nil {
					done++
					printOrder(cmd.OutOrStdout(), res)
				}
			}
			p.done(fmt.Sprintf("Sliced %d of %d images", done, len(inputs)))
			return err
		},
	}

	bindGridFlags(cmd, &flags)
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.GOMAXPROCS(0), "images processed concurrently")
	return cmd
}

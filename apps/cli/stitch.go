package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PhantomInTheWire/feed-grid/pkg/grid"
	"github.com/PhantomInTheWire/feed-grid/pkg/split"
)

func (c *cli) stitchCommand() *cobra.Command {
	var flags gridFlags

	cmd := &cobra.Command{
		Use:   "stitch <cell.png>...",
		Short: "Rebuild the feed preview from exported posts, given in upload order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.load(cmd, &flags)
			if err != nil {
				return err
			}
			// Without --shape, infer the row count from the number of cells.
			if !cmd.Flags().Changed("shape") && len(args)%grid.Columns == 0 {
				if s := grid.Shape(len(args) / grid.Columns); s.Valid() {
					cfg.Shape = s
				}
			}
			out := cfg.Output
			if !cmd.Flags().Changed("output") {
				out = split.PreviewName
			}

			opts, err := cfg.GridOptions()
			if err != nil {
				return err
			}
			p := newProgress(c.logger)
			preview, err := split.Stitch(cmd.Context(), args, cfg.Shape, opts, out)
			if err != nil {
				return err
			}
			b := preview.Image.Bounds()
			p.done(fmt.Sprintf("Stitched %d posts into %s (%dx%d)", len(args), out, b.Dx(), b.Dy()))
			return nil
		},
	}

	bindGridFlags(cmd, &flags)
	return cmd
}

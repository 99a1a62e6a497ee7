package main

import (
	"github.com/spf13/cobra"

	"github.com/PhantomInTheWire/feed-grid/pkg/config"
	"github.com/PhantomInTheWire/feed-grid/pkg/grid"
)

// gridFlags are the slicing flags shared by every command. They only
// override the profile when given explicitly.
type gridFlags struct {
	shape   grid.Shape
	margin  int
	aspect  string
	crop    string
	strip   string
	workers int
	output  string
}

func bindGridFlags(cmd *cobra.Command, f *gridFlags) {
	f.shape = grid.Shape2x3
	cmd.Flags().VarP(&f.shape, "shape", "s", "grid shape: 3x1, 3x2 or 3x3")
	cmd.Flags().IntVarP(&f.margin, "margin", "m", grid.DefaultMargin, "overlap pixels at each interior column boundary")
	cmd.Flags().StringVar(&f.aspect, "aspect", "", "crop so every cell has this ratio, e.g. 1:1 or 4:5")
	cmd.Flags().StringVar(&f.crop, "crop", "center", "crop strategy for --aspect: center, smart")
	cmd.Flags().StringVar(&f.strip, "strip", string(grid.StripLeading), "preview margin removal: leading, both")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "parallel renders (0 = GOMAXPROCS)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output path")
}

// load reads the profile then layers the explicitly set flags on top.
func (c *cli) load(cmd *cobra.Command, f *gridFlags) (config.Config, error) {
	cfg, err := config.Load(c.profile)
	if err != nil {
		return cfg, err
	}
	set := cmd.Flags().Changed
	if set("shape") {
		cfg.Shape = f.shape
	}
	if set("margin") {
		cfg.Margin = f.margin
	}
	if set("aspect") {
		cfg.Aspect = f.aspect
	}
	if set("crop") {
		cfg.Crop = f.crop
	}
	if set("strip") {
		cfg.Strip = f.strip
	}
	if set("workers") {
		cfg.Workers = f.workers
	}
	if set("output") {
		cfg.Output = f.output
	}
	return cfg, nil
}

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/PhantomInTheWire/feed-grid/pkg/buildinfo"
	"github.com/PhantomInTheWire/feed-grid/pkg/config"
)

type cli struct {
	stderr  io.Writer
	logger  *log.Logger
	verbose bool
	profile string
	logFile string
}

func newCLI(stderr io.Writer) *cli {
	return &cli{stderr: stderr, logger: newLogger(stderr, log.InfoLevel)}
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "feedgrid",
		Short:         "Slice an image into a seamless 3-column feed grid",
		Long:          `feedgrid cuts one image into 3, 6 or 9 posts. Each post overlaps its neighbours by a margin that the feed's gutter hides, so the profile grid looks like one continuous picture.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setupLogging()
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.profile, "config", "", "TOML profile with slicing defaults")
	root.PersistentFlags().StringVar(&c.logFile, "log-file", "", "also write logs to this rotated file")

	root.AddCommand(c.sliceCommand())
	root.AddCommand(c.stitchCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.versionCommand())
	return root
}

func (c *cli) setupLogging() error {
	level := log.InfoLevel
	if c.verbose {
		level = log.DebugLevel
	}

	logFile := c.logFile
	if logFile == "" && c.profile != "" {
		cfg, err := config.Load(c.profile)
		if err != nil {
			return err
		}
		logFile = cfg.LogFile
	}

	w := c.stderr
	if logFile != "" {
		w = io.MultiWriter(c.stderr, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // MB
			MaxBackups: 2,
			MaxAge:     28, // days
		})
	}
	c.logger = newLogger(w, level)
	return nil
}

func (c *cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
}

// progress logs completion of an operation along with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

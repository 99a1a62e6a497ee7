// Package config loads slicing profiles from TOML and the environment.
//
// Precedence, lowest first: built-in defaults, the TOML profile, environment
// variables. Command-line flags are applied on top by the caller.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/PhantomInTheWire/feed-grid/pkg/grid"
	"github.com/PhantomInTheWire/feed-grid/pkg/split"
	"github.com/PhantomInTheWire/feed-grid/pkg/storage"
)

// Config is one slicing profile.
type Config struct {
	Shape   grid.Shape `toml:"shape"`
	Margin  int        `toml:"margin"`
	Aspect  string     `toml:"aspect"` // per-cell ratio such as "1:1" or "4:5"; empty keeps the source
	Crop    string     `toml:"crop"`   // none, center, smart
	Strip   string     `toml:"strip"`  // leading, both
	Workers int        `toml:"workers"`
	Output  string     `toml:"output"`
	Zip     bool       `toml:"zip"`
	Debug   bool       `toml:"debug"`
	LogFile string     `toml:"log_file"`

	Storage storage.Config `toml:"storage"`
}

// Default mirrors grid.DefaultOptions with a 3x2 grid written to ./grid.
func Default() Config {
	opts := grid.DefaultOptions()
	return Config{
		Shape:   grid.Shape2x3,
		Margin:  opts.Margin,
		Crop:    string(opts.Crop),
		Strip:   string(opts.Strip),
		Workers: opts.Workers,
		Output:  "grid",
		Storage: storage.Config{Region: "us-east-1"},
	}
}

// Load starts from Default, decodes the profile at path when path is not
// empty, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return cfg, fmt.Errorf("load profile %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("load profile %s: unknown key %q", path, undecoded[0].String())
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from GRID_* and MINIO_* variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("GRID_SHAPE"); v != "" {
		if err := c.Shape.Set(v); err != nil {
			return fmt.Errorf("GRID_SHAPE: %w", err)
		}
	}
	c.Margin = EnvInt("GRID_MARGIN", c.Margin)
	c.Aspect = Env("GRID_ASPECT", c.Aspect)
	c.Crop = Env("GRID_CROP", c.Crop)
	c.Strip = Env("GRID_STRIP", c.Strip)
	c.Workers = EnvInt("GRID_WORKERS", c.Workers)
	c.Output = Env("GRID_OUTPUT", c.Output)
	c.LogFile = Env("GRID_LOG_FILE", c.LogFile)

	c.Storage.Endpoint = Env("MINIO_ENDPOINT", c.Storage.Endpoint)
	c.Storage.Region = Env("MINIO_REGION", c.Storage.Region)
	c.Storage.AccessKey = Env("MINIO_ACCESS_KEY", c.Storage.AccessKey)
	c.Storage.SecretKey = Env("MINIO_SECRET_KEY", c.Storage.SecretKey)
	c.Storage.Bucket = Env("MINIO_BUCKET", c.Storage.Bucket)
	c.Storage.Prefix = Env("MINIO_PREFIX", c.Storage.Prefix)
	return nil
}

// GridOptions converts the profile into validated grid options.
func (c Config) GridOptions() (grid.Options, error) {
	opts := grid.DefaultOptions()
	opts.Margin = c.Margin
	opts.Workers = c.Workers

	var err error
	if opts.CellAspect, err = grid.ParseAspect(c.Aspect); err != nil {
		return opts, err
	}
	if opts.Crop, err = grid.ParseCropMode(c.Crop); err != nil {
		return opts, err
	}
	if opts.Strip, err = grid.ParseStripPolicy(c.Strip); err != nil {
		return opts, err
	}
	return opts, opts.Validate()
}

// SplitConfig converts the profile into what split.Image expects.
func (c Config) SplitConfig() (split.Config, error) {
	opts, err := c.GridOptions()
	if err != nil {
		return split.Config{}, err
	}
	return split.Config{Grid: opts, Zip: c.Zip, Debug: c.Debug}, nil
}

// Env returns the variable key, or fallback when it is unset or empty.
func Env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnvInt is Env for integers; unparsable values fall back silently.
func EnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

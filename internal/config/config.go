// Package config loads the probnum CLI configuration.
//
// Sources, lowest precedence first: built-in defaults, a YAML file
// (probnum.yaml or --config), PROBNUM_* environment variables and explicitly
// set command-line flags.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/mahdi-shafiei/probnum/internal/parallel"
)

// Output formats.
const (
	OutputTable = "table"
	OutputYAML  = "yaml"
	OutputJSON  = "json"
)

// Defaults.
const (
	DefaultFile      = "probnum.yaml"
	DefaultOutput    = OutputTable
	DefaultLogLevel  = "warn"
	DefaultPrecision = 6
	EnvPrefix        = "PROBNUM_"
)

// ErrInvalidConfig is returned when a loaded value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all CLI configuration options.
type Config struct {
	Output    string   `koanf:"output"`
	LogLevel  string   `koanf:"log_level"`
	Precision int      `koanf:"precision"`
	Parallel  Parallel `koanf:"parallel"`

	// FileUsed is the configuration file that was read, if any.
	FileUsed string `koanf:"-"`
}

// Parallel configures the array and operator kernels.
type Parallel struct {
	Enabled  bool `koanf:"enabled"`
	Workers  int  `koanf:"workers"`
	MinChunk int  `koanf:"min_chunk"`
}

// flagKeys maps flag names onto configuration keys.
var flagKeys = map[string]string{
	"output":    "output",
	"log-level": "log_level",
	"precision": "precision",
	"workers":   "parallel.workers",
	"min-chunk": "parallel.min_chunk",
}

// Default returns the built-in configuration.
func Default() *Config {
	def := parallel.DefaultConfig()
	return &Config{
		Output:    DefaultOutput,
		LogLevel:  DefaultLogLevel,
		Precision: DefaultPrecision,
		Parallel: Parallel{
			Enabled:  def.Enabled,
			Workers:  def.NumWorkers,
			MinChunk: def.MinChunkSize,
		},
	}
}

// Load reads the configuration. cfgFile may be empty, in which case
// probnum.yaml in the working directory is used when present. flags may be
// nil; only flags that were explicitly set override other sources.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	def := Default()

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"output":             def.Output,
		"log_level":          def.LogLevel,
		"precision":          def.Precision,
		"parallel.enabled":   def.Parallel.Enabled,
		"parallel.workers":   def.Parallel.Workers,
		"parallel.min_chunk": def.Parallel.MinChunk,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: PROBNUM_PARALLEL__WORKERS -> parallel.workers
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.FileUsed = used
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findConfigFile returns the explicit path, or DefaultFile if it exists.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch c.Output {
	case OutputTable, OutputYAML, OutputJSON:
	default:
		return fmt.Errorf("%w: unknown output format %q (want table, yaml or json)", ErrInvalidConfig, c.Output)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Precision < 0 || c.Precision > 17 {
		return fmt.Errorf("%w: precision %d out of range [0, 17]", ErrInvalidConfig, c.Precision)
	}
	if c.Parallel.Workers < 0 || c.Parallel.MinChunk < 0 {
		return fmt.Errorf("%w: parallel workers and min_chunk must be non-negative", ErrInvalidConfig)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log level %q: %v", ErrInvalidConfig, c.LogLevel, err)
	}
	return lvl, nil
}

// ApplyParallel installs the parallel section as the kernel default.
func (c *Config) ApplyParallel() {
	parallel.SetDefault(parallel.Config{
		Enabled:      c.Parallel.Enabled,
		NumWorkers:   c.Parallel.Workers,
		MinChunkSize: c.Parallel.MinChunk,
	})
}

// NewLogger returns a text logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	lvl, err := c.Level()
	if err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// loggerKey is used to store the logger in a context.
type loggerKey struct{}

// WithLogger returns a copy of ctx carrying l.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// GetLogger retrieves the logger from ctx.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// configKey is used to store the configuration in a context.
type configKey struct{}

// WithConfig returns a copy of ctx carrying c.
func WithConfig(ctx context.Context, c *Config) context.Context {
	return context.WithValue(ctx, configKey{}, c)
}

// FromContext retrieves the configuration from ctx, or the defaults.
func FromContext(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	return Default()
}

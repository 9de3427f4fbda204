// Package config loads hostctl settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/hostkit/host/adaptor"
	"github.com/joshuapare/hostkit/host/bufpool"
)

// DebugEnv, when set to a non-empty value other than "0", forces debug logging.
const DebugEnv = "HOSTKIT_DEBUG"

// Config is the on-disk configuration.
type Config struct {
	Interval time.Duration `yaml:"interval"`
	Log      Log           `yaml:"log"`
	Pool     Pool          `yaml:"pool"`
	Registry Registry      `yaml:"registry"`
}

type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
	Dir    string `yaml:"dir"`    // optional dated log files
}

// Pool mirrors bufpool.Config. Zero values keep the pool defaults.
type Pool struct {
	MinSize         int `yaml:"min_size"`
	MaxSize         int `yaml:"max_size"`
	MaxFreePerClass int `yaml:"max_free_per_class"`
	MaxIdleSweeps   int `yaml:"max_idle_sweeps"`

	// Allocator selects the backing store: "heap" (default) or "mmap".
	Allocator string `yaml:"allocator"`
}

type Registry struct {
	UserDataSize   int  `yaml:"user_data_size"`
	DisableIfIndex bool `yaml:"disable_ifindex"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Interval: 10 * time.Second,
		Log:      Log{Level: "info", Format: "text"},
		Registry: Registry{UserDataSize: 8},
	}
}

// Load reads path over Default. An empty path returns Default unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		cfg.applyEnv()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// Parse decodes YAML into cfg, rejecting unknown keys.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// An empty document leaves cfg as it was.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(DebugEnv); v != "" && v != "0" {
		c.Log.Level = "debug"
	}
}

// Validate checks ranges and enum values.
func (c Config) Validate() error {
	var errs []error
	if c.Interval <= 0 {
		errs = append(errs, fmt.Errorf("interval must be positive, got %s", c.Interval))
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if c.Pool.MinSize < 0 {
		errs = append(errs, errors.New("pool.min_size must not be negative"))
	}
	if c.Pool.MaxSize < 0 {
		errs = append(errs, errors.New("pool.max_size must not be negative"))
	}
	if c.Pool.MinSize > 0 && c.Pool.MaxSize > 0 && c.Pool.MinSize > c.Pool.MaxSize {
		errs = append(errs, fmt.Errorf("pool.min_size %d exceeds pool.max_size %d", c.Pool.MinSize, c.Pool.MaxSize))
	}
	switch strings.ToLower(c.Pool.Allocator) {
	case "", "heap", "mmap":
	default:
		errs = append(errs, fmt.Errorf("pool.allocator: unknown allocator %q", c.Pool.Allocator))
	}
	if c.Registry.UserDataSize < 0 {
		errs = append(errs, errors.New("registry.user_data_size must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// PoolConfig converts the pool section for bufpool.New.
func (c Config) PoolConfig() bufpool.Config {
	pc := bufpool.Config{
		MinSize:         c.Pool.MinSize,
		MaxSize:         c.Pool.MaxSize,
		MaxFreePerClass: c.Pool.MaxFreePerClass,
		MaxIdleSweeps:   c.Pool.MaxIdleSweeps,
	}
	if strings.EqualFold(c.Pool.Allocator, "mmap") {
		pc.Allocator = bufpool.MmapAllocator{}
	}
	return pc
}

// RegistryOptions converts the registry section for adaptor.New, using pool
// for user data.
func (c Config) RegistryOptions(pool *bufpool.Pool) adaptor.Options {
	return adaptor.Options{
		Pool:           pool,
		UserDataSize:   c.Registry.UserDataSize,
		DisableIfIndex: c.Registry.DisableIfIndex,
	}
}

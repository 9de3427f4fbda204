package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hostkit/host/adaptor"
	"github.com/joshuapare/hostkit/host/bufpool"
	"github.com/joshuapare/hostkit/internal/config"
	"github.com/joshuapare/hostkit/internal/logger"
	"github.com/joshuapare/hostkit/internal/netenum"
)

var (
	// Global flags
	configPath string
	verbose    bool
	quiet      bool
	jsonOut    bool

	// cfg is loaded before any subcommand runs.
	cfg = config.Default()

	// newEnumerator is swapped out by tests.
	newEnumerator = func() adaptor.Enumerator { return &netenum.System{} }
)

var rootCmd = &cobra.Command{
	Use:   "hostctl",
	Short: "Track the host's network adaptors",
	Long: `hostctl keeps a live inventory of the host's network interfaces.
It re-enumerates them periodically, keeps per-adaptor state across cycles and
reports adaptors that appear, change or disappear.`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
}

// setup loads the config file and starts logging. Flags win over the file.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	closer, err := logger.Init(logger.Options{
		Enabled: true,
		Level:   level,
		Format:  cfg.Log.Format,
		LogDir:  cfg.Log.Dir,
		Output:  os.Stderr,
	})
	if err != nil {
		return err
	}
	cobra.OnFinalize(func() { closer.Close() })
	return nil
}

// newRegistry builds a pool and a registry from the loaded config.
func newRegistry() (*adaptor.Registry, *bufpool.Pool) {
	pc := cfg.PoolConfig()
	pc.Logger = logger.L
	pool := bufpool.New(pc)

	opts := cfg.RegistryOptions(pool)
	opts.Logger = logger.L
	return adaptor.New(opts), pool
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

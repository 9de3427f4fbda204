// Command hostctl tracks the host's network adaptors.
package main

import (
	"log/slog"
	"os"

	"github.com/joshuapare/hostkit/host/guard"
)

func main() {
	// Fatal conditions are reported even when logging is off.
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	os.Exit(guard.Supervise(log, rootCmd.Execute))
}

//go:build unix

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// stopSignals end a watch loop.
var stopSignals = []os.Signal{unix.SIGINT, unix.SIGTERM, unix.SIGHUP}

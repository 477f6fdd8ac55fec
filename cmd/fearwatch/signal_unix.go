//go:build !windows

package main

import (
	"os"
	"syscall"
)

// refreshSignals trigger a manual dashboard refresh.
var refreshSignals = []os.Signal{syscall.SIGUSR1}

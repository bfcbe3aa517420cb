//go:build windows

package main

import "os"

// Windows only delivers Ctrl+C.
var shutdownSignals = []os.Signal{os.Interrupt}

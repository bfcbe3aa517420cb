package main

import (
	"context"
	"os/signal"
)

// notifyContext cancels the returned context on a shutdown signal, so
// in-flight requests and the preview server stop cleanly.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}

package run

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ridge/reqlog/tlog"
	"go.uber.org/zap"
)

// shutdownSignals end the process after in-flight requests are logged
var shutdownSignals = []os.Signal{syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP}

// waitForShutdown returns nil on the first of shutdownSignals, which makes
// parallel.Exit close the other tasks gracefully
func waitForShutdown(ctx context.Context) error {
	received := make(chan os.Signal, 1)
	signal.Notify(received, shutdownSignals...)
	defer signal.Stop(received)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case sig := <-received:
		tlog.Get(ctx).Info("Shutting down on signal", zap.Stringer("signal", sig))
		return nil
	}
}

package test

import (
	"context"

	"github.com/ridge/reqlog/tlog"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// ObservedContext returns a context whose logger records every entry, down
// to Debug level, for inspection by the test
func ObservedContext() (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return tlog.WithLogger(context.Background(), zap.New(core)), logs
}

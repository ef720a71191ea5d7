package test

import (
	"context"
	"testing"
	"time"

	"github.com/ridge/reqlog/tlog"
)

// Context returns a context carrying a test logger, as the contexts created
// by run.Tool and thttp.Server do
func Context(t *testing.T) context.Context {
	return tlog.WithLogger(context.Background(), tlog.NewForTesting(t))
}

// ContextWithTimeout is Context closed with context.DeadlineExceeded after
// the timeout
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(Context(t), timeout)
	t.Cleanup(cancel)
	return ctx
}

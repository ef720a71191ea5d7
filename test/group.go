package test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ridge/parallel"
	"github.com/stretchr/testify/require"
)

// Group returns a parallel.Group running in a test Context. The group is
// shut down at the end of the test, which fails if the group ends with an
// error other than context.Canceled.
func Group(t *testing.T) *parallel.Group {
	return newGroup(t, Context(t))
}

// GroupWithTimeout is Group with a timeout on its context
func GroupWithTimeout(t *testing.T, timeout time.Duration) *parallel.Group {
	return newGroup(t, ContextWithTimeout(t, timeout))
}

func newGroup(t *testing.T, ctx context.Context) *parallel.Group {
	group := parallel.NewGroup(ctx)
	t.Cleanup(func() {
		group.Exit(nil)
		if err := group.Wait(); !errors.Is(err, context.Canceled) {
			require.NoError(t, err)
		}
	})
	return group
}

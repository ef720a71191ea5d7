package thttp

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ridge/must/v2"
	"github.com/ridge/parallel"
	"github.com/ridge/reqlog/tlog"
	"go.uber.org/zap"
)

const gracefulShutdownTimeout = 5 * time.Second

// Server is an HTTP server controlled by the context passed to Run
type Server struct {
	listener net.Listener
	handler  http.Handler
	active   sync.WaitGroup
}

// NewServer creates a Server
func NewServer(listener net.Listener, handler http.Handler) *Server {
	return &Server{
		listener: listener,
		handler:  handler,
	}
}

type panicKeyType int

const panicKey panicKeyType = iota

// Run serves requests until ctx is closed, then shuts down gracefully,
// waiting up to gracefulShutdownTimeout for running requests.
//
// A panic caught by Recover terminates Run with parallel.ErrPanic.
func (s *Server) Run(ctx context.Context) error {
	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		panicChan := make(chan error, 1)
		ctx = context.WithValue(ctx, panicKey, panicChan)
		ctx = tlog.With(ctx, zap.Stringer("httpServer", s.listener.Addr()))
		// Requests outlive ctx during shutdown
		reqCtx, reqCancel := context.WithCancel(detach(ctx))

		logger := tlog.Get(ctx)

		server := http.Server{
			Handler:           s.track(s.handler),
			ErrorLog:          must.OK1(zap.NewStdLogAt(logger, zap.WarnLevel)),
			BaseContext:       func(net.Listener) context.Context { return reqCtx },
			ConnContext:       connContext,
			ReadHeaderTimeout: time.Minute,
		}

		spawn("serve", parallel.Fail, func(ctx context.Context) error {
			logger.Info("Serving requests")
			err := server.Serve(s.listener)
			// ErrServerClosed after a shutdown we asked for is not a failure
			if errors.Is(err, http.ErrServerClosed) && ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		})

		spawn("panicHandler", parallel.Fail, func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case err := <-panicChan:
				return err
			}
		})

		spawn("shutdownHandler", parallel.Fail, func(ctx context.Context) error {
			<-ctx.Done()
			logger.Info("Shutting down")

			shutdownCtx, cancel := context.WithTimeout(reqCtx, gracefulShutdownTimeout)
			defer cancel()
			defer reqCancel()
			defer server.Close()

			if err := server.Shutdown(shutdownCtx); err != nil && shutdownCtx.Err() != nil {
				logger.Info("Shutdown canceled", zap.Error(err))
				return err
			}
			// Other Shutdown errors come from closing the listener

			reqCancel() // ask hijacked connections to terminate
			s.active.Wait()

			logger.Info("Shutdown complete")
			return ctx.Err()
		})

		return nil
	})
}

// ListenAddr returns the local address of the server's listener
func (s *Server) ListenAddr() net.Addr {
	return s.listener.Addr()
}

func connContext(ctx context.Context, conn net.Conn) context.Context {
	return tlog.With(ctx, zap.Stringer("remoteAddr", conn.RemoteAddr()))
}

// track makes running handlers hold off shutdown. http.Server does this by
// itself except for hijacked connections.
func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.active.Add(1)
		defer s.active.Done()
		next.ServeHTTP(w, r)
	})
}

// detached carries the values of the parent context, but neither its
// deadline nor its cancellation
type detached struct {
	context.Context //nolint:containedctx // wraps the parent for its values
}

func detach(ctx context.Context) context.Context {
	return detached{Context: ctx}
}

func (detached) Deadline() (time.Time, bool) { return time.Time{}, false }
func (detached) Done() <-chan struct{}       { return nil }
func (detached) Err() error                  { return nil }

// Wrap installs a number of middleware on HTTP handler. The first
// middleware listed will be the first one to see the request.
func Wrap(handler http.Handler, mw ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	return handler
}

// StandardMiddleware is Recover followed by CORS. Request logging goes
// before it:
//
//	thttp.Wrap(router, logger.Middleware, thttp.StandardMiddleware)
func StandardMiddleware(next http.Handler) http.Handler {
	return Recover(CORS(next))
}

package thttp

import (
	"net/http"
	"runtime/debug"

	"github.com/ridge/parallel"
	"github.com/ridge/reqlog/tlog"
	"go.uber.org/zap"
)

func serveRecovering(next http.Handler, w http.ResponseWriter, r *http.Request) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = parallel.ErrPanic{Value: p, Stack: debug.Stack()}
		}
	}()
	next.ServeHTTP(w, r)
	return nil
}

// Recover is a middleware that catches panics from HTTP handlers.
//
// The client gets a 500 response. When running under Server, the panic is
// passed to it and terminates Run; otherwise it is logged.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := serveRecovering(next, w, r)
		if err == nil {
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		if panicChan, ok := r.Context().Value(panicKey).(chan error); ok {
			select {
			case panicChan <- err:
			default:
			}
			return
		}
		if logger, ok := tlog.Lookup(r.Context()); ok {
			logger.Error("Panic in HTTP handler", zap.Error(err))
		}
	})
}

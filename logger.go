package reqlog

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/ridge/reqlog/thttp"
	"github.com/ridge/reqlog/tlog"
	"go.uber.org/zap"
)

// Logger is a middleware logging a line when an HTTP request arrives and
// another one when its response has been sent.
//
// Each exchange gets a sequence id that appears in both lines. Responses
// with status 400 and above are logged at Error level together with the
// response body.
type Logger struct {
	config   Config
	selector atomic.Pointer[Selector]
	nextSeq  atomic.Uint64
	done     atomic.Uint64
}

// New creates a Logger
func New(config Config) *Logger {
	l := &Logger{config: config.withDefaults()}
	sel := l.config.Selector
	l.selector.Store(&sel)
	return l
}

// Selector returns the current set of logged request fields
func (l *Logger) Selector() Selector {
	return *l.selector.Load()
}

// SetSelector replaces the set of logged request fields
func (l *Logger) SetSelector(sel Selector) {
	l.selector.Store(&sel)
}

// Exclude changes the set of logged request fields for subsequent requests:
// true excludes a field, false includes it back. Fields not in m are left
// as they are.
func (l *Logger) Exclude(m map[Field]bool) {
	l.update(func(sel Selector) (Selector, error) {
		return sel.Exclude(m), nil
	})
}

// ExcludeNames is Exclude keyed by field name. Nothing changes if m contains
// an unknown name (ErrUnknownField).
func (l *Logger) ExcludeNames(m map[string]bool) error {
	return l.update(func(sel Selector) (Selector, error) {
		return sel.ExcludeNames(m)
	})
}

func (l *Logger) update(fn func(Selector) (Selector, error)) error {
	for {
		old := l.selector.Load()
		sel, err := fn(*old)
		if err != nil {
			return err
		}
		if l.selector.CompareAndSwap(old, &sel) {
			return nil
		}
	}
}

// Completed returns the number of exchanges whose completion has been
// logged
func (l *Logger) Completed() uint64 {
	return l.done.Load()
}

// exchange is the state of one request/response pair
type exchange struct {
	seq     uint64
	url     string
	logger  *zap.Logger
	started time.Time
	capture *thttp.Capture
	done    completion
}

// Middleware wraps the handler with request logging.
//
// The end line is logged when the wrapped handler returns. A panic unwinding
// through Middleware skips it, so install thttp.Recover inside the logger for
// failed exchanges to be logged with their 500:
//
//	thttp.Wrap(router, logger.Middleware, thttp.StandardMiddleware)
//
// Request bodies of unknown length, and bodies of requests expecting
// 100 Continue, are not read ahead of the handler and are logged as
// "<streamed body>".
func (l *Logger) Middleware(next http.Handler) http.Handler {
	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l.serve(next, w, r)
	})
	if l.config.TrustProxyHeaders {
		handler = thttp.ProxyHeaders(handler)
	}
	return handler
}

func (l *Logger) serve(next http.Handler, w http.ResponseWriter, r *http.Request) {
	base := l.loggerFor(r.Context())
	ex := &exchange{
		seq:    l.nextSeq.Add(1) - 1,
		url:    r.URL.RequestURI(),
		logger: base.Named("http"),
	}

	l.logStarted(ex, r)
	ex.capture = thttp.NewCapture(l.config.MaxBodyLen, ex.done.fire)
	ex.started = l.config.Now()
	ex.done.subscribe(func() {
		l.logEnded(ex)
		l.done.Add(1)
	})

	// Handler logs carry the sequence id too
	ctx := tlog.WithLogger(r.Context(), base.With(zap.Uint64("seq", ex.seq)))
	next.ServeHTTP(thttp.CaptureResponse(w, ex.capture), r.WithContext(ctx))
	ex.done.fire()
}

func (l *Logger) loggerFor(ctx context.Context) *zap.Logger {
	if logger, ok := tlog.Lookup(ctx); ok {
		return logger
	}
	return l.config.Logger
}

func (l *Logger) logStarted(ex *exchange, r *http.Request) {
	guard(ex.logger, func() {
		request, dropped := l.project(r, l.Selector())
		fields := []zap.Field{
			zap.Uint64("seq", ex.seq),
			zap.String("method", r.Method),
			zap.String("url", ex.url),
			zap.Reflect("request", request),
		}
		if len(dropped) > 0 {
			fields = append(fields, zap.Strings("dropped", fieldNames(dropped)))
		}
		ex.logger.Info("HTTP request started", fields...)
	})
}

func (l *Logger) logEnded(ex *exchange) {
	guard(ex.logger, func() {
		status := ex.capture.Status
		if status == 0 {
			status = http.StatusOK // net/http default
		}
		fields := []zap.Field{
			zap.Uint64("seq", ex.seq),
			zap.Int("status", status),
			zap.String("url", ex.url),
			zap.Int64("elapsedMs", l.config.Now().Sub(ex.started).Milliseconds()),
		}
		if status < http.StatusBadRequest {
			ex.logger.Info("HTTP request ended", fields...)
			return
		}
		fields = append(fields, responseField(ex.capture))
		ex.logger.Error("HTTP request failed", fields...)
	})
}

func responseField(c *thttp.Capture) zap.Field {
	const key = "response"
	v := renderBody(thttp.ContentType(c.Header()), c.Body(), c.Truncated(), c.Written)
	if raw, ok := v.(json.RawMessage); ok {
		return zap.Reflect(key, raw)
	}
	return zap.Any(key, v)
}

// guard runs a logging function so that no failure in it reaches the
// exchange being logged
func guard(logger *zap.Logger, fn func()) {
	defer func() {
		if p := recover(); p != nil {
			defer func() { _ = recover() }() // the logger itself may be broken
			logger.Warn("Failed to log HTTP request", zap.Any("panic", p))
		}
	}()
	fn()
}

func fieldNames(fields []Field) []string {
	res := make([]string, 0, len(fields))
	for _, f := range fields {
		res = append(res, string(f))
	}
	return res
}

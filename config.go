package reqlog

import (
	"time"

	"github.com/gorilla/mux"
	"github.com/ridge/reqlog/thttp"
	"go.uber.org/zap"
)

// Config is the construction-time configuration of a Logger. The zero value
// is usable: all fields are logged, bodies are cut at
// thttp.DefaultMaxBodyLen.
type Config struct {
	// Selector is the initial set of logged request fields
	Selector Selector

	// MaxBodyLen limits the logged part of request and response bodies
	MaxBodyLen int

	// TrustProxyHeaders takes the client IP from X-Forwarded-For,
	// X-Real-IP or Forwarded headers. Only enable behind a reverse proxy.
	TrustProxyHeaders bool

	// Router, if set, is matched against requests that have not been
	// routed yet to find the route variables for the "params" field.
	// Needed when the middleware wraps the router instead of being
	// installed with Router.Use.
	Router *mux.Router

	// Logger is used for requests whose context carries no logger (see
	// tlog.Get). Logging is disabled for them if nil.
	Logger *zap.Logger

	// Now is the clock, time.Now if nil
	Now func() time.Time
}

func (c Config) withDefaults() Config {
	if c.MaxBodyLen <= 0 {
		c.MaxBodyLen = thttp.DefaultMaxBodyLen
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

package thttp

import (
	"net/http"

	"github.com/gorilla/handlers"
)

var (
	allowedMethods = []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodOptions,
		http.MethodPut,
		http.MethodDelete,
		http.MethodPatch,
	}
	allowedHeaders = []string{
		"Authorization",
		"Cache-Control",
		"Content-Type",
		"If-Modified-Since",
		"Range",
		"User-Agent",
		"X-Requested-With",
	}
	exposedHeaders = []string{
		"Content-Length",
		"Content-Range",
	}
)

// CORS is a middleware that allows cross-origin requests
var CORS = handlers.CORS(
	handlers.AllowedMethods(allowedMethods),
	handlers.AllowedHeaders(allowedHeaders),
	handlers.ExposedHeaders(exposedHeaders),
	handlers.AllowedOrigins([]string{"*"}),
)

// ProxyHeaders is a middleware that replaces the remote address and scheme
// of the request with the ones reported by a reverse proxy in
// X-Forwarded-For, X-Real-IP, X-Forwarded-Proto and Forwarded headers.
//
// Only install it behind a trusted proxy.
func ProxyHeaders(next http.Handler) http.Handler {
	return handlers.ProxyHeaders(next)
}

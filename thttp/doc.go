// Package thttp contains HTTP server utilities.
//
// # HTTP Server
//
// thttp.Server is an http.Server controlled by the context passed to its Run
// method, which fits into hierarchies of components started with
// parallel.Run. Every incoming request has a context inherited from the one
// passed to Run, so tlog.Get(r.Context()) always returns a logger carrying the
// httpServer and remoteAddr fields. When the context is closed, the server
// shuts down gracefully.
//
//	func RunAPI(ctx context.Context, addr string) error {
//	    listener, err := tnet.Listen(addr)
//	    if err != nil {
//	        return fmt.Errorf("failed to run API server: %w", err)
//	    }
//
//	    router := mux.NewRouter()
//	    router.HandleFunc("/users/{id}", getUser).Methods(http.MethodGet)
//
//	    logger := reqlog.New(reqlog.Config{Router: router})
//	    server := thttp.NewServer(listener,
//	        thttp.Wrap(router, logger.Middleware, thttp.StandardMiddleware))
//	    return server.Run(ctx)
//	}
//
// # Middleware
//
// A middleware is a func(http.Handler) http.Handler. thttp.Wrap applies any
// number of them so that the first one listed is the first to see the
// request. thttp.StandardMiddleware is Recover followed by CORS.
//
// # Response capture
//
// CaptureResponse wraps a ResponseWriter with httpsnoop so that the status
// code and the beginning of the body are recorded, keeping the optional
// interfaces (http.Flusher, http.Hijacker, io.ReaderFrom) of the original.
// PeekBody reads the beginning of a request body and puts it back for the
// handler.
//
// # Panics
//
// Don't log internal errors explicitly in handlers. Panic, and Recover will
// send a generic 500 to the client and pass the panic with its stack to the
// server, which terminates.
package thttp

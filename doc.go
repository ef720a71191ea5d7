// Package reqlog is an HTTP middleware that logs every request twice: when
// it arrives and when its response has been sent.
//
// # Log lines
//
// The first line, "HTTP request started", carries the sequence id of the
// exchange, the method, the URL and a JSON projection of the request made of
// the selected fields among params, query, body, headers, cookies and ip.
// Fields the request does not have are left out.
//
// The second line carries the same sequence id, the status code, the URL and
// the time it took to handle the request in milliseconds. Responses with
// status below 400 are logged at Info level as "HTTP request ended".
// Others are logged at Error level as "HTTP request failed", along with the
// response body.
//
// Nothing is logged at completion if a panic unwinds through the middleware.
// Put thttp.Recover inside it, as StandardMiddleware does in the example
// below, so that panics are logged as failed exchanges with status 500.
//
// # Usage
//
//	logger := reqlog.New(reqlog.Config{
//	    Selector: reqlog.DefaultSelector().Exclude(map[reqlog.Field]bool{reqlog.FieldCookies: true}),
//	    Router:   router,
//	})
//	server := thttp.NewServer(listener,
//	    thttp.Wrap(router, logger.Middleware, thttp.StandardMiddleware))
//
// Lines are written to the logger found in the request context (see
// tlog.Get), which thttp.Server provides, or to Config.Logger.
//
// # Changing logged fields
//
// The Selector given in Config can be changed later with Logger.Exclude, by
// PUTting to the AdminHandler, or by editing a file watched by WatchFile.
// Changes only affect the Logger they are made on.
package reqlog

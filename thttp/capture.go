package thttp

import (
	"bufio"
	"io"
	"net"
	"net/http"

	"github.com/felixge/httpsnoop"
)

// Capture records what a handler sends through a ResponseWriter wrapped by
// CaptureResponse. It belongs to a single request and must not be shared.
type Capture struct {
	// Status is the final status code sent to the client, 0 if nothing was
	// sent. Informational 1xx codes other than 101 are skipped.
	Status int
	// Written is the number of body bytes sent
	Written int64
	// Hijacked is set once the connection has been taken over by the handler
	Hijacked bool

	body     limitedBuffer
	header   http.Header
	onHijack func()
}

// NewCapture creates a Capture keeping at most maxBody bytes of the response
// body. onHijack, if not nil, is called once the connection is hijacked.
func NewCapture(maxBody int, onHijack func()) *Capture {
	return &Capture{body: limitedBuffer{max: maxBody}, onHijack: onHijack}
}

// Body returns the captured part of the response body, at most the limit
// passed to NewCapture. See Truncated.
func (c *Capture) Body() []byte {
	return c.body.Bytes()
}

// Header returns the response header map, nil before CaptureResponse
func (c *Capture) Header() http.Header {
	return c.header
}

// Truncated reports whether the captured body was cut
func (c *Capture) Truncated() bool {
	return c.body.truncated
}

func (c *Capture) wroteBody(p []byte, n int) {
	if c.Status == 0 {
		c.Status = http.StatusOK
	}
	c.Written += int64(n)
	c.body.append(p[:n])
}

// CaptureResponse wraps a http.ResponseWriter so that the status code and
// body sent by the handler are recorded into c.
//
// The returned ResponseWriter exposes exactly the optional interfaces
// (http.Flusher, http.Hijacker, http.Pusher, io.ReaderFrom) that w does.
func CaptureResponse(w http.ResponseWriter, c *Capture) http.ResponseWriter {
	c.header = w.Header()
	return httpsnoop.Wrap(w, httpsnoop.Hooks{
		WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
			return func(code int) {
				if c.Status == 0 && !informational(code) {
					c.Status = code
				}
				next(code)
			}
		},
		Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
			return func(p []byte) (int, error) {
				n, err := next(p)
				c.wroteBody(p, n)
				return n, err
			}
		},
		ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
			return func(src io.Reader) (int64, error) {
				if c.Status == 0 {
					c.Status = http.StatusOK
				}
				n, err := next(io.TeeReader(src, writerFunc(func(p []byte) (int, error) {
					c.body.append(p)
					return len(p), nil
				})))
				c.Written += n
				return n, err
			}
		},
		Hijack: func(next httpsnoop.HijackFunc) httpsnoop.HijackFunc {
			return func() (net.Conn, *bufio.ReadWriter, error) {
				conn, rw, err := next()
				if err == nil && !c.Hijacked {
					c.Hijacked = true
					if c.Status == 0 {
						c.Status = http.StatusSwitchingProtocols
					}
					if c.onHijack != nil {
						c.onHijack()
					}
				}
				return conn, rw, err
			}
		},
	})
}

// informational reports whether code is a 1xx status followed by the final
// one. 101 ends the HTTP exchange and is final.
func informational(code int) bool {
	return code >= 100 && code < 200 && code != http.StatusSwitchingProtocols
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) {
	return f(p)
}

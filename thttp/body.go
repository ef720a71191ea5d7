package thttp

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/ridge/must/v2"
	"go.uber.org/zap"
)

// DefaultMaxBodyLen is the default limit on logged bodies, leaving room for
// a "..." marker within 1 KiB
const DefaultMaxBodyLen = 1024 - 3

// limitedBuffer keeps the first max bytes written to it
type limitedBuffer struct {
	buf       bytes.Buffer
	max       int
	truncated bool
}

func (lb *limitedBuffer) append(p []byte) {
	if len(p) == 0 || lb.truncated {
		return
	}
	remaining := lb.max - lb.buf.Len()
	if len(p) > remaining {
		if remaining > 0 {
			must.OK1(lb.buf.Write(p[:remaining])) // bytes.Buffer.Write never fails
		}
		lb.truncated = true
		return
	}
	must.OK1(lb.buf.Write(p))
}

func (lb *limitedBuffer) Bytes() []byte {
	return lb.buf.Bytes()
}

// ContentType returns the normalized media type of the header, without
// parameters
func ContentType(header http.Header) string {
	ct, _, _ := strings.Cut(header.Get("Content-Type"), ";")
	return strings.TrimSpace(strings.ToLower(ct))
}

// IsBinary reports whether the content type denotes opaque binary data
func IsBinary(contentType string) bool {
	return contentType == "application/octet-stream"
}

// IsJSON reports whether the content type is JSON or a +json vendor type
func IsJSON(contentType string) bool {
	return contentType == "application/json" || strings.HasSuffix(contentType, "+json")
}

type peekedBody struct {
	io.Reader
	io.Closer
}

// PeekBody reads up to limit bytes of the request body and puts them back,
// so that the handler still sees the whole body.
//
// The second return value reports whether the body is longer than limit. A
// read error is not returned here: the handler gets it on its own read.
func PeekBody(r *http.Request, limit int) ([]byte, bool) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, false
	}

	head := make([]byte, limit+1)
	n, err := io.ReadFull(r.Body, head)
	head = head[:n]

	rest := r.Body
	var tail io.Reader = rest
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		tail = errReader{err: err}
	}
	r.Body = peekedBody{
		Reader: io.MultiReader(bytes.NewReader(head), tail),
		Closer: rest,
	}

	if n > limit {
		return head[:limit], true
	}
	return head, false
}

type errReader struct {
	err error
}

func (er errReader) Read([]byte) (int, error) {
	return 0, er.err
}

// JSONResult writes HTTP status code and the JSON-encoded result
func JSONResult(logger *zap.Logger, w http.ResponseWriter, res any, code int) {
	body := must.OK1(json.Marshal(res))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		logger.Debug("Failed to write response to client", zap.Error(err))
	}
}

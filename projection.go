package reqlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"github.com/ridge/reqlog/thttp"
)

// extractor returns the value of a field of the request, or false if the
// request does not have the field
type extractor func(l *Logger, r *http.Request) (any, bool)

var extractors = map[Field]extractor{
	FieldParams:  extractParams,
	FieldQuery:   extractQuery,
	FieldBody:    extractBody,
	FieldHeaders: extractHeaders,
	FieldCookies: extractCookies,
	FieldIP:      extractIP,
}

func extractParams(l *Logger, r *http.Request) (any, bool) {
	vars := mux.Vars(r)
	if len(vars) == 0 && l.config.Router != nil {
		var match mux.RouteMatch
		if l.config.Router.Match(r, &match) {
			vars = match.Vars
		}
	}
	return vars, len(vars) > 0
}

func extractQuery(_ *Logger, r *http.Request) (any, bool) {
	if r.URL.RawQuery == "" {
		return nil, false
	}
	return flatten(r.URL.Query()), true
}

// streamedBody stands for a body that cannot be read before the handler runs
// without holding it back
const streamedBody = "<streamed body>"

func extractBody(l *Logger, r *http.Request) (any, bool) {
	switch {
	case r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0:
		return nil, false
	case r.ContentLength < 0, expectsContinue(r):
		// Reading would wait for the client, or send 100 Continue on behalf
		// of the handler
		return streamedBody, true
	}
	body, truncated := thttp.PeekBody(r, l.config.MaxBodyLen)
	if len(body) == 0 {
		return nil, false
	}
	return renderBody(thttp.ContentType(r.Header), body, truncated, r.ContentLength), true
}

func expectsContinue(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Expect"), "100-continue")
}

func extractHeaders(_ *Logger, r *http.Request) (any, bool) {
	if len(r.Header) == 0 {
		return nil, false
	}
	headers := flatten(r.Header)
	// net/http moves Host out of the header map
	if r.Host != "" {
		headers["Host"] = r.Host
	}
	return headers, true
}

func extractCookies(_ *Logger, r *http.Request) (any, bool) {
	cookies := r.Cookies()
	if len(cookies) == 0 {
		return nil, false
	}
	res := make(map[string]string, len(cookies))
	for _, c := range cookies {
		res[c.Name] = c.Value
	}
	return res, true
}

func extractIP(_ *Logger, r *http.Request) (any, bool) {
	if r.RemoteAddr == "" {
		return nil, false
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// ProxyHeaders stores a bare address
		return r.RemoteAddr, true
	}
	return host, true
}

// flatten turns single-element value lists into plain values
func flatten(values map[string][]string) map[string]any {
	res := make(map[string]any, len(values))
	for k, v := range values {
		if len(v) == 1 {
			res[k] = v[0]
		} else {
			res[k] = v
		}
	}
	return res
}

// renderBody turns a (possibly cut) body into a loggable value: JSON is
// embedded as is, forms become maps, binary data is summarized and anything
// else is a string. size is the full length if known, negative otherwise.
func renderBody(contentType string, body []byte, truncated bool, size int64) any {
	switch {
	case thttp.IsBinary(contentType):
		if size < 0 {
			return "<binary>"
		}
		return fmt.Sprintf("<binary %d bytes>", size)
	case truncated:
		return string(body) + "..."
	case thttp.IsJSON(contentType) && json.Valid(body):
		return json.RawMessage(body)
	case contentType == "application/x-www-form-urlencoded":
		if form, err := url.ParseQuery(string(body)); err == nil {
			return flatten(form)
		}
	}
	return string(body)
}

type projected struct {
	field Field
	value json.RawMessage
}

// project extracts and serializes the selected fields of the request.
// Fields that fail to extract or serialize are returned in dropped.
func (l *Logger) project(r *http.Request, sel Selector) (json.RawMessage, []Field) {
	var fields []projected
	var dropped []Field
	for _, f := range AllFields {
		if !sel.Includes(f) {
			continue
		}
		value, ok, err := guardedExtract(l, r, extractors[f])
		if err != nil {
			dropped = append(dropped, f)
			continue
		}
		if ok {
			fields = append(fields, projected{field: f, value: value})
		}
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:", p.field)
		buf.Write(p.value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), dropped
}

func guardedExtract(l *Logger, r *http.Request, extract extractor) (value json.RawMessage, ok bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			value, ok, err = nil, false, fmt.Errorf("panic: %v", p)
		}
	}()

	v, ok := extract(l, r)
	if !ok {
		return nil, false, nil
	}
	value, err = json.Marshal(v)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

package reqlog

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/kevinpollet/nego"
	"github.com/ridge/reqlog/thttp"
	"go.uber.org/zap"
)

const (
	contentTypeJSON = "application/json"
	contentTypeText = "text/plain"
)

type errorResult struct {
	Error string `json:"error"`
}

// AdminHandler returns a handler to inspect and change the logged request
// fields of l at run time:
//
//	GET /exclusions        {"params":false,"query":false,"body":true,...}
//	PUT /exclusions        {"body":true} excludes body, {"body":false} includes it back
//
// GET answers in plain text if the client prefers it. Mount it under a
// prefix with http.StripPrefix.
func AdminHandler(l *Logger) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/exclusions", l.getExclusions).Methods(http.MethodGet)
	router.HandleFunc("/exclusions", l.putExclusions).Methods(http.MethodPut)
	return router
}

func (l *Logger) getExclusions(w http.ResponseWriter, r *http.Request) {
	sel := l.Selector()
	if r.Header.Get("Accept") != "" && nego.NegotiateContentType(r, contentTypeJSON, contentTypeText) == contentTypeText {
		var b strings.Builder
		for _, f := range AllFields {
			state := "included"
			if !sel.Includes(f) {
				state = "excluded"
			}
			fmt.Fprintf(&b, "%s: %s\n", f, state)
		}
		w.Header().Set("Content-Type", contentTypeText+"; charset=utf-8")
		if _, err := w.Write([]byte(b.String())); err != nil {
			l.loggerFor(r.Context()).Debug("Failed to write response to client", zap.Error(err))
		}
		return
	}
	thttp.JSONResult(l.loggerFor(r.Context()), w, sel.Exclusions(), http.StatusOK)
}

func (l *Logger) putExclusions(w http.ResponseWriter, r *http.Request) {
	logger := l.loggerFor(r.Context())

	var m map[string]bool
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		thttp.JSONResult(logger, w, errorResult{Error: "malformed exclusions: " + err.Error()}, http.StatusBadRequest)
		return
	}
	if err := l.ExcludeNames(m); err != nil {
		thttp.JSONResult(logger, w, errorResult{Error: err.Error()}, http.StatusBadRequest)
		return
	}

	sel := l.Selector()
	logger.Info("Logged request fields changed", zap.Strings("excluded", fieldNames(sel.Excluded())))
	thttp.JSONResult(logger, w, sel.Exclusions(), http.StatusOK)
}


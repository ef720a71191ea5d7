// reqlog-demo serves a small API with request logging, to see the log
// output and to try out the exclusion settings.
//
//	reqlog-demo --listen localhost:8080 --log-exclude headers,cookies
//	curl 'localhost:8080/users/42?page=2'
//	curl -X POST -d '{"user":"a","pass":"b"}' -H 'Content-Type: application/json' localhost:8080/login
//	curl -X PUT -d '{"body":true}' localhost:8080/admin/exclusions
package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ridge/parallel"
	"github.com/ridge/reqlog"
	"github.com/ridge/reqlog/run"
	"github.com/ridge/reqlog/thttp"
	"github.com/ridge/reqlog/tlog"
	"github.com/ridge/reqlog/tnet"
	"github.com/spf13/pflag"
)

var (
	listenAddr = pflag.String("listen", "localhost:8080", "Address to listen on (HOST:PORT, tcp:HOST:PORT or unix:PATH)")
	logFlags   = reqlog.RegisterFlags(pflag.CommandLine)
)

type user struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type login struct {
	User string `json:"user"`
	Pass string `json:"pass"`
}

type apiError struct {
	Error string `json:"error"`
}

func getUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	thttp.JSONResult(tlog.Get(r.Context()), w, user{ID: id, Name: "user " + id}, http.StatusOK)
}

func postLogin(w http.ResponseWriter, r *http.Request) {
	logger := tlog.Get(r.Context())
	var req login
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		thttp.JSONResult(logger, w, apiError{Error: "malformed login request"}, http.StatusBadRequest)
		return
	}
	if req.User == "" || req.Pass == "" {
		thttp.JSONResult(logger, w, apiError{Error: "invalid credentials"}, http.StatusUnauthorized)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	thttp.JSONResult(tlog.Get(r.Context()), w, apiError{Error: "no such resource: " + r.URL.Path}, http.StatusNotFound)
}

func runDemo(ctx context.Context) error {
	config, err := logFlags.Config()
	if err != nil {
		return err
	}

	router := mux.NewRouter()
	config.Router = router
	logger := reqlog.New(config)

	router.HandleFunc("/users/{id}", getUser).Methods(http.MethodGet)
	router.HandleFunc("/login", postLogin).Methods(http.MethodPost)
	router.PathPrefix("/admin/").Handler(http.StripPrefix("/admin", reqlog.AdminHandler(logger)))
	router.NotFoundHandler = http.HandlerFunc(notFound)

	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		listener, err := tnet.Listen(*listenAddr)
		if err != nil {
			return err
		}
		server := thttp.NewServer(listener, thttp.Wrap(router, logger.Middleware, thttp.StandardMiddleware))
		spawn("http", parallel.Fail, server.Run)

		if path := logFlags.ExcludeFile(); path != "" {
			spawn("exclusions", parallel.Fail, func(ctx context.Context) error {
				return reqlog.WatchFile(ctx, path, logger)
			})
		}
		return nil
	})
}

func main() {
	pflag.Parse()
	run.Server(runDemo)
}

// cmd/server/server.go
package main

import (
	"net/http"
	"time"

	"github.com/codr1/clubhouse/internal/api"
	"github.com/codr1/clubhouse/internal/api/tournaments"
	"github.com/codr1/clubhouse/internal/ratelimit"
)

func newServer(config ServerConfig, limiter *ratelimit.Limiter) *http.Server {
	router := http.NewServeMux()

	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		limiter.Middleware(config.TrustProxy),
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	registerRoutes(router)

	return &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	tournaments.RegisterRoutes(mux)
}

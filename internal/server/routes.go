package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Route paths served by the relay.
const (
	PathGenerateTasks      = "/functions/v1/generate-tasks"
	PathGenerateTasksAlias = "/api/generate-tasks"
	PathHealth             = "/healthz"
	PathMetrics            = "/metrics"
)

// registerRoutes sets up all endpoints and wraps them in the middleware chain.
func (s *Server) registerRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST "+PathGenerateTasks, s.handleGenerateTasks)
	mux.HandleFunc("POST "+PathGenerateTasksAlias, s.handleGenerateTasks)
	mux.HandleFunc("GET "+PathHealth, s.handleHealth)
	if s.openAPI != nil {
		mux.HandleFunc("GET "+PathOpenAPI, s.handleOpenAPI)
	}
	if s.gatherer != nil {
		mux.Handle("GET "+PathMetrics, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return s.recoverMiddleware(s.requestIDMiddleware(s.accessLogMiddleware(corsMiddleware(mux))))
}

package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"svcctl/pkg/logging"
)

// StatusServer serves /metrics, /healthz and /readyz next to the MCP server.
type StatusServer struct {
	listen     string
	handler    http.Handler
	server     *http.Server
	readyCheck func() bool
}

// NewStatusServer builds a status server exposing gatherer.
func NewStatusServer(listen string, gatherer prometheus.Gatherer, readyCheck func() bool) *StatusServer {
	s := &StatusServer{
		listen:     listen,
		readyCheck: readyCheck,
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if s.readyCheck == nil || s.readyCheck() {
			writeText(w, http.StatusOK, "ready")
			return
		}
		writeText(w, http.StatusServiceUnavailable, "not ready")
	})
	s.handler = mux

	return s
}

// Handler returns the routes of the server.
func (s *StatusServer) Handler() http.Handler {
	return s.handler
}

// Start listens in the background.
func (s *StatusServer) Start() {
	s.server = &http.Server{
		Addr:              s.listen,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Status", err, "Unable to start status server")
		}
	}()

	logging.Info("Status", "Status server listening on http://%s", s.listen)
}

// Stop shuts the server down, waiting up to five seconds for open requests.
func (s *StatusServer) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func writeText(w http.ResponseWriter, code int, body string) {
	w.WriteHeader(code)
	if _, err := w.Write([]byte(body)); err != nil {
		logging.Warn("Status", "Failed to write response: %v", err)
	}
}

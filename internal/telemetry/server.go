// Package telemetry serves the playground's Prometheus metrics and a small
// introspection API over HTTP.
package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vidyasagar/navsync/internal/navigation"
)

// Routes configures the router.
type Routes struct {
	// Gatherer backs /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
	// Location backs /location when set.
	Location func() navigation.Location
}

type locationResponse struct {
	Token       string            `json:"token"`
	Querystring string            `json:"querystring"`
	Params      map[string]string `json:"params,omitempty"`
}

// NewRouter builds the HTTP handler.
func NewRouter(rt Routes) http.Handler {
	g := rt.Gatherer
	if g == nil {
		g = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	if rt.Location != nil {
		r.Get("/location", func(w http.ResponseWriter, _ *http.Request) {
			loc := rt.Location()
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(locationResponse{
				Token:       loc.Token,
				Querystring: loc.Querystring,
				Params:      loc.Params,
			})
		})
	}
	return r
}

// Server is a running telemetry endpoint.
type Server struct {
	srv *http.Server
	ln  net.Listener
	log *slog.Logger
}

// Start listens on addr and serves h in the background.
func Start(addr string, h http.Handler, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	s := &Server{
		srv: &http.Server{Handler: h, ReadHeaderTimeout: 5 * time.Second},
		ln:  ln,
		log: log.With("component", "telemetry"),
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("telemetry server stopped", "error", err)
		}
	}()
	s.log.Info("telemetry listening", "addr", ln.Addr().String())
	return s, nil
}

// Addr returns the bound address.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

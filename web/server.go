// Package web serves the browser UI: paste a story URL, get a PDF.
// Finished PDFs go through a get-or-compute cache keyed by story id, so
// repeat and concurrent downloads of one story run the pipeline once.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/storypdf/core/cache"
)

const (
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 10 * time.Minute // long stories take a while to fetch
	idleTimeout       = 2 * time.Minute
)

// Exporter builds the PDF for a story id. *pipeline.Pipeline implements it.
type Exporter interface {
	GetStoryAsPDF(ctx context.Context, storyID, filename string) ([]byte, error)
}

// Server wraps the chi router and the http.Server.
type Server struct {
	httpServer *http.Server
	log        zerolog.Logger
}

// NewServer builds the router and middleware chain. ctx bounds background
// work such as rate-limiter cleanup.
func NewServer(ctx context.Context, addr string, log zerolog.Logger, exporter Exporter, store cache.Cache) *Server {
	h := &handler{exporter: exporter, cache: store}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(RequestID(log))
	r.Use(AccessLog)
	r.Use(chimw.Recoverer)

	r.Get("/", h.index)
	r.Get("/health", h.health)
	r.With(RateLimit(ctx)).Get("/stories/{id:[0-9]+}/pdf", h.download)

	return &Server{
		log: log,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: readHeaderTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the HTTP server. It blocks until the server is closed.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

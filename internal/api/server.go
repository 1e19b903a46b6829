// Package api serves generated levels over HTTP.
//
// Routes:
//
//	GET    /healthz
//	POST   /v1/levels                      generate and store a level
//	GET    /v1/levels                      list stored levels
//	GET    /v1/levels/{id}                 level document
//	GET    /v1/levels/{id}/render/{format} txt, tree, json, dot, svg, png, pdf
//	DELETE /v1/levels/{id}
//
// {id} also accepts a level name; the newest level with that name wins.
// Errors are JSON objects {"code": "...", "message": "..."}.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/tiltmaze/pkg/pipeline"
	"github.com/matzehuels/tiltmaze/pkg/store"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server wires the pipeline and the level store to HTTP handlers.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// New creates a server. A nil logger means log.Default().
func New(runner *pipeline.Runner, s store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: s, logger: logger}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/v1/levels", func(r chi.Router) {
		r.Post("/", s.createLevel)
		r.Get("/", s.listLevels)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getLevel)
			r.Delete("/", s.deleteLevel)
			r.Get("/render/{format}", s.renderLevel)
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, notFound("no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{
			Code:    "METHOD_NOT_ALLOWED",
			Message: r.Method + " not allowed on " + r.URL.Path,
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

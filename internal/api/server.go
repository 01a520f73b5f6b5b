// Package api exposes the section engine over HTTP. Endpoints are
// stateless: parse results travel back to the client and return on
// the filter call, so the server holds no per-document state.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"resumax/internal/compiler"
	"resumax/internal/engine"
	"resumax/internal/logger"
)

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	engine   *engine.Engine
	compiler *compiler.Compiler
	log      logger.Logger
}

// NewServer creates and configures the HTTP server. compiler may be
// nil when PDF compilation is not wanted; the compile endpoint then
// reports the toolchain as unavailable.
func NewServer(eng *engine.Engine, comp *compiler.Compiler, log logger.Logger) *Server {
	s := &Server{
		engine:   eng,
		compiler: comp,
		log:      log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/templates", s.handleTemplates)
	r.Post("/api/parse-sections", s.handleParseSections)
	r.Post("/api/filter-latex", s.handleFilterLatex)
	r.Post("/api/compile-latex", s.handleCompileLatex)

	s.router = r
}

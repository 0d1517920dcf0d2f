package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leeforge/genico/http/middleware"
	"github.com/leeforge/genico/logging"
)

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(logging.RecoveryMiddleware(s.logger))
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.TimingMiddleware())
	r.Use(logging.HTTPMiddleware(s.logger))
	r.Use(s.allowMethods(http.MethodGet, http.MethodPost))

	r.NotFound(s.handleNotFound)
	// e.g. POST /favicon.ico: an allowed method on a path that has no such route.
	r.MethodNotAllowed(s.handleNotFound)

	r.Get("/", s.handleIndex)
	r.Get("/favicon.ico", s.handleFavicon)
	r.Get("/templates/*", s.handleAsset)
	r.Post("/", s.handleConvert)

	return r
}

// allowMethods answers 405 for every other method, whatever the path.
func (s *Server) allowMethods(methods ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		allowed[m] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := allowed[r.Method]; !ok {
				s.responders.FromRequest(w, r).MethodNotAllowed()
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

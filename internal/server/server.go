// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package server is the main Impex HTTP server.
// It defines common middlewares, the response and template helpers used by
// every route.
package server

import (
	"log/slog"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"codeberg.org/impex/impex/configs"
)

// Server is a wrapper around chi router.
type Server struct {
	*chi.Mux
}

// New creates a new server. Routes must be added manually before
// calling ListenAndServe.
func New() *Server {
	s := &Server{
		chi.NewRouter(),
	}

	s.Use(
		middleware.RequestID,
		middleware.Recoverer,
		Logger(),
		CompressResponse,
		CannonicalPaths,
	)

	s.AddRoute("/api/info", infoRoutes())

	return s
}

// AddRoute adds a new route to the server.
func (s *Server) AddRoute(pattern string, handler http.Handler) {
	s.Mount(path.Join("/", pattern), handler)
}

// infoRoutes returns the route returning the service information.
func infoRoutes() http.Handler {
	r := chi.NewRouter()

	type serviceInfo struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		Render(w, r, 200, serviceInfo{
			Name:    "impex",
			Version: configs.Version(),
		})
	})

	return r
}

// GetReqID returns the request ID.
func GetReqID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

// Log returns a log entry including the request ID.
func Log(r *http.Request) *slog.Logger {
	return slog.With(slog.String("@id", GetReqID(r)))
}

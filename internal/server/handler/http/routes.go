// Package http provides HTTP routing and middleware configuration
// for the member authentication service.
package http

import (
	"net/http"

	"github.com/atinyakov/MemberAuth/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves
// the member API and, when staticHandler is non-nil, the static site.
//
// Routes:
//
//	POST /api/signup, POST /signup → authHandler.Signup
//	POST /api/login,  POST /login  → authHandler.Login
//	GET  /home                     → staticHandler.Home
//	GET  /*                        → staticHandler.Files
//
// Middleware chain (applied in order):
//  1. RequestID
//  2. Recoverer
//  3. WithRequestLogging(logger)
//  4. AllowContentType("application/json") on signup and login only
func NewRouter(
	authHandler *AuthHandler,
	staticHandler *StaticHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	credentials := func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
	}

	r.Route("/api", credentials)
	r.Group(credentials)

	if staticHandler != nil {
		r.Get("/home", staticHandler.Home)
		r.Handle("/*", staticHandler.Files())
	}

	return r
}

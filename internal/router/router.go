// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router assembles the HTTP routes and middleware chain.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/handlers"
	"inkwell/internal/metrics"
	"inkwell/internal/middleware"
)

// Deps carries everything the router mounts.
type Deps struct {
	Auth         *handlers.Auth
	Posts        *handlers.Posts
	Categories   *handlers.Categories
	Health       *handlers.Health
	Metrics      *metrics.Metrics
	Authenticate func(http.Handler) http.Handler

	// UploadsDir enables static serving of /uploads/* when the local
	// storage backend is active. Empty when images live on S3.
	UploadsDir string
}

// New builds the full route tree.
func New(d Deps) (chi.Router, *middleware.RateLimiter) {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.Metrics(d.Metrics))

	// Auth endpoints take the brunt of credential stuffing; everything
	// else stays unthrottled.
	limiter := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(limiter.Middleware)
			r.Post("/register", d.Auth.Register)
			r.Post("/login", d.Auth.Login)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", d.Posts.List)
			r.Get("/search", d.Posts.Search)
			r.Get("/{id}", d.Posts.Get)

			r.Group(func(r chi.Router) {
				r.Use(d.Authenticate)
				r.Post("/", d.Posts.Create)
				r.Put("/{id}", d.Posts.Update)
				r.Delete("/{id}", d.Posts.Delete)
				r.Post("/{id}/comments", d.Posts.AddComment)
			})
		})

		r.With(d.Authenticate).Delete("/comments/{id}", d.Posts.DeleteComment)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.Categories.List)
			r.Post("/", d.Categories.Create)
			r.With(d.Authenticate).Post("/seed", d.Categories.Seed)
		})
	})

	r.Get("/health", d.Health.Check)
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	if d.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.UploadsDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	return r, limiter
}

package main

import (
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(app.Recoverer)
	router.Use(app.RateLimiter)
	router.Use(app.Authenticate)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", app.healthcheck)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", app.signup)
			r.Post("/token", app.getToken)
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", app.getCategories)
			r.Post("/", app.createCategory)
			r.Delete("/{slug}", app.deleteCategory)
		})
		r.Route("/genres", func(r chi.Router) {
			r.Get("/", app.getGenres)
			r.Post("/", app.createGenre)
			r.Delete("/{slug}", app.deleteGenre)
		})
		r.Route("/titles", func(r chi.Router) {
			r.Get("/", app.getTitles)
			r.Post("/", app.createTitle)
			r.Get("/{id}", app.getTitle)
			r.Patch("/{id}", app.updateTitle)
			r.Delete("/{id}", app.deleteTitle)
			r.Route("/{title_id}/reviews", func(r chi.Router) {
				r.Get("/", app.getReviews)
				r.Post("/", app.createReview)
				r.Get("/{id}", app.getReview)
				r.Patch("/{id}", app.updateReview)
				r.Delete("/{id}", app.deleteReview)
				r.Route("/{review_id}/comments", func(r chi.Router) {
					r.Get("/", app.getComments)
					r.Post("/", app.createComment)
					r.Get("/{id}", app.getComment)
					r.Patch("/{id}", app.updateComment)
					r.Delete("/{id}", app.deleteComment)
				})
			})
		})
		r.Route("/users", func(r chi.Router) {
			r.With(app.requireAuthenticatedUser).Get("/me", app.getProfile)
			r.With(app.requireAuthenticatedUser).Patch("/me", app.updateProfile)
			r.Get("/", app.getUsers)
			r.Post("/", app.createUser)
			r.Get("/{username}", app.getUser)
			r.Patch("/{username}", app.updateUser)
			r.Delete("/{username}", app.deleteUser)
		})
	})
	return router
}

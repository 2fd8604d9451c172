package api

import (
	"github.com/go-chi/chi/v5"

	"blogsmith/internal/api/handlers"
	"blogsmith/internal/service"
	"blogsmith/internal/storage"
)

// NewRouter creates and configures the HTTP router. Paths and response field
// names mirror the original API so existing clients keep working.
func NewRouter(store *storage.Store, generation *service.GenerationService) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(RequestLogger)
	r.Use(Recovery)
	r.Use(CORS)

	r.Post("/articles/", handlers.CreateArticle(store))
	r.Get("/articles/", handlers.ListArticles(store))
	r.Get("/articles/{id}", handlers.GetArticle(store))
	r.Put("/articles/{id}", handlers.UpdateArticle(store))
	r.Delete("/articles/{id}", handlers.DeleteArticle(store))

	r.Get("/articles/{id}/html", handlers.PreviewArticleHTML(store))
	r.Post("/articles/{id}/references", handlers.AddReferences(store))
	r.Delete("/articles/{id}/references/{refID}", handlers.DeleteReference(store))

	// Kept under its original name for client compatibility; the response is
	// a single buffered result, not a token stream.
	r.Post("/generate/stream", handlers.GenerateArticle(generation))
	r.Post("/save-article", handlers.SaveArticle(store))

	return r
}

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"blogsmith/internal/service"
	"blogsmith/internal/storage"
)

// newTestStore creates an in-memory SQLite store with migrations applied.
func newTestStore(t *testing.T) *storage.Store {
	t.Helper()

	db, err := storage.OpenDatabase(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := storage.RunMigrations(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	return storage.NewStore(db)
}

// newTestRouter mounts the handlers on the same routes the server uses,
// without the middleware stack.
func newTestRouter(store *storage.Store, generation *service.GenerationService) *chi.Mux {
	r := chi.NewRouter()

	r.Post("/articles/", CreateArticle(store))
	r.Get("/articles/", ListArticles(store))
	r.Get("/articles/{id}", GetArticle(store))
	r.Put("/articles/{id}", UpdateArticle(store))
	r.Delete("/articles/{id}", DeleteArticle(store))

	r.Get("/articles/{id}/html", PreviewArticleHTML(store))
	r.Post("/articles/{id}/references", AddReferences(store))
	r.Delete("/articles/{id}/references/{refID}", DeleteReference(store))

	if generation != nil {
		r.Post("/generate/stream", GenerateArticle(generation))
	}
	r.Post("/save-article", SaveArticle(store))

	return r
}

// doJSON performs a request against the router with an optional JSON body and
// returns the recorded response.
func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals the recorded response body into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding response body %q: %v", rec.Body.String(), err)
	}
}

// detailOf returns the "detail" field of an error response.
func detailOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, rec, &body)
	return body["detail"]
}

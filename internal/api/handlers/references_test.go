package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"blogsmith/internal/models"
)

func TestAddReferences_ExplicitMetadata(t *testing.T) {
	router := newTestRouter(newTestStore(t), nil)
	createTestArticle(t, router)

	rec := doJSON(t, router, http.MethodPost, "/articles/1/references", map[string]any{
		"references": []map[string]any{
			{"url": "https://en.wikipedia.org/wiki/Bee", "title": "Bee - Wikipedia", "description": "Overview."},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		References []models.Reference `json:"references"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.References) != 1 {
		t.Fatalf("got %d references, want 1", len(resp.References))
	}
	if resp.References[0].ID == 0 {
		t.Error("created reference has id 0")
	}
	if resp.References[0].Title != "Bee - Wikipedia" {
		t.Errorf("title = %q, want %q", resp.References[0].Title, "Bee - Wikipedia")
	}
}

func TestAddReferences_FetchesMissingMetadata(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
  <title>All About Bees</title>
  <meta name="description" content="Everything you wanted to know about bees.">
</head>
<body><article><h1>All About Bees</h1><p>Bees are flying insects closely related to wasps and ants, known for
their role in pollination and for producing honey. There are over 16,000 known species of bees.</p></article></body>
</html>`))
	}))
	defer page.Close()

	router := newTestRouter(newTestStore(t), nil)
	createTestArticle(t, router)

	rec := doJSON(t, router, http.MethodPost, "/articles/1/references", map[string]any{
		"references": []map[string]any{
			{"url": page.URL},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		References []models.Reference `json:"references"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.References) != 1 {
		t.Fatalf("got %d references, want 1", len(resp.References))
	}
	if resp.References[0].Title != "All About Bees" {
		t.Errorf("title = %q, want page title", resp.References[0].Title)
	}
	if resp.References[0].Description == nil || *resp.References[0].Description == "" {
		t.Error("description is empty, want page description")
	}
}

func TestAddReferences_UnreachablePageFallsBackToURL(t *testing.T) {
	// A server that is already closed gives a connection error on fetch.
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := page.URL
	page.Close()

	router := newTestRouter(newTestStore(t), nil)
	createTestArticle(t, router)

	rec := doJSON(t, router, http.MethodPost, "/articles/1/references", map[string]any{
		"references": []map[string]any{
			{"url": url},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		References []models.Reference `json:"references"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.References) != 1 {
		t.Fatalf("got %d references, want 1", len(resp.References))
	}
	if resp.References[0].Title != url {
		t.Errorf("title = %q, want the URL fallback %q", resp.References[0].Title, url)
	}
}

func TestAddReferences_InvalidURL(t *testing.T) {
	router := newTestRouter(newTestStore(t), nil)
	createTestArticle(t, router)

	tests := []struct {
		name string
		url  string
	}{
		{"not a url", "not a url"},
		{"wrong scheme", "ftp://example.com/file"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/articles/1/references", map[string]any{
				"references": []map[string]any{
					{"url": tt.url, "title": "T"},
				},
			})
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestAddReferences_EmptyList(t *testing.T) {
	router := newTestRouter(newTestStore(t), nil)
	createTestArticle(t, router)

	rec := doJSON(t, router, http.MethodPost, "/articles/1/references", map[string]any{
		"references": []map[string]any{},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAddReferences_ArticleNotFound(t *testing.T) {
	router := newTestRouter(newTestStore(t), nil)

	rec := doJSON(t, router, http.MethodPost, "/articles/999/references", map[string]any{
		"references": []map[string]any{
			{"url": "https://en.wikipedia.org/wiki/Bee", "title": "Bee", "description": "d"},
		},
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteReferenceEndpoint(t *testing.T) {
	router := newTestRouter(newTestStore(t), nil)
	createTestArticle(t, router)

	rec := doJSON(t, router, http.MethodPost, "/articles/1/references", map[string]any{
		"references": []map[string]any{
			{"url": "https://en.wikipedia.org/wiki/Bee", "title": "Bee", "description": "d"},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("setup status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodDelete, "/articles/1/references/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := detailOf(t, rec); got != "Reference deleted successfully" {
		t.Errorf("detail = %q, want %q", got, "Reference deleted successfully")
	}
}

func TestDeleteReferenceEndpoint_NotFound(t *testing.T) {
	router := newTestRouter(newTestStore(t), nil)
	createTestArticle(t, router)

	rec := doJSON(t, router, http.MethodDelete, "/articles/1/references/999", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := detailOf(t, rec); got != "Reference not found" {
		t.Errorf("detail = %q, want %q", got, "Reference not found")
	}
}

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"

	"blogsmith/internal/models"
	"blogsmith/internal/storage"
)

// articleCreateRequest is the body for POST /articles/ and the metadata part
// of POST /save-article.
type articleCreateRequest struct {
	Title    *string `json:"title"`
	Topic    string  `json:"topic"`
	Style    string  `json:"style"`
	Keywords *string `json:"keywords"`
	Length   int     `json:"length"`
}

// validate rejects malformed article metadata before it reaches storage.
func (req *articleCreateRequest) validate() error {
	if strings.TrimSpace(req.Topic) == "" {
		return errors.New("topic is required")
	}
	if strings.TrimSpace(req.Style) == "" {
		return errors.New("style is required")
	}
	if req.Length <= 0 {
		return errors.New("length must be a positive integer")
	}
	return nil
}

// toArticle converts the request into a domain article with empty content.
func (req *articleCreateRequest) toArticle() *models.Article {
	return &models.Article{
		Title:    req.Title,
		Topic:    req.Topic,
		Style:    req.Style,
		Keywords: req.Keywords,
		Length:   req.Length,
	}
}

// CreateArticle handles POST /articles/. It creates an article record with
// empty content; generation and saving content happen through separate
// endpoints.
func CreateArticle(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req articleCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if err := req.validate(); err != nil {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}

		article, err := store.CreateArticle(ctx, req.toArticle())
		if err != nil {
			slog.Error("failed to create article", "topic", req.Topic, "error", err)
			writeDetail(w, http.StatusInternalServerError, "Failed to create article")
			return
		}

		writeJSON(w, http.StatusCreated, article)
	}
}

// ListArticles handles GET /articles/. Results are paginated by the "skip"
// and "limit" query parameters (defaults 0 and 10).
func ListArticles(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		skip := queryInt(r, "skip", 0)
		limit := queryInt(r, "limit", 10)

		articles, err := store.ListArticles(ctx, skip, limit)
		if err != nil {
			slog.Error("failed to list articles", "error", err)
			writeDetail(w, http.StatusInternalServerError, "Failed to list articles")
			return
		}

		if articles == nil {
			articles = []models.Article{}
		}

		writeJSON(w, http.StatusOK, articles)
	}
}

// GetArticle handles GET /articles/{id}.
func GetArticle(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseID(r, "id")
		if err != nil {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}

		article, err := store.GetArticle(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeDetail(w, http.StatusNotFound, "Article not found")
				return
			}
			slog.Error("failed to get article", "id", id, "error", err)
			writeDetail(w, http.StatusInternalServerError, "Failed to get article")
			return
		}

		writeJSON(w, http.StatusOK, article)
	}
}

// UpdateArticle handles PUT /articles/{id}. Only the content field is
// mutable; all other metadata is fixed at creation time.
func UpdateArticle(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseID(r, "id")
		if err != nil {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}

		var body struct {
			Content *string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if body.Content == nil {
			writeDetail(w, http.StatusBadRequest, "content is required")
			return
		}

		if err := store.UpdateArticleContent(ctx, id, *body.Content); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeDetail(w, http.StatusNotFound, "Article not found")
				return
			}
			slog.Error("failed to update article", "id", id, "error", err)
			writeDetail(w, http.StatusInternalServerError, "Failed to update article")
			return
		}

		article, err := store.GetArticle(ctx, id)
		if err != nil {
			slog.Error("failed to reload updated article", "id", id, "error", err)
			writeDetail(w, http.StatusInternalServerError, "Failed to get article")
			return
		}

		writeJSON(w, http.StatusOK, article)
	}
}

// DeleteArticle handles DELETE /articles/{id}. References are removed along
// with the article.
func DeleteArticle(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseID(r, "id")
		if err != nil {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := store.DeleteArticle(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeDetail(w, http.StatusNotFound, "Article not found")
				return
			}
			slog.Error("failed to delete article", "id", id, "error", err)
			writeDetail(w, http.StatusInternalServerError, "Failed to delete article")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"detail": "Article deleted successfully"})
	}
}

// PreviewArticleHTML handles GET /articles/{id}/html. It renders the stored
// markdown content to HTML for preview.
func PreviewArticleHTML(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseID(r, "id")
		if err != nil {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}

		article, err := store.GetArticle(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeDetail(w, http.StatusNotFound, "Article not found")
				return
			}
			slog.Error("failed to get article", "id", id, "error", err)
			writeDetail(w, http.StatusInternalServerError, "Failed to get article")
			return
		}

		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(article.Content), &buf); err != nil {
			slog.Error("failed to render article markdown", "id", id, "error", err)
			writeDetail(w, http.StatusInternalServerError, "Failed to render article")
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(buf.Bytes()); err != nil {
			slog.Error("failed to write preview response", "id", id, "error", err)
		}
	}
}

// SaveArticle handles POST /save-article. The body carries article metadata,
// the generated content, and optionally the references to persist alongside.
// The whole save is transactional: a failed reference write rolls back the
// article row too.
func SaveArticle(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req struct {
			articleCreateRequest
			Content    *string `json:"content"`
			References []struct {
				Title       string  `json:"title"`
				URL         string  `json:"url"`
				Description *string `json:"description"`
			} `json:"references"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if err := req.validate(); err != nil {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Content == nil {
			writeDetail(w, http.StatusBadRequest, "content is required")
			return
		}

		article := req.toArticle()
		article.Content = *req.Content

		refs := make([]models.Reference, 0, len(req.References))
		for _, ref := range req.References {
			if strings.TrimSpace(ref.URL) == "" {
				writeDetail(w, http.StatusBadRequest, "reference url is required")
				return
			}
			title := ref.Title
			if title == "" {
				title = ref.URL
			}
			refs = append(refs, models.Reference{
				Title:       title,
				URL:         ref.URL,
				Description: ref.Description,
			})
		}

		id, err := store.SaveGeneratedArticle(ctx, article, refs)
		if err != nil {
			slog.Error("failed to save article", "topic", req.Topic, "error", err)
			writeDetail(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save article: %v", err))
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": "success"})
	}
}

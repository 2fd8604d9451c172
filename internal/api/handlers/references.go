package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"blogsmith/internal/extract"
	"blogsmith/internal/models"
	"blogsmith/internal/storage"
)

// extractTimeout bounds each metadata fetch when adding references by URL.
const extractTimeout = 30 * time.Second

// AddReferences handles POST /articles/{id}/references. Each entry needs a
// URL; missing titles and descriptions are filled in from the page's own
// metadata, fetched concurrently. Metadata extraction is best-effort: when a
// page cannot be read, the URL itself stands in as the title.
func AddReferences(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		articleID, err := parseID(r, "id")
		if err != nil {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}

		var body struct {
			References []struct {
				URL         string  `json:"url"`
				Title       string  `json:"title"`
				Description *string `json:"description"`
			} `json:"references"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if len(body.References) == 0 {
			writeDetail(w, http.StatusBadRequest, "references is required")
			return
		}

		for _, ref := range body.References {
			trimmed := strings.TrimSpace(ref.URL)
			parsed, err := url.ParseRequestURI(trimmed)
			if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
				writeDetail(w, http.StatusBadRequest, "reference url must be a valid HTTP or HTTPS URL")
				return
			}
		}

		// Confirm the article exists before any outbound fetches.
		if _, err := store.GetArticle(ctx, articleID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeDetail(w, http.StatusNotFound, "Article not found")
				return
			}
			slog.Error("failed to get article", "id", articleID, "error", err)
			writeDetail(w, http.StatusInternalServerError, "Failed to get article")
			return
		}

		// Fetch page metadata for entries that need it.
		var missing []string
		missingIdx := []int{}
		for i, ref := range body.References {
			if ref.Title == "" || ref.Description == nil {
				missing = append(missing, strings.TrimSpace(ref.URL))
				missingIdx = append(missingIdx, i)
			}
		}
		metas := extract.DescribeAll(ctx, missing, extractTimeout)

		metaFor := make(map[int]*extract.PageMetadata, len(missingIdx))
		for j, i := range missingIdx {
			metaFor[i] = metas[j]
		}

		created := make([]models.Reference, 0, len(body.References))
		for i, ref := range body.References {
			title := ref.Title
			description := ref.Description

			if meta := metaFor[i]; meta != nil {
				if title == "" {
					title = meta.Title
				}
				if description == nil && meta.Description != "" {
					d := meta.Description
					description = &d
				}
			}
			if title == "" {
				title = strings.TrimSpace(ref.URL)
			}

			stored, err := store.CreateReference(ctx, &models.Reference{
				ArticleID:   articleID,
				Title:       title,
				URL:         strings.TrimSpace(ref.URL),
				Description: description,
			})
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					writeDetail(w, http.StatusNotFound, "Article not found")
					return
				}
				slog.Error("failed to create reference", "article_id", articleID, "url", ref.URL, "error", err)
				writeDetail(w, http.StatusInternalServerError, "Failed to create reference")
				return
			}
			created = append(created, *stored)
		}

		writeJSON(w, http.StatusCreated, map[string]any{"references": created})
	}
}

// DeleteReference handles DELETE /articles/{id}/references/{refID}.
func DeleteReference(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		articleID, err := parseID(r, "id")
		if err != nil {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		refID, err := parseID(r, "refID")
		if err != nil {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := store.DeleteReference(ctx, articleID, refID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeDetail(w, http.StatusNotFound, "Reference not found")
				return
			}
			slog.Error("failed to delete reference", "article_id", articleID, "ref_id", refID, "error", err)
			writeDetail(w, http.StatusInternalServerError, "Failed to delete reference")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"detail": "Reference deleted successfully"})
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"blogsmith/internal/service"
)

// generateRequest is the body for POST /generate/stream.
type generateRequest struct {
	Topic             string `json:"topic"`
	Length            int    `json:"length"`
	Style             string `json:"style"`
	Keywords          string `json:"keywords"`
	IncludeReferences bool   `json:"include_references"`
}

// validate rejects malformed generation requests before orchestration runs.
func (req *generateRequest) validate() error {
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

// GenerateArticle handles POST /generate/stream. It runs the research and
// generation pipeline and returns the complete article body in one response.
// Nothing is persisted; clients save the result via /save-article. A
// generation failure surfaces its message to the caller, which is acceptable
// for this internal-facing tool.
func GenerateArticle(generation *service.GenerationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if err := req.validate(); err != nil {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}

		content, err := generation.Generate(ctx, service.GenerateRequest{
			Topic:             req.Topic,
			Length:            req.Length,
			Style:             req.Style,
			Keywords:          req.Keywords,
			IncludeReferences: req.IncludeReferences,
		})
		if err != nil {
			slog.Error("article generation failed", "topic", req.Topic, "error", err)
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"content": content})
	}
}

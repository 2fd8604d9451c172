// Package service composes the research and generation clients into the
// article generation pipeline.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"blogsmith/internal/ai"
	"blogsmith/internal/research"
)

// Searcher fetches topical research snippets.
type Searcher interface {
	Search(ctx context.Context, topic, keywords string) ([]research.Result, error)
}

// Generator turns generation parameters and research snippets into a full
// article body.
type Generator interface {
	GenerateArticle(ctx context.Context, p ai.GenerationParams, snippets []ai.Snippet) (string, error)
}

// GenerateRequest describes one invocation of the generation pipeline.
type GenerateRequest struct {
	Topic             string
	Length            int
	Style             string
	Keywords          string
	IncludeReferences bool
}

// GenerationService runs the generate-article pipeline: optional research,
// then one generation call. It holds no state between invocations.
type GenerationService struct {
	searcher  Searcher
	generator Generator
}

// NewGenerationService creates a GenerationService from the given clients.
func NewGenerationService(searcher Searcher, generator Generator) *GenerationService {
	return &GenerationService{searcher: searcher, generator: generator}
}

// Generate runs the pipeline for one request and returns the generated
// article body. Research is best-effort: a research failure is logged and
// generation proceeds with an empty snippet list. A generation failure fails
// the whole operation. Generate never persists anything; saving is a
// separate, explicit step.
func (s *GenerationService) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	var results []research.Result
	if req.IncludeReferences {
		var err error
		results, err = s.searcher.Search(ctx, req.Topic, req.Keywords)
		if err != nil {
			slog.Warn("research failed, continuing without it", "topic", req.Topic, "error", err)
			results = nil
		}
	}

	snippets := make([]ai.Snippet, len(results))
	for i, r := range results {
		snippets[i] = ai.Snippet{Title: r.Title, Snippet: r.Content}
	}

	content, err := s.generator.GenerateArticle(ctx, ai.GenerationParams{
		Topic:    req.Topic,
		Length:   req.Length,
		Style:    req.Style,
		Keywords: req.Keywords,
	}, snippets)
	if err != nil {
		return "", fmt.Errorf("generating article: %w", err)
	}

	return content, nil
}

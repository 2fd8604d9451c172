// Package research wraps the Tavily search API used to fetch topical
// reference snippets before generation.
package research

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"blogsmith/internal/upstream"
)

const tavilyAPIURL = "https://api.tavily.com/v1/search"

// trustedDomains restricts search results to a fixed allow-list of sources.
var trustedDomains = []string{
	"wikipedia.org",
	"britannica.com",
	"scholar.google.com",
	"news.google.com",
	"nature.com",
}

// Result is a single search result. Results are transient: they feed the
// generation prompt and may be turned into references by the caller, but
// are never stored as-is.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// TavilyClient issues search requests against the Tavily API.
type TavilyClient struct {
	apiKey     string
	maxResults int
	baseURL    string // overridden in tests
	client     *http.Client
}

// NewTavilyClient creates a TavilyClient with an explicit request timeout.
// It fails fast when no API key is provided.
func NewTavilyClient(apiKey string, maxResults int, timeout time.Duration) (*TavilyClient, error) {
	if apiKey == "" {
		return nil, errors.New("tavily API key is not set")
	}
	return &TavilyClient{
		apiKey:     apiKey,
		maxResults: maxResults,
		baseURL:    tavilyAPIURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// tavilyRequest is the request body for the Tavily search API. The API key
// travels in the body, not a header.
type tavilyRequest struct {
	APIKey         string   `json:"api_key"`
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth"`
	IncludeAnswer  bool     `json:"include_answer"`
	IncludeDomains []string `json:"include_domains"`
	MaxResults     int      `json:"max_results"`
}

// tavilyResponse is the response body from the Tavily search API.
type tavilyResponse struct {
	Results []Result `json:"results"`
}

// Search queries the provider for snippets about the given topic. Keywords,
// when present, are appended to the query. The provider's results array is
// returned verbatim; it may be empty. A non-success response is returned as
// an *upstream.Error carrying the raw response body. No retries.
func (c *TavilyClient) Search(ctx context.Context, topic, keywords string) ([]Result, error) {
	query := topic
	if keywords != "" {
		query += " " + keywords
	}

	reqBody := tavilyRequest{
		APIKey:         c.apiKey,
		Query:          query,
		SearchDepth:    "advanced",
		IncludeAnswer:  true,
		IncludeDomains: trustedDomains,
		MaxResults:     c.maxResults,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	slog.Debug("calling Tavily API", "query", query)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &upstream.Error{Provider: "tavily", StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var apiResp tavilyResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing response (status %d): %w", resp.StatusCode, err)
	}

	return apiResp.Results, nil
}

// Package ai builds generation prompts and wraps the completion provider.
package ai

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

	"github.com/tidwall/gjson"

	"blogsmith/internal/upstream"
)

const groqAPIURL = "https://api.groq.com/openai/v1/chat/completions"

// temperature is fixed for all generation requests.
const temperature = 0.7

// GroqClient generates article content via the Groq chat completions API
// (OpenAI-compatible). One non-streaming request per article.
type GroqClient struct {
	apiKey  string
	model   string
	baseURL string // overridden in tests
	client  *http.Client
}

// NewGroqClient creates a GroqClient with an explicit request timeout.
// It fails fast when no API key is provided.
func NewGroqClient(apiKey, model string, timeout time.Duration) (*GroqClient, error) {
	if apiKey == "" {
		return nil, errors.New("groq API key is not set")
	}
	return &GroqClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: groqAPIURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// groqRequest is the request body for the chat completions API.
type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

// groqMessage is a single message in the chat completions request.
type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateArticle builds the prompt for the given parameters and requests a
// full article body from the completion provider. A non-success response is
// returned as an *upstream.Error carrying the raw response body.
func (c *GroqClient) GenerateArticle(ctx context.Context, p GenerationParams, research []Snippet) (string, error) {
	systemPrompt := BuildPrompt(p, research)

	reqBody := groqRequest{
		Model: c.model,
		Messages: []groqMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Write a blog article about '%s'", p.Topic)},
		},
		Temperature: temperature,
		Stream:      false,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	slog.Debug("calling Groq API", "model", c.model, "topic", p.Topic)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &upstream.Error{Provider: "groq", StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return extractContent(respBody), nil
}

// extractContent pulls the first choice's message content out of a chat
// completions response. An unexpected response shape yields an empty string
// rather than an error.
func extractContent(body []byte) string {
	return gjson.GetBytes(body, "choices.0.message.content").String()
}

// Package ollama provides optional model-backed sentiment classification.
// The lexicon strategies in internal/analyzer always run; the model result
// is an enrichment layered on top when a model is reachable.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

const (
	DefaultModel   = "gpt-oss:20b"
	DefaultTimeout = 120 * time.Second
)

// Client wraps the Ollama API client
type Client struct {
	client  *api.Client
	model   string
	timeout time.Duration
}

// Classification is the model's verdict on a block of text.
type Classification struct {
	Label string  `json:"label"` // positive, negative, neutral
	Score float64 `json:"score"` // model confidence, 0.0 to 1.0
}

// New creates a new Ollama client
func New(ollamaURL, model string) (*Client, error) {
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}
	if model == "" {
		model = DefaultModel
	}

	baseURL, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &Client{
		client:  api.NewClient(baseURL, http.DefaultClient),
		model:   model,
		timeout: DefaultTimeout,
	}, nil
}

// ClassifySentiment asks the model for a sentiment label and confidence.
func (c *Client) ClassifySentiment(ctx context.Context, text string) (*Classification, error) {
	prompt := fmt.Sprintf(`Classify the sentiment of the following text.

Respond with ONLY a JSON object of the form {"label": "...", "score": ...}
where label is one of "positive", "negative" or "neutral" and score is your
confidence between 0.0 and 1.0. No other output.

Text:
%s`, text)

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	// Models occasionally wrap the JSON in prose or code fences; pull out
	// the first object.
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in model response")
	}

	var result Classification
	if err := json.Unmarshal([]byte(raw[start:end+1]), &result); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}

	result.Label = strings.ToLower(strings.TrimSpace(result.Label))
	switch result.Label {
	case "positive", "negative", "neutral":
	default:
		return nil, fmt.Errorf("unexpected label %q in model response", result.Label)
	}
	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 1 {
		result.Score = 1
	}

	return &result, nil
}

// generate runs a non-streaming generation request and returns the full
// response text.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := &api.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: new(bool), // false
	}

	var response strings.Builder
	err := c.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		response.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}

	return strings.TrimSpace(response.String()), nil
}

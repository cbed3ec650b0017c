package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient is the concrete ModelClient backed by the Gemini API.
type GeminiClient struct {
	client      *genai.Client
	temperature float32
}

// NewGeminiClient creates a client authenticated with the given API key.
func NewGeminiClient(ctx context.Context, apiKey string, temperature float32) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiClient{client: client, temperature: temperature}, nil
}

// Generate sends the system instruction, prior turns, and user message to
// the named model and returns the raw response text.
func (c *GeminiClient) Generate(ctx context.Context, model string, req Request) (string, error) {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, turn := range req.History {
		contents = append(contents, &genai.Content{
			Role:  turn.Speaker,
			Parts: []*genai.Part{{Text: turn.Text}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: req.Message}},
	})

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.System}}},
		Temperature:       genai.Ptr[float32](c.temperature),
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content with %s: %w", model, err)
	}
	raw := resp.Text()
	if raw == "" {
		return "", fmt.Errorf("gemini: empty response from model %s", model)
	}
	return raw, nil
}

var _ ModelClient = (*GeminiClient)(nil)

// isRateLimit reports whether err carries a rate-limit signal: an HTTP 429
// status or a rate-limit indicator in the message.
func isRateLimit(err error) bool {
	if err == nil {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "rate limit")
}

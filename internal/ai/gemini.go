// Package ai wraps the Gemini generation backend behind a small client.
// The model to use is selected once at construction time and reused for
// every subsequent request.
package ai

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"paisatrack/internal/logger"
)

// FallbackText is returned as a successful result when the backend
// responds without any usable text, so callers always get displayable
// advice instead of an error.
const FallbackText = "No response generated."

// fallbackModel is used when the model list cannot be probed or contains
// no usable entry.
const fallbackModel = "gemini-2.5-flash"

// preferredModels is the selection order, most capable first.
var preferredModels = []string{
	"gemini-2.5-pro",
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
	"gemini-pro-latest",
	"gemini-flash-latest",
}

// backend is the slice of the generation API this package consumes.
type backend interface {
	ListModels(ctx context.Context) ([]string, error)
	GenerateContent(ctx context.Context, model, prompt string) (*genai.GenerateContentResponse, error)
}

// geminiBackend adapts the genai SDK client to the backend interface.
type geminiBackend struct {
	client *genai.Client
}

func (g *geminiBackend) ListModels(ctx context.Context) ([]string, error) {
	var names []string
	for model, err := range g.client.Models.All(ctx) {
		if err != nil {
			return nil, err
		}
		names = append(names, model.Name)
	}
	return names, nil
}

func (g *geminiBackend) GenerateContent(ctx context.Context, model, prompt string) (*genai.GenerateContentResponse, error) {
	return g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
}

// Client generates advice text through a fixed, startup-selected model.
type Client struct {
	backend backend
	model   string
}

// NewClient connects to the Gemini API and selects the model to use for
// the lifetime of the process.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return newClient(ctx, &geminiBackend{client: gc}), nil
}

func newClient(ctx context.Context, b backend) *Client {
	model := selectModel(ctx, b)
	logger.Get().Infow("generation model selected", "model", model)
	return &Client{backend: b, model: model}
}

// selectModel probes the backend's model list and picks the first
// preference contained in any listed name. A probe failure or an empty
// list falls back to a known-good model.
func selectModel(ctx context.Context, b backend) string {
	names, err := b.ListModels(ctx)
	if err != nil {
		logger.Get().Warnw("model list probe failed, using fallback", "error", err, "fallback", fallbackModel)
		return fallbackModel
	}

	for _, preferred := range preferredModels {
		for _, name := range names {
			if strings.Contains(name, preferred) {
				return preferred
			}
		}
	}

	if len(names) > 0 {
		return names[0]
	}
	return fallbackModel
}

// Model returns the selected model identifier.
func (c *Client) Model() string {
	return c.model
}

// Generate submits the prompt and returns the response text. Backend
// failures surface as errors; a response without text yields FallbackText
// as a successful result.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.backend.GenerateContent(ctx, c.model, prompt)
	if err != nil {
		return "", err
	}
	return extractText(resp), nil
}

// extractText pulls the first text part of the first candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return FallbackText
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return FallbackText
	}
	for _, part := range content.Parts {
		if part != nil && part.Text != "" {
			return part.Text
		}
	}
	return FallbackText
}

package enrich

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// TextModel is the narrow slice of a language model the pipeline needs:
// prompt in, text out. Tests swap in a canned implementation.
type TextModel interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenAIModel backs TextModel with the Gemini API.
type GenAIModel struct {
	client *genai.Client
	model  string
}

// NewGenAIModel builds a Gemini-backed model. Returns nil (no model) when
// the API key is absent; the pipeline then runs entirely on fallbacks.
func NewGenAIModel(ctx context.Context, apiKey, model string) (*GenAIModel, error) {
	if apiKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GenAIModel{client: client, model: model}, nil
}

// Generate runs one non-streaming completion.
func (m *GenAIModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty model response")
	}
	return text, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/helioLJ/VideoInsightAI/pkg/types"
)

// Generator abstracts the generative model call so tests can supply a
// mock. Generate returns the raw response text; any failure, including
// an empty body, is an error.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator calls the Gemini API to elicit commentary text.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator builds a generator from the analysis config.
func NewGeminiGenerator(ctx context.Context, cfg types.AnalysisConfig) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: cfg.Model}, nil
}

// Generate sends the prompt and returns the response text.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", g.model)
	}
	return text, nil
}

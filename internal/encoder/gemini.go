package encoder

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiEncoder embeds item text via Google's Gemini API
type GeminiEncoder struct {
	client     *genai.Client
	model      string
	dimensions int
}

// NewGeminiEncoder creates a Gemini text encoder
func NewGeminiEncoder(apiKey, model string, dimensions int) (*GeminiEncoder, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if model == "" {
		model = "gemini-embedding-001"
	}
	if dimensions == 0 {
		dimensions = 384
	}

	return &GeminiEncoder{
		client:     client,
		model:      model,
		dimensions: dimensions,
	}, nil
}

// Embed generates an embedding for a single text
func (e *GeminiEncoder) Embed(ctx context.Context, text string) ([]float32, error) {
	dims := int32(e.dimensions)
	content := []*genai.Content{
		{Parts: []*genai.Part{{Text: text}}},
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model, content,
		&genai.EmbedContentConfig{OutputDimensionality: &dims})
	if err != nil {
		return nil, fmt.Errorf("gemini embedding: %w", err)
	}
	if len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("gemini embedding: empty response")
	}

	return result.Embeddings[0].Values, nil
}

// Close releases resources
func (e *GeminiEncoder) Close() error {
	return nil
}

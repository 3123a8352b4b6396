package imagegen

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type GeminiGenerator struct {
	client *genai.Client
	apiKey string
	model  string
}

// NewGeminiGenerator creates a new generator backed by a Gemini image model.
func NewGeminiGenerator(ctx context.Context, apiKey string, model string) (*GeminiGenerator, error) {
	return NewGeminiGeneratorWithConfig(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}, model)
}

func NewGeminiGeneratorWithConfig(ctx context.Context, config *genai.ClientConfig, model string) (*GeminiGenerator, error) {
	if model == "" {
		model = "gemini-2.5-flash-image"
	}
	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, err
	}
	return &GeminiGenerator{
		client: client,
		apiKey: config.APIKey,
		model:  model,
	}, nil
}

// Generate sends the prompt and the optional reference as inline parts and
// returns the first inline image in the response.
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (Image, error) {
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if req.Reference != nil && len(req.Reference.Data) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.Reference.Data, req.Reference.MIMEType))
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}
	result, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		config,
	)
	if err != nil {
		return Image{}, fmt.Errorf("failed to generate content: %w", err)
	}

	for _, cand := range result.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return Image{Data: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}, nil
			}
		}
	}
	if text := result.Text(); text != "" {
		return Image{}, fmt.Errorf("%w: %s", ErrNoImage, text)
	}
	return Image{}, ErrNoImage
}

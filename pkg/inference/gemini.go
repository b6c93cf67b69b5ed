package inference

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiInferencer implements TextInferencer and ImageInferencer on the
// Gemini API. One client serves vision analysis, story generation, and panel
// rendering; the caller picks the model per call.
type GeminiInferencer struct {
	client *genai.Client
	apiKey string
	model  string
}

// NewGeminiInferencer creates a Gemini-backed inferencer.
func NewGeminiInferencer(apiKey string, model string) (*GeminiInferencer, error) {
	if model == "" {
		model = "gemini-2.0-flash-exp"
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, err
	}
	return &GeminiInferencer{
		client: client,
		apiKey: apiKey,
		model:  model,
	}, nil
}

func (g *GeminiInferencer) ChangeConfig(config *genai.ClientConfig) {
	client, err := genai.NewClient(context.Background(), config)
	if err != nil {
		return
	}
	g.client = client
}

// Infer sends the prompt (plus any inline images) to Gemini and returns the
// first candidate's text.
func (g *GeminiInferencer) Infer(ctx context.Context, opts *Options, system, user string) (string, error) {
	if opts == nil {
		opts = new(Options)
	}

	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleModel)
	}
	if opts.JSON {
		config.ResponseMIMEType = "application/json"
	}
	if opts.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(opts.Temperature))
	}

	parts := []*genai.Part{genai.NewPartFromText(user)}
	for _, img := range opts.Images {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: cmp.Or(img.MIME, "image/jpeg"), Data: img.Data},
		})
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	result, err := g.client.Models.GenerateContent(ctx, cmp.Or(opts.Model, g.model), contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(result.Candidates) == 0 {
		return "", errors.New("no candidates returned")
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", errors.New("empty candidate text")
	}
	return text, nil
}

// Render asks Gemini for image-modality output and returns the first inline
// image payload found in the response.
func (g *GeminiInferencer) Render(ctx context.Context, opts *Options, prompt string) (*ImageResult, error) {
	if opts == nil {
		opts = new(Options)
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	}

	result, err := g.client.Models.GenerateContent(ctx, cmp.Or(opts.Model, g.model), genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}

	for _, cand := range result.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &ImageResult{
					Data: part.InlineData.Data,
					MIME: cmp.Or(part.InlineData.MIMEType, "image/png"),
				}, nil
			}
		}
	}
	return nil, errors.New("no image data in response")
}

package inference

import (
	"cmp"
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

// OpenAIInferencer implements TextInferencer and ImageInferencer using
// OpenAI's official Go SDK. Vision input rides on chat completions as data
// URI image parts; panel rendering uses the Images API.
type OpenAIInferencer struct {
	client     *openai.Client
	apiKey     string
	model      string
	imageModel openai.ImageModel
}

// NewOpenAIInferencer creates a new inferencer instance using OpenAI client.
func NewOpenAIInferencer(apiKey string, model string) *OpenAIInferencer {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIInferencer{
		client:     &client,
		apiKey:     apiKey,
		model:      cmp.Or(model, "gpt-4o-mini"),
		imageModel: openai.ImageModelGPTImage1,
	}
}

func (o *OpenAIInferencer) ChangeBaseURL(baseURL string) {
	client := openai.NewClient(
		option.WithAPIKey(o.apiKey),
		option.WithBaseURL(baseURL),
	)
	o.client = &client
}

func (o *OpenAIInferencer) SetModel(model string) {
	o.model = model
}

// Infer sends text (and any inline images) to the chat completion endpoint
// and returns the output.
func (o *OpenAIInferencer) Infer(ctx context.Context, opts *Options, system, user string) (string, error) {
	if opts == nil {
		opts = new(Options)
	}

	userContent := openai.ChatCompletionUserMessageParamContentUnion{
		OfString: param.Opt[string]{Value: user},
	}
	if len(opts.Images) > 0 {
		parts := []openai.ChatCompletionContentPartUnionParam{openai.TextContentPart(user)}
		for _, img := range opts.Images {
			uri := fmt.Sprintf("data:%s;base64,%s",
				cmp.Or(img.MIME, "image/jpeg"),
				base64.StdEncoding.EncodeToString(img.Data))
			parts = append(parts, openai.ImageContentPart(
				openai.ChatCompletionContentPartImageImageURLParam{URL: uri}))
		}
		userContent = openai.ChatCompletionUserMessageParamContentUnion{OfArrayOfContentParts: parts}
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(cmp.Or(opts.Model, o.model)),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Role: "system",
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: param.Opt[string]{Value: system},
					},
				}},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Role:    "user",
					Content: userContent,
				},
			},
		},
		MaxCompletionTokens: openai.Int(4096),
		Temperature:         openai.Float(cmp.Or(opts.Temperature, 0.3)),
		TopP:                openai.Float(1.0),
	}
	switch {
	case opts.ResponseFormat != nil:
		params.ResponseFormat = *opts.ResponseFormat
	case opts.JSON:
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai inference error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	if resp.Choices[0].Message.Content == "" {
		return "", errors.New("empty completion content")
	}

	return resp.Choices[0].Message.Content, nil
}

// Render generates an image through the Images API and returns the decoded
// payload.
func (o *OpenAIInferencer) Render(ctx context.Context, opts *Options, prompt string) (*ImageResult, error) {
	if opts == nil {
		opts = new(Options)
	}

	model := o.imageModel
	if opts.Model != "" {
		model = openai.ImageModel(opts.Model)
	}

	resp, err := o.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  model,
		Size:   openai.ImageGenerateParamsSize1024x1024,
	})
	if err != nil {
		return nil, fmt.Errorf("openai image error: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, errors.New("no image data returned")
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image payload: %w", err)
	}
	return &ImageResult{Data: data, MIME: "image/png"}, nil
}

package inference

import (
	"context"

	"github.com/openai/openai-go/v3"
)

// Options tunes a single model call. A nil Options is valid everywhere and
// means "provider defaults".
type Options struct {
	// Model overrides the provider's default model for this call.
	Model string
	// Temperature is applied when > 0.
	Temperature float64
	// JSON requests strict machine-parseable JSON output. Providers that
	// support schema-constrained output additionally honor ResponseFormat.
	JSON bool
	// ResponseFormat is an optional OpenAI structured-output constraint.
	// Gemini ignores it and relies on JSON + prompt instructions instead.
	ResponseFormat *openai.ChatCompletionNewParamsResponseFormatUnion
	// Images are inline attachments for vision-capable calls.
	Images []Image
}

// Image is an inline attachment passed alongside a prompt.
type Image struct {
	MIME string
	Data []byte
}

// ImageResult is a rendered image returned by an ImageInferencer.
type ImageResult struct {
	Data []byte
	MIME string
}

// TextInferencer runs text (optionally vision) generation.
type TextInferencer interface {
	Infer(ctx context.Context, opts *Options, system, user string) (string, error)
}

// ImageInferencer renders an image from a prompt.
type ImageInferencer interface {
	Render(ctx context.Context, opts *Options, prompt string) (*ImageResult, error)
}

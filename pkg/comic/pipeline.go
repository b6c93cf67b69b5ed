package comic

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/segmentio/ksuid"

	"storyflip/pkg/inference"
	"storyflip/pkg/schema"
)

// Pipeline sequences vision analysis, story generation, and panel rendering
// into one request/response cycle. It holds no state across requests; one
// instance serves concurrent requests.
type Pipeline struct {
	cfg   Config
	text  inference.TextInferencer
	image inference.ImageInferencer
}

// New builds a pipeline from explicit configuration and the two model
// capabilities. Zero-valued Config fields fall back to the reference
// defaults.
func New(cfg Config, text inference.TextInferencer, image inference.ImageInferencer) *Pipeline {
	return &Pipeline{
		cfg:   cfg.withDefaults(),
		text:  text,
		image: image,
	}
}

// Generate runs the whole pipeline:
// validate -> analyze characters -> generate script -> render panels.
//
// Validation and story failures abort with a typed *Error; analyzer and
// renderer failures degrade per their own contracts and never abort.
func (p *Pipeline) Generate(ctx context.Context, req schema.ComicRequest) (result *schema.ComicResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline panic", "panic", r)
			result, err = nil, criticalError(fmt.Errorf("%v", r))
		}
	}()

	if p.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.RequestTimeout)
		defer cancel()
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	comicID := ksuid.New().String()
	log.Info("comic request accepted", "id", comicID, "mode", req.Mode, "genre", req.Genre, "style", req.Style)

	profiles := p.analyzeCharacters(ctx, req)

	script, err := p.generateScript(ctx, req, profiles)
	if err != nil {
		return nil, err
	}
	log.Info("script generated", "id", comicID, "title", script.Title, "panels", len(script.Panels))

	panels := p.renderPanels(ctx, script, req, profiles)

	return &schema.ComicResult{
		ComicID: comicID,
		Title:   script.Title,
		Panels:  panels,
	}, nil
}

// validate rejects requests before any model call. Image presence is not
// hard-validated: absent images degrade gracefully in the analyzer.
func validate(req schema.ComicRequest) error {
	if strings.TrimSpace(req.Name1) == "" {
		return validationError("Missing required names")
	}
	if !req.Solo() && strings.TrimSpace(req.Name2) == "" {
		return validationError("Missing required names")
	}
	return nil
}

// callContext bounds a single model call when CallTimeout is set.
func (p *Pipeline) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.cfg.CallTimeout > 0 {
		return context.WithTimeout(ctx, p.cfg.CallTimeout)
	}
	return context.WithCancel(ctx)
}

package comic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"storyflip/pkg/inference"
	"storyflip/pkg/schema"
	"storyflip/pkg/utils"
)

// storyTemperature favors narrative variety over determinism. Identical
// requests are expected to produce different stories.
const storyTemperature = 0.8

// generateScript asks the story model for a structured script and parses it
// defensively. Any failure here is fatal to the whole request: without a
// script there is no comic.
func (p *Pipeline) generateScript(ctx context.Context, req schema.ComicRequest, profiles []schema.CharacterProfile) (schema.Script, error) {
	plot := req.Plot
	if p.cfg.MaxPlotTokens > 0 {
		plot = utils.TruncateTokens(plot, p.cfg.MaxPlotTokens)
	}

	format := schema.ScriptResponseFormat()
	opts := &inference.Options{
		Model:          p.cfg.StoryModel,
		Temperature:    storyTemperature,
		JSON:           true,
		ResponseFormat: &format,
	}

	cctx, cancel := p.callContext(ctx)
	defer cancel()

	out, err := p.text.Infer(cctx, opts, buildStorySystem(req), buildStoryRequest(req, profiles, plot))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || cctx.Err() != nil {
			return schema.Script{}, timeoutError("story generation", err)
		}
		return schema.Script{}, storyError(err)
	}

	script, err := parseScript(out)
	if err != nil {
		log.Error("story output unparseable", "error", err)
		return schema.Script{}, storyError(err)
	}

	if len(script.Panels) > p.cfg.MaxPanels {
		log.Warn("clamping oversized script", "panels", len(script.Panels), "max", p.cfg.MaxPanels)
		script.Panels = script.Panels[:p.cfg.MaxPanels]
	}
	return script, nil
}

// parseScript strips markdown fencing and surrounding commentary, then
// validates the structural shape. It returns a descriptive error rather than
// a partial script.
func parseScript(raw string) (schema.Script, error) {
	cleaned := utils.ExtractJSONObject(utils.CleanJSON(raw))

	var script schema.Script
	if err := json.Unmarshal([]byte(cleaned), &script); err != nil {
		return schema.Script{}, fmt.Errorf("invalid script JSON: %w", err)
	}
	if len(script.Panels) == 0 {
		return schema.Script{}, errors.New("script contained no panels")
	}
	for i, panel := range script.Panels {
		if panel.ImagePrompt == "" {
			return schema.Script{}, fmt.Errorf("panel %d is missing image_prompt", i)
		}
	}
	return script, nil
}

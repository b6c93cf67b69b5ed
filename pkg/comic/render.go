package comic

import (
	"cmp"
	"context"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"storyflip/pkg/imgutil"
	"storyflip/pkg/inference"
	"storyflip/pkg/schema"
	"storyflip/pkg/utils"
)

// maxFallbackPromptRunes bounds the prompt placed in the fallback URL, since
// that provider is parameter driven.
const maxFallbackPromptRunes = 500

// renderPanels renders the script strictly in order, one panel at a time,
// with a cancellable delay before every render after the first. Each panel
// is independent: a fallback on one never affects the next one's primary
// attempt.
func (p *Pipeline) renderPanels(ctx context.Context, script schema.Script, req schema.ComicRequest, profiles []schema.CharacterProfile) []schema.RenderedPanel {
	panels := make([]schema.RenderedPanel, 0, len(script.Panels))
	for i, panel := range script.Panels {
		if i > 0 {
			if err := p.pause(ctx); err != nil {
				// Request is done; the remaining panels still get a
				// usable fallback reference without model calls.
				panels = append(panels, p.fallbackPanel(panel, req))
				continue
			}
		}
		panels = append(panels, p.renderPanel(ctx, i, panel, req, profiles))
	}
	return panels
}

// renderPanel never fails: any primary-path error degrades to the fallback
// renderer.
func (p *Pipeline) renderPanel(ctx context.Context, idx int, panel schema.PanelSpec, req schema.ComicRequest, profiles []schema.CharacterProfile) schema.RenderedPanel {
	cctx, cancel := p.callContext(ctx)
	defer cancel()

	res, err := p.image.Render(cctx, &inference.Options{Model: p.cfg.ImageModel}, buildPanelPrompt(panel, req, profiles))
	if err != nil {
		log.Warn("panel render failed, falling back", "panel", idx, "error", err)
		return p.fallbackPanel(panel, req)
	}

	data := res.Data
	mime := cmp.Or(res.MIME, "image/png")
	if encoded, werr := imgutil.ToWebP(data); werr == nil {
		data, mime = encoded, "image/webp"
	}
	return schema.RenderedPanel{PanelSpec: panel, Image: imgutil.DataURI(mime, data)}
}

func (p *Pipeline) fallbackPanel(panel schema.PanelSpec, req schema.ComicRequest) schema.RenderedPanel {
	return schema.RenderedPanel{
		PanelSpec: panel,
		Image:     p.fallbackURL(panel, req),
		Fallback:  true,
	}
}

// fallbackURL builds a request to the prompt-in-URL renderer: a simplified
// prompt, fixed dimensions, and a randomized seed so consecutive fallbacks
// don't render identically.
func (p *Pipeline) fallbackURL(panel schema.PanelSpec, req schema.ComicRequest) string {
	prompt := fmt.Sprintf("%s comic panel, %s, %s, %s", req.Style, req.Genre, characterNames(req), panel.ImagePrompt)
	prompt = utils.TruncateRunes(prompt, maxFallbackPromptRunes)
	return fmt.Sprintf("%s/%s?width=%d&height=%d&nologo=true&seed=%d",
		strings.TrimRight(p.cfg.FallbackEndpoint, "/"),
		url.PathEscape(prompt),
		p.cfg.FallbackWidth,
		p.cfg.FallbackHeight,
		rand.Int64N(1_000_000_000))
}

// pause waits out the inter-panel delay, aborting early on cancellation.
func (p *Pipeline) pause(ctx context.Context) error {
	if p.cfg.InterPanelDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.cfg.InterPanelDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

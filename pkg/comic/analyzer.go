package comic

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"storyflip/pkg/inference"
	"storyflip/pkg/schema"
	"storyflip/pkg/utils"
)

// analyzeCharacters produces one profile in solo mode and two otherwise. The
// pair runs concurrently; both slots are filled before this returns.
func (p *Pipeline) analyzeCharacters(ctx context.Context, req schema.ComicRequest) []schema.CharacterProfile {
	if req.Solo() {
		return []schema.CharacterProfile{p.analyzeCharacter(ctx, req.Image1, req.Name1)}
	}

	profiles := make([]schema.CharacterProfile, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		profiles[0] = p.analyzeCharacter(ctx, req.Image1, req.Name1)
	}()
	go func() {
		defer wg.Done()
		profiles[1] = p.analyzeCharacter(ctx, req.Image2, req.Name2)
	}()
	wg.Wait()
	return profiles
}

// analyzeCharacter turns one uploaded photo into an appearance description
// anchored to the name. It never fails: missing or bogus image data, model
// errors, and empty responses all degrade to a name-only profile, because
// visual fidelity is an enhancement rather than a correctness requirement.
func (p *Pipeline) analyzeCharacter(ctx context.Context, img *schema.ImageInput, name string) schema.CharacterProfile {
	fallback := schema.CharacterProfile{Name: name, Description: name}
	if img == nil || len(img.Data) == 0 {
		return fallback
	}

	mime := img.MIME
	detected := http.DetectContentType(img.Data)
	if !strings.HasPrefix(detected, "image/") {
		log.Warn("upload is not image data, skipping vision analysis", "name", name, "detected", detected)
		return fallback
	}
	if mime == "" {
		mime = detected
	}

	cctx, cancel := p.callContext(ctx)
	defer cancel()

	out, err := p.text.Infer(cctx, &inference.Options{
		Model:  p.cfg.VisionModel,
		Images: []inference.Image{{MIME: mime, Data: img.Data}},
	}, "", buildVisionPrompt(name))
	if err != nil {
		log.Warn("vision analysis failed, using name only", "name", name, "error", err)
		return fallback
	}

	desc := strings.TrimSpace(out)
	if desc == "" {
		return fallback
	}
	log.Debug("vision analysis", "name", name, "description", utils.LimitStr(desc, 120))
	return schema.CharacterProfile{Name: name, Description: desc}
}

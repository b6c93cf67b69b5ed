package comic

import (
	"fmt"
	"strings"

	"storyflip/pkg/schema"
)

const visionPromptFmt = `Analyze this person's face and appearance in extreme detail for a character consistency reference.
Focus on:
1. Hair (color, exact style, length, texture)
2. Eyes (color, shape)
3. Skin tone and complexion
4. Distinct facial features (beard, glasses, freckles, mole, face shape)
5. Age approximation

Output format: '%s has [detailed description].'
Keep it under 50 words but make it very specific.`

const storySystemFmt = `You are a master comic book writer specializing in %s stories.

Art Style: %s
Tone: %s

Output strict JSON only.
Format:
{
  "title": "Story Title",
  "panels": [
    {
      "caption": "Narrative text",
      "dialogue": "Character dialogue",
      "image_prompt": "detailed %s style illustration of %s, [action], perfect faces, cinematic lighting, %s atmosphere"
    }
  ]
}

Every panel's image_prompt must restate the art style, the character names, and the %s atmosphere so it can drive image rendering on its own.`

func buildVisionPrompt(name string) string {
	return fmt.Sprintf(visionPromptFmt, name)
}

func buildStorySystem(req schema.ComicRequest) string {
	names := characterNames(req)
	return fmt.Sprintf(storySystemFmt, req.Genre, req.Style, req.Genre, req.Style, names, req.Genre, req.Genre)
}

// buildStoryRequest is the user-side half of the story call: the cast with
// their locked-in visual data, plus the user's plot as a hard constraint.
func buildStoryRequest(req schema.ComicRequest, profiles []schema.CharacterProfile, plot string) string {
	var b strings.Builder
	if req.Solo() {
		fmt.Fprintf(&b, "Create a 6-panel comic script about %s. VISUAL DATA: %s.", req.Name1, profiles[0].Description)
	} else {
		pair := "couple"
		if req.Mode == schema.ModeFriends {
			pair = "pair of best friends"
		}
		fmt.Fprintf(&b, "Create a 6-panel comic script for a %s named %s and %s. VISUAL DATA 1: %s. VISUAL DATA 2: %s.",
			pair, req.Name1, req.Name2, profiles[0].Description, profiles[1].Description)
	}
	if plot != "" {
		fmt.Fprintf(&b, "\nSPECIFIC PLOT DETAILS PROVIDED BY USER (MUST FOLLOW): %s", plot)
	}
	return b.String()
}

// buildPanelPrompt composes the primary rendering prompt: style and genre
// framing, the panel's own prompt, and the visual consistency notes that keep
// likenesses stable across panels.
func buildPanelPrompt(panel schema.PanelSpec, req schema.ComicRequest, profiles []schema.CharacterProfile) string {
	var traits strings.Builder
	for _, pr := range profiles {
		fmt.Fprintf(&traits, "- %s: %s\n", pr.Name, pr.Description)
	}
	return fmt.Sprintf(`%s style comic panel. %s atmosphere.
%s

Key Visual Traits to maintain:
%s
High quality, masterpiece, detailed textures, expressive faces.`,
		req.Style, req.Genre, panel.ImagePrompt, traits.String())
}

func characterNames(req schema.ComicRequest) string {
	if req.Solo() {
		return req.Name1
	}
	return req.Name1 + " and " + req.Name2
}

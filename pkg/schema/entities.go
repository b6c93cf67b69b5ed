package schema

import "strings"

// Mode selects how many characters the comic features.
type Mode string

const (
	ModeSolo    Mode = "solo"
	ModeCouple  Mode = "couple"
	ModeFriends Mode = "friends"
)

// ParseMode normalizes a form value into a Mode, defaulting to couple.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSolo:
		return ModeSolo
	case ModeFriends:
		return ModeFriends
	default:
		return ModeCouple
	}
}

// ImageInput is an uploaded photo: raw bytes plus the media type the client
// declared for it. The declared type is advisory; the analyzer sniffs the
// bytes before trusting it.
type ImageInput struct {
	Data []byte
	MIME string
}

// ComicRequest is the immutable input to the pipeline.
type ComicRequest struct {
	Mode   Mode
	Name1  string
	Name2  string
	Image1 *ImageInput
	Image2 *ImageInput
	Genre  string
	Style  string
	Plot   string
}

// Solo reports whether the request features a single character.
func (r ComicRequest) Solo() bool { return r.Mode == ModeSolo }

// CharacterProfile anchors an appearance description to a display name.
// Description is never empty: it degrades to the bare name when vision
// analysis is unavailable or fails.
type CharacterProfile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PanelSpec is one unit of the generated script.
type PanelSpec struct {
	Caption     string `json:"caption" jsonschema_description:"Narrative text shown above or below the panel"`
	Dialogue    string `json:"dialogue" jsonschema_description:"Character speech for this panel"`
	ImagePrompt string `json:"image_prompt" jsonschema_description:"Self-sufficient illustration prompt restating the art style, character names, and genre atmosphere"`
}

// Script is the story generator's structured output before any images are
// attached.
type Script struct {
	Title  string      `json:"title" jsonschema_description:"Title of the comic story"`
	Panels []PanelSpec `json:"panels" jsonschema_description:"Ordered panels of the story"`
}

// RenderedPanel is a PanelSpec with its image attached. Image is either an
// inline data URI (primary path) or a URL to the fallback renderer.
type RenderedPanel struct {
	PanelSpec
	Image    string `json:"image"`
	Fallback bool   `json:"fallback,omitempty"`
}

// ComicResult is the final pipeline output. ComicID is a correlation token
// only; nothing is persisted under it.
type ComicResult struct {
	ComicID string          `json:"comicId"`
	Title   string          `json:"title"`
	Panels  []RenderedPanel `json:"panels"`
}

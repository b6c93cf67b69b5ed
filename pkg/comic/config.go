package comic

import "time"

// Config is the explicit configuration for one pipeline instance. Nothing in
// the pipeline reads the process environment; cmd/main assembles a Config
// and injects it together with the model capabilities.
type Config struct {
	// VisionModel analyzes uploaded photos into appearance descriptions.
	VisionModel string
	// StoryModel writes the structured script.
	StoryModel string
	// ImageModel renders panel illustrations.
	ImageModel string

	// FallbackEndpoint is the prompt-in-URL image renderer used when the
	// primary image model fails for a panel.
	FallbackEndpoint string
	FallbackWidth    int
	FallbackHeight   int

	// InterPanelDelay spaces out sequential panel renders to stay under
	// upstream rate limits.
	InterPanelDelay time.Duration
	// RequestTimeout bounds one whole pipeline run.
	RequestTimeout time.Duration
	// CallTimeout bounds each individual model call.
	CallTimeout time.Duration

	// MaxPanels clamps oversized scripts. The target length is a prompt
	// instruction, not a validation; this only bounds the render loop.
	MaxPanels int
	// MaxPlotTokens caps the user-supplied plot before prompt assembly.
	MaxPlotTokens int
}

// DefaultConfig mirrors the reference deployment.
func DefaultConfig() Config {
	return Config{
		VisionModel:      "gemini-1.5-flash",
		StoryModel:       "gemini-2.0-flash-exp",
		ImageModel:       "gemini-2.0-flash-exp",
		FallbackEndpoint: "https://image.pollinations.ai/prompt",
		FallbackWidth:    1024,
		FallbackHeight:   1024,
		InterPanelDelay:  time.Second,
		RequestTimeout:   3 * time.Minute,
		CallTimeout:      45 * time.Second,
		MaxPanels:        12,
		MaxPlotTokens:    512,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.VisionModel == "" {
		c.VisionModel = d.VisionModel
	}
	if c.StoryModel == "" {
		c.StoryModel = d.StoryModel
	}
	if c.ImageModel == "" {
		c.ImageModel = d.ImageModel
	}
	if c.FallbackEndpoint == "" {
		c.FallbackEndpoint = d.FallbackEndpoint
	}
	if c.FallbackWidth <= 0 {
		c.FallbackWidth = d.FallbackWidth
	}
	if c.FallbackHeight <= 0 {
		c.FallbackHeight = d.FallbackHeight
	}
	if c.InterPanelDelay <= 0 {
		c.InterPanelDelay = d.InterPanelDelay
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = d.RequestTimeout
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = d.CallTimeout
	}
	if c.MaxPanels <= 0 {
		c.MaxPanels = d.MaxPanels
	}
	if c.MaxPlotTokens <= 0 {
		c.MaxPlotTokens = d.MaxPlotTokens
	}
	return c
}

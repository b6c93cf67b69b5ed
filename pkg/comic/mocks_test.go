package comic

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"storyflip/pkg/inference"
)

// --- Mocks ---

type textCall struct {
	opts   *inference.Options
	system string
	user   string
}

// mockText serves both vision analysis (calls carrying inline images) and
// story generation (calls requesting JSON output).
type mockText struct {
	mu    sync.Mutex
	calls []textCall

	visionOut string
	visionErr error
	storyOut  string
	storyErr  error
}

func (m *mockText) Infer(ctx context.Context, opts *inference.Options, system, user string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, textCall{opts: opts, system: system, user: user})
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if opts != nil && len(opts.Images) > 0 {
		return m.visionOut, m.visionErr
	}
	return m.storyOut, m.storyErr
}

func (m *mockText) visionCalls() []textCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []textCall
	for _, c := range m.calls {
		if c.opts != nil && len(c.opts.Images) > 0 {
			out = append(out, c)
		}
	}
	return out
}

func (m *mockText) storyCalls() []textCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []textCall
	for _, c := range m.calls {
		if c.opts == nil || len(c.opts.Images) == 0 {
			out = append(out, c)
		}
	}
	return out
}

type mockImage struct {
	mu      sync.Mutex
	prompts []string

	failAt map[int]error // by zero-based call index
	err    error         // fail every call
	data   []byte
}

func (m *mockImage) Render(ctx context.Context, opts *inference.Options, prompt string) (*inference.ImageResult, error) {
	m.mu.Lock()
	idx := len(m.prompts)
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if err, ok := m.failAt[idx]; ok {
		return nil, err
	}
	return &inference.ImageResult{Data: m.data, MIME: "image/png"}, nil
}

func (m *mockImage) rendered() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// --- fixtures ---

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func testConfig() Config {
	return Config{
		FallbackEndpoint: "https://image.pollinations.ai/prompt",
		InterPanelDelay:  1, // effectively immediate, still exercises pause
	}
}

const scriptJSON = `{
  "title": "First Light",
  "panels": [
    {"caption": "A quiet morning.", "dialogue": "Ready?", "image_prompt": "comic style illustration of Ava and Leo at a cafe, romantic atmosphere"},
    {"caption": "They step outside.", "dialogue": "Always.", "image_prompt": "comic style illustration of Ava and Leo walking, romantic atmosphere"},
    {"caption": "Rain begins to fall.", "dialogue": "Run!", "image_prompt": "comic style illustration of Ava and Leo running in rain, romantic atmosphere"},
    {"caption": "Shelter at last.", "dialogue": "Worth it.", "image_prompt": "comic style illustration of Ava and Leo laughing under an awning, romantic atmosphere"}
  ]
}`

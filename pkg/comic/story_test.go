package comic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyflip/pkg/schema"
)

func TestParseScript(t *testing.T) {
	t.Run("plain JSON", func(t *testing.T) {
		script, err := parseScript(scriptJSON)
		require.NoError(t, err)
		assert.Equal(t, "First Light", script.Title)
		assert.Len(t, script.Panels, 4)
		assert.Equal(t, "Ready?", script.Panels[0].Dialogue)
	})

	t.Run("fenced JSON with commentary", func(t *testing.T) {
		raw := "Here is your script:\n```json\n" + scriptJSON + "\n```\nEnjoy!"
		script, err := parseScript(raw)
		require.NoError(t, err)
		assert.Len(t, script.Panels, 4)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		_, err := parseScript(`{"title": "broken", "panels": [`)
		assert.Error(t, err)
	})

	t.Run("zero panels", func(t *testing.T) {
		_, err := parseScript(`{"title": "empty", "panels": []}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no panels")
	})

	t.Run("panel missing image_prompt", func(t *testing.T) {
		_, err := parseScript(`{"title": "partial", "panels": [{"caption": "c", "dialogue": "d", "image_prompt": ""}]}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "image_prompt")
	})
}

func TestGenerateScript(t *testing.T) {
	ctx := context.Background()
	req := schema.ComicRequest{Mode: schema.ModeCouple, Name1: "Ava", Name2: "Leo", Genre: "romantic", Style: "comic"}
	profiles := []schema.CharacterProfile{
		{Name: "Ava", Description: "Ava has auburn hair"},
		{Name: "Leo", Description: "Leo has a short beard"},
	}

	t.Run("success carries temperature and structured output", func(t *testing.T) {
		text := &mockText{storyOut: scriptJSON}
		p := New(testConfig(), text, &mockImage{})

		script, err := p.generateScript(ctx, req, profiles)
		require.NoError(t, err)
		assert.Equal(t, "First Light", script.Title)

		calls := text.storyCalls()
		require.Len(t, calls, 1)
		assert.InDelta(t, storyTemperature, calls[0].opts.Temperature, 1e-9)
		assert.True(t, calls[0].opts.JSON)
		assert.NotNil(t, calls[0].opts.ResponseFormat)
		assert.Contains(t, calls[0].system, "master comic book writer specializing in romantic stories")
		assert.Contains(t, calls[0].user, "VISUAL DATA 1: Ava has auburn hair")
		assert.Contains(t, calls[0].user, "couple named Ava and Leo")
	})

	t.Run("model error maps to story failure", func(t *testing.T) {
		text := &mockText{storyErr: errors.New("upstream 500")}
		p := New(testConfig(), text, &mockImage{})

		_, err := p.generateScript(ctx, req, profiles)
		require.Error(t, err)
		assert.Equal(t, KindStory, KindOf(err))
		assert.Contains(t, MessageOf(err), "Story Model Failed")
	})

	t.Run("unparseable output maps to story failure", func(t *testing.T) {
		text := &mockText{storyOut: "I refuse to answer in JSON."}
		p := New(testConfig(), text, &mockImage{})

		_, err := p.generateScript(ctx, req, profiles)
		require.Error(t, err)
		assert.Equal(t, KindStory, KindOf(err))
	})

	t.Run("cancelled context maps to timeout", func(t *testing.T) {
		text := &mockText{storyErr: context.DeadlineExceeded}
		p := New(testConfig(), text, &mockImage{})

		_, err := p.generateScript(ctx, req, profiles)
		require.Error(t, err)
		assert.Equal(t, KindTimeout, KindOf(err))
	})

	t.Run("oversized script is clamped", func(t *testing.T) {
		text := &mockText{storyOut: scriptJSON}
		cfg := testConfig()
		cfg.MaxPanels = 2
		p := New(cfg, text, &mockImage{})

		script, err := p.generateScript(ctx, req, profiles)
		require.NoError(t, err)
		assert.Len(t, script.Panels, 2)
		assert.Equal(t, "A quiet morning.", script.Panels[0].Caption)
	})
}

package comic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyflip/pkg/schema"
)

func TestAnalyzeCharacter(t *testing.T) {
	ctx := context.Background()

	t.Run("absent image skips the model entirely", func(t *testing.T) {
		text := &mockText{}
		p := New(testConfig(), text, &mockImage{})

		got := p.analyzeCharacter(ctx, nil, "Ava")

		assert.Equal(t, schema.CharacterProfile{Name: "Ava", Description: "Ava"}, got)
		assert.Empty(t, text.calls)
	})

	t.Run("non-image bytes skip the model", func(t *testing.T) {
		text := &mockText{}
		p := New(testConfig(), text, &mockImage{})

		got := p.analyzeCharacter(ctx, &schema.ImageInput{Data: []byte("definitely not a photo"), MIME: "image/jpeg"}, "Ava")

		assert.Equal(t, "Ava", got.Description)
		assert.Empty(t, text.calls)
	})

	t.Run("model error degrades to name only", func(t *testing.T) {
		text := &mockText{visionErr: errors.New("quota exhausted")}
		p := New(testConfig(), text, &mockImage{})

		got := p.analyzeCharacter(ctx, &schema.ImageInput{Data: testPNG(t)}, "Ava")

		assert.Equal(t, schema.CharacterProfile{Name: "Ava", Description: "Ava"}, got)
		assert.Len(t, text.visionCalls(), 1)
	})

	t.Run("empty model output degrades to name only", func(t *testing.T) {
		text := &mockText{visionOut: "   \n"}
		p := New(testConfig(), text, &mockImage{})

		got := p.analyzeCharacter(ctx, &schema.ImageInput{Data: testPNG(t)}, "Ava")
		assert.Equal(t, "Ava", got.Description)
	})

	t.Run("successful analysis is trimmed and anchored to the name", func(t *testing.T) {
		text := &mockText{visionOut: "  Ava has short auburn hair, green eyes, and freckles.  "}
		p := New(testConfig(), text, &mockImage{})

		got := p.analyzeCharacter(ctx, &schema.ImageInput{Data: testPNG(t), MIME: "image/png"}, "Ava")

		assert.Equal(t, "Ava has short auburn hair, green eyes, and freckles.", got.Description)

		calls := text.visionCalls()
		require.Len(t, calls, 1)
		assert.Contains(t, calls[0].user, "Ava has")
		assert.Equal(t, "image/png", calls[0].opts.Images[0].MIME)
	})
}

func TestAnalyzeCharacters(t *testing.T) {
	ctx := context.Background()

	t.Run("solo yields exactly one profile", func(t *testing.T) {
		text := &mockText{}
		p := New(testConfig(), text, &mockImage{})

		profiles := p.analyzeCharacters(ctx, schema.ComicRequest{Mode: schema.ModeSolo, Name1: "Ava"})

		require.Len(t, profiles, 1)
		assert.Equal(t, "Ava", profiles[0].Name)
		assert.Empty(t, text.calls)
	})

	t.Run("couple analyzes both photos", func(t *testing.T) {
		text := &mockText{visionOut: "described"}
		p := New(testConfig(), text, &mockImage{})

		img := testPNG(t)
		profiles := p.analyzeCharacters(ctx, schema.ComicRequest{
			Mode:   schema.ModeCouple,
			Name1:  "Ava",
			Name2:  "Leo",
			Image1: &schema.ImageInput{Data: img},
			Image2: &schema.ImageInput{Data: img},
		})

		require.Len(t, profiles, 2)
		assert.Equal(t, "Ava", profiles[0].Name)
		assert.Equal(t, "Leo", profiles[1].Name)
		assert.Len(t, text.visionCalls(), 2)
	})

	t.Run("one failing analysis does not disturb the other", func(t *testing.T) {
		text := &mockText{visionOut: "described", visionErr: nil}
		p := New(testConfig(), text, &mockImage{})

		profiles := p.analyzeCharacters(ctx, schema.ComicRequest{
			Mode:   schema.ModeFriends,
			Name1:  "Ava",
			Name2:  "Leo",
			Image2: &schema.ImageInput{Data: testPNG(t)},
		})

		require.Len(t, profiles, 2)
		assert.Equal(t, "Ava", profiles[0].Description) // no photo -> bare name
		assert.Equal(t, "described", profiles[1].Description)
	})
}

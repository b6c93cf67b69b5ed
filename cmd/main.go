package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"
	gommon "github.com/labstack/gommon/log"

	"storyflip/pkg/comic"
	"storyflip/pkg/inference"
	"storyflip/pkg/server"
)

func main() {
	ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	cfg := comic.Config{
		VisionModel:      os.Getenv("VISION_MODEL"),
		StoryModel:       os.Getenv("STORY_MODEL"),
		ImageModel:       os.Getenv("IMAGE_MODEL"),
		FallbackEndpoint: os.Getenv("FALLBACK_ENDPOINT"),
	}

	text, image := pickProviders(&cfg)
	pipeline := comic.New(cfg, text, image)

	srv := server.NewServer(pipeline)
	srv.Echo.Logger.SetLevel(gommon.INFO)

	addr := ":8080"
	if envAddr := os.Getenv("PORT"); envAddr != "" {
		addr = ":" + envAddr
	}

	finishedShutDown := make(chan struct{})
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("shutdown failed", "error", err)
		}
		done()
		close(finishedShutDown)
	}()

	log.Info("listening", "addr", addr)
	if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", "error", err)
	}
	<-finishedShutDown
}

// pickProviders wires the model capabilities from whichever API key is
// present. Gemini takes precedence since the default pipeline models are
// Gemini models; OpenAI serves both capabilities otherwise.
func pickProviders(cfg *comic.Config) (inference.TextInferencer, inference.ImageInferencer) {
	if geminiKey := os.Getenv("GEMINI_API_KEY"); geminiKey != "" {
		gem, err := inference.NewGeminiInferencer(geminiKey, cfg.StoryModel)
		if err != nil {
			log.Fatal("failed to create gemini client", "error", err)
		}
		return gem, gem
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	oai := inference.NewOpenAIInferencer(apiKey, os.Getenv("OPENAI_MODEL"))
	if apiKey == "" {
		oai.ChangeBaseURL("http://localhost:1234/v1")
		oai.SetModel("")
	}
	// OpenAI model names, unless the env pinned something else.
	if cfg.VisionModel == "" {
		cfg.VisionModel = "gpt-4o-mini"
	}
	if cfg.StoryModel == "" {
		cfg.StoryModel = "gpt-4o-mini"
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = "gpt-image-1"
	}
	log.Warn("GEMINI_API_KEY not set, using OpenAI-compatible backend")
	return oai, oai
}

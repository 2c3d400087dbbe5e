// proboutik-extract runs one media file through the extraction pipeline and
// prints the finished record as JSON. Operational tool; nothing is persisted.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/WaelTissaoui/proboutikapp/constants"
	"github.com/WaelTissaoui/proboutikapp/internal/common"
	"github.com/WaelTissaoui/proboutikapp/internal/extract"
	"github.com/WaelTissaoui/proboutikapp/internal/llm/openai"
	"github.com/WaelTissaoui/proboutikapp/internal/transcribe"
	"github.com/WaelTissaoui/proboutikapp/internal/transcribe/andakia"
	"github.com/WaelTissaoui/proboutikapp/internal/transcribe/whisper"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: proboutik-extract <file>")
		os.Exit(2)
	}
	path := os.Args[1]
	ext := filepath.Ext(path)

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read file", "path", path, "error", err)
		os.Exit(1)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	model := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		VisionModel: cfg.LLM.VisionModel,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	detector := whisper.NewClient(whisper.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.Transcribe.DetectModel,
		Timeout: cfg.Transcribe.DetectTimeout,
	}, logger)
	wolof := andakia.NewClient(andakia.Config{
		APIKey:  cfg.Transcribe.AndakiaAPIKey,
		URL:     cfg.Transcribe.AndakiaURL,
		Timeout: cfg.Transcribe.AndakiaTimeout,
	}, logger)

	svc := extract.NewService(model, model, transcribe.NewRouter(detector, wolof, logger), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	var out any
	switch {
	case constants.IsImageExt(ext):
		result, err := svc.FromImage(ctx, data, filepath.Base(path))
		if err != nil {
			logger.Error("image extraction failed", "error", err)
			os.Exit(1)
		}
		out = result
	case constants.IsAudioExt(ext):
		result, err := svc.FromAudio(ctx, data, filepath.Base(path))
		if err != nil {
			logger.Error("audio extraction failed", "error", err)
			os.Exit(1)
		}
		out = result
	default:
		fmt.Fprintf(os.Stderr, "unsupported file extension: %s\n", ext)
		os.Exit(2)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
}

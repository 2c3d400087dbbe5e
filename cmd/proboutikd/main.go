package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WaelTissaoui/proboutikapp/internal/common"
	"github.com/WaelTissaoui/proboutikapp/internal/export"
	"github.com/WaelTissaoui/proboutikapp/internal/extract"
	"github.com/WaelTissaoui/proboutikapp/internal/history"
	"github.com/WaelTissaoui/proboutikapp/internal/llm/openai"
	"github.com/WaelTissaoui/proboutikapp/internal/server"
	"github.com/WaelTissaoui/proboutikapp/internal/transcribe"
	"github.com/WaelTissaoui/proboutikapp/internal/transcribe/andakia"
	"github.com/WaelTissaoui/proboutikapp/internal/transcribe/whisper"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

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

	router := transcribe.NewRouter(detector, wolof, logger)
	svc := extract.NewService(model, model, router, logger)

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		logger.Error("open history store", "path", cfg.History.Path, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	handler := server.NewHandler(server.Deps{
		Extract: svc,
		History: store,
		Export:  export.NewService(store, logger),
		Logger:  logger,
	})

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http server listening", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}

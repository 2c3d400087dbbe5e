// Package andakia talks to the dedicated Wolof speech-to-text backend. Its
// transcript is authoritative when the router detects Wolof speech.
package andakia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/WaelTissaoui/proboutikapp/internal/common"
)

// The backend's fixed form parameters.
const (
	sampleRate     = "16000"
	tempoFactor    = "1.0"
	targetLanguage = "fr"
)

// Config for the Andakia client.
type Config struct {
	APIKey  string
	URL     string // full endpoint URL
	Timeout time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logger,
	}
}

// Transcribe posts the clip as multipart form data and returns the backend's
// transcription. Any failure, transport or reported by the backend, is a
// *common.TranscriptionError.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("incoming_file", filename)
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(audio)); err != nil {
		return "", fmt.Errorf("writing audio: %w", err)
	}
	_ = writer.WriteField("sample_rate", sampleRate)
	_ = writer.WriteField("tempo_factor", tempoFactor)
	_ = writer.WriteField("target_language", targetLanguage)
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", &common.TranscriptionError{Backend: "andakia", Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	var result struct {
		Transcription string `json:"transcription"`
		ErrorMessage  string `json:"error_message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &common.TranscriptionError{Backend: "andakia", Message: "decoding response", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		msg := result.ErrorMessage
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", &common.TranscriptionError{Backend: "andakia", Message: msg}
	}

	c.log.Debug("andakia.transcribe_complete",
		"text_len", len(result.Transcription),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result.Transcription, nil
}

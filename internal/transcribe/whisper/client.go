// Package whisper talks to an OpenAI-style audio transcriptions endpoint in
// auto-detect mode: one call identifies the spoken language and produces a
// draft transcript.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/WaelTissaoui/proboutikapp/internal/common"
	"github.com/WaelTissaoui/proboutikapp/internal/transcribe"
)

// Config for the auto-detect client.
type Config struct {
	APIKey  string // if empty, falls back to env OPENAI_API_KEY
	BaseURL string // default https://api.openai.com/v1
	Model   string // e.g. "whisper-1"
	Timeout time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "whisper-1"
	}
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

// DetectAndTranscribe sends the clip with no language hint and
// response_format=verbose_json, so the reply carries both the detected
// language and the draft text.
func (c *Client) DetectAndTranscribe(ctx context.Context, audio []byte, filename string) (transcribe.Outcome, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return transcribe.Outcome{}, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(audio)); err != nil {
		return transcribe.Outcome{}, fmt.Errorf("writing audio: %w", err)
	}
	_ = writer.WriteField("model", c.cfg.Model)
	_ = writer.WriteField("response_format", "verbose_json")
	if err := writer.Close(); err != nil {
		return transcribe.Outcome{}, fmt.Errorf("closing form: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return transcribe.Outcome{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return transcribe.Outcome{}, &common.TranscriptionError{Backend: "whisper", Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return transcribe.Outcome{}, &common.TranscriptionError{
			Backend: "whisper",
			Message: fmt.Sprintf("status %d: %s", resp.StatusCode, respBody),
		}
	}

	var result struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return transcribe.Outcome{}, &common.TranscriptionError{Backend: "whisper", Message: "decoding response", Cause: err}
	}

	lang := normalizeLanguage(result.Language)
	c.log.Debug("whisper.detect_complete", "language", lang, "text_len", len(result.Text))
	return transcribe.Outcome{DetectedLanguage: lang, TranscriptText: result.Text}, nil
}

// normalizeLanguage converts full language names (as returned by the
// endpoint's verbose_json mode) to ISO-639-1 codes.
func normalizeLanguage(lang string) string {
	l := strings.ToLower(strings.TrimSpace(lang))
	if len(l) == 2 {
		return l
	}
	known := map[string]string{
		"english":    "en",
		"french":     "fr",
		"arabic":     "ar",
		"wolof":      "wo",
		"spanish":    "es",
		"german":     "de",
		"italian":    "it",
		"portuguese": "pt",
	}
	if code, ok := known[l]; ok {
		return code
	}
	return l
}

package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/WaelTissaoui/proboutikapp/constants"
)

// Router picks the authoritative transcription backend for an audio clip
// based on its auto-detected spoken language. The table:
//
//	wo / wolof       -> re-transcribe on the dedicated Wolof backend,
//	                    discarding the draft
//	ar, fr, en       -> accept the draft transcript, no second call
//	anything else    -> fixed "language not supported" placeholder,
//	                    no transcription call
//
// Comparison is case-insensitive. The detector is trusted unconditionally;
// the Wolof backend's reply is only used for its text.
type Router struct {
	detector Detector
	wolof    Transcriber
	log      *slog.Logger
}

// Result is the routed transcription. Supported is false only on the
// placeholder branch, where TranscriptText carries the user-facing message
// instead of speech.
type Result struct {
	DetectedLanguage string
	TranscriptText   string
	Supported        bool
}

func NewRouter(detector Detector, wolof Transcriber, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{detector: detector, wolof: wolof, log: logger}
}

// Route runs the detect -> branch -> transcribe sequence for one clip.
// Backend failures surface as *common.TranscriptionError from the clients.
func (r *Router) Route(ctx context.Context, audio []byte, filename string) (Result, error) {
	rid := uuid.New().String()
	start := time.Now()

	outcome, err := r.detector.DetectAndTranscribe(ctx, audio, filename)
	if err != nil {
		r.log.Error("transcribe.detect_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Result{}, err
	}

	lang := outcome.DetectedLanguage
	switch {
	case constants.IsWolof(lang):
		text, err := r.wolof.Transcribe(ctx, audio, filename)
		if err != nil {
			r.log.Error("transcribe.wolof_error",
				"req_id", rid, "error", err,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return Result{}, err
		}
		r.log.Info("transcribe.routed",
			"req_id", rid, "language", lang, "backend", "andakia",
			"transcript_len", len(text),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Result{DetectedLanguage: lang, TranscriptText: text, Supported: true}, nil

	case constants.IsDraftLanguage(lang):
		r.log.Info("transcribe.routed",
			"req_id", rid, "language", lang, "backend", "draft",
			"transcript_len", len(outcome.TranscriptText),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Result{DetectedLanguage: lang, TranscriptText: outcome.TranscriptText, Supported: true}, nil

	default:
		r.log.Warn("transcribe.unsupported_language",
			"req_id", rid, "language", lang,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Result{
			DetectedLanguage: lang,
			TranscriptText:   fmt.Sprintf("Language %q is not supported.", lang),
			Supported:        false,
		}, nil
	}
}

package transcribe

import "context"

// Outcome is what the auto-detect pass produces: the spoken language and a
// draft transcript, in one call.
type Outcome struct {
	DetectedLanguage string
	TranscriptText   string
}

// Detector is the primary speech endpoint: identifies the spoken language and
// produces a draft transcript in one pass.
type Detector interface {
	DetectAndTranscribe(ctx context.Context, audio []byte, filename string) (Outcome, error)
}

// Transcriber is a dedicated transcription backend whose text is
// authoritative for its language.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

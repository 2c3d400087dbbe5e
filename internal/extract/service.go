// Package extract orchestrates the media-to-record pipelines: image ->
// vision model -> repair -> normalize -> date delta, and audio -> language
// routing -> transcription -> text model -> repair -> normalize.
package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/WaelTissaoui/proboutikapp/internal/llm"
	"github.com/WaelTissaoui/proboutikapp/internal/transcribe"
)

// Service runs one submission at a time through the full chain. It holds no
// state across requests; each invocation is independent.
type Service struct {
	log      *slog.Logger
	products llm.ProductExtractor
	sales    llm.SaleExtractor
	router   *transcribe.Router

	// now is injected so tests can pin the anchor date for relative-date
	// resolution.
	now func() time.Time
}

// ImageResult is the finished record for one photograph.
type ImageResult struct {
	Record   llm.ProductRecord `json:"record"`
	RawReply string            `json:"-"`
}

// AudioResult is the finished record for one audio clip. When the detected
// language is unsupported, Supported is false, Transcript carries the
// placeholder message, and Record is the empty normalized SaleRecord.
type AudioResult struct {
	DetectedLanguage string         `json:"detected_language"`
	Transcript       string         `json:"transcript"`
	Supported        bool           `json:"supported"`
	Record           llm.SaleRecord `json:"record"`
	RawReply         string         `json:"-"`
}

func NewService(products llm.ProductExtractor, sales llm.SaleExtractor, router *transcribe.Router, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		log:      logger,
		products: products,
		sales:    sales,
		router:   router,
		now:      time.Now,
	}
}

// FromImage runs the vision path for one image and derives
// days_before_expire when both dates are present.
func (s *Service) FromImage(ctx context.Context, image []byte, filename string) (ImageResult, error) {
	rid := uuid.New().String()
	start := time.Now()
	s.log.Info("extract.image.start", "req_id", rid, "filename", filename, "bytes", len(image))

	rec, raw, err := s.products.ExtractProduct(ctx, llm.ProductRequest{ImageData: image, Filename: filename})
	if err != nil {
		return ImageResult{}, err
	}
	if rec.StartDate != nil && rec.EndDate != nil {
		rec.DaysBeforeExpire = llm.DaysBeforeExpire(*rec.StartDate, *rec.EndDate)
	}

	s.log.Info("extract.image.ok",
		"req_id", rid,
		"has_dates", rec.DaysBeforeExpire != nil,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return ImageResult{Record: rec, RawReply: raw}, nil
}

// FromAudio routes the clip to the right transcription backend, then runs
// the text-extraction path on the final transcript. An unsupported language
// short-circuits extraction: the placeholder message is operator-facing text,
// not merchandise speech, and sending it to the model would fabricate line
// items.
func (s *Service) FromAudio(ctx context.Context, audio []byte, filename string) (AudioResult, error) {
	rid := uuid.New().String()
	start := time.Now()
	s.log.Info("extract.audio.start", "req_id", rid, "filename", filename, "bytes", len(audio))

	routed, err := s.router.Route(ctx, audio, filename)
	if err != nil {
		return AudioResult{}, err
	}

	result := AudioResult{
		DetectedLanguage: routed.DetectedLanguage,
		Transcript:       routed.TranscriptText,
		Supported:        routed.Supported,
		Record:           llm.SaleRecord{Products: []llm.ProductLineItem{}},
	}
	if !routed.Supported {
		s.log.Info("extract.audio.unsupported_language",
			"req_id", rid, "language", routed.DetectedLanguage,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return result, nil
	}

	rec, raw, err := s.sales.ExtractSale(ctx, llm.SaleRequest{Transcript: routed.TranscriptText, Today: s.now()})
	if err != nil {
		return AudioResult{}, err
	}
	result.Record = rec
	result.RawReply = raw

	s.log.Info("extract.audio.ok",
		"req_id", rid,
		"language", routed.DetectedLanguage,
		"products", len(rec.Products),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

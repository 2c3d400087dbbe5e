package extract

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/WaelTissaoui/proboutikapp/internal/common"
	"github.com/WaelTissaoui/proboutikapp/internal/llm"
	"github.com/WaelTissaoui/proboutikapp/internal/llm/openai"
	"github.com/WaelTissaoui/proboutikapp/internal/transcribe"
)

// fakeDetector implements transcribe.Detector.
type fakeDetector struct {
	outcome transcribe.Outcome
	err     error
}

func (f *fakeDetector) DetectAndTranscribe(ctx context.Context, audio []byte, filename string) (transcribe.Outcome, error) {
	return f.outcome, f.err
}

// fakeTranscriber implements transcribe.Transcriber.
type fakeTranscriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	f.calls++
	return f.text, f.err
}

// fakeSaleExtractor implements llm.SaleExtractor.
type fakeSaleExtractor struct {
	rec     llm.SaleRecord
	err     error
	calls   int
	lastReq llm.SaleRequest
}

func (f *fakeSaleExtractor) ExtractSale(ctx context.Context, req llm.SaleRequest) (llm.SaleRecord, string, error) {
	f.calls++
	f.lastReq = req
	return f.rec, "raw", f.err
}

// fakeModelServer returns a chat/completions reply whose content is the given
// model text.
func fakeModelServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"messages"`) {
			t.Error("request body missing messages")
		}
		w.Header().Set("Content-Type", "application/json")
		reply := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		if err := json.NewEncoder(w).Encode(reply); err != nil {
			t.Fatalf("encoding fake reply: %v", err)
		}
	}))
}

func TestFromImage_FencedReplyYieldsDerivedDelta(t *testing.T) {
	srv := fakeModelServer(t, "```json\n{\"product_name\":\"Milk\",\"company\":null,\"start_date\":\"01-06-24\",\"end_date\":\"01-07-24\"}\n```")
	defer srv.Close()

	client := openai.NewClient(openai.Config{APIKey: "k", BaseURL: srv.URL}, nil)
	svc := NewService(client, client, nil, nil)

	result, err := svc.FromImage(context.Background(), []byte("IMG"), "milk.jpg")
	if err != nil {
		t.Fatalf("FromImage() error: %v", err)
	}
	rec := result.Record
	if rec.ProductName == nil || *rec.ProductName != "Milk" {
		t.Errorf("ProductName = %v, want Milk", rec.ProductName)
	}
	if rec.Company != nil {
		t.Errorf("Company = %v, want nil", rec.Company)
	}
	if rec.StartDate == nil || *rec.StartDate != "01-06-24" {
		t.Errorf("StartDate = %v, want 01-06-24", rec.StartDate)
	}
	if rec.EndDate == nil || *rec.EndDate != "01-07-24" {
		t.Errorf("EndDate = %v, want 01-07-24", rec.EndDate)
	}
	if rec.DaysBeforeExpire == nil || *rec.DaysBeforeExpire != 30 {
		t.Errorf("DaysBeforeExpire = %v, want 30", rec.DaysBeforeExpire)
	}
}

func TestFromImage_ProseReplyStillYieldsShapedRecord(t *testing.T) {
	srv := fakeModelServer(t, "I'm sorry, I could not find any product information in this image.")
	defer srv.Close()

	client := openai.NewClient(openai.Config{APIKey: "k", BaseURL: srv.URL}, nil)
	svc := NewService(client, client, nil, nil)

	result, err := svc.FromImage(context.Background(), []byte("IMG"), "blur.png")
	if err != nil {
		t.Fatalf("FromImage() error: %v", err)
	}
	rec := result.Record
	if rec.ProductName != nil || rec.Company != nil || rec.StartDate != nil ||
		rec.EndDate != nil || rec.DaysBeforeExpire != nil {
		t.Errorf("record = %+v, want all nil", rec)
	}
}

func TestFromImage_ModelFailureIsExtractionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := openai.NewClient(openai.Config{APIKey: "k", BaseURL: srv.URL}, nil)
	svc := NewService(client, client, nil, nil)

	_, err := svc.FromImage(context.Background(), []byte("IMG"), "milk.jpg")
	var ee *common.ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("error = %v, want *common.ExtractionError", err)
	}
	if ee.Stage != "vision" {
		t.Errorf("Stage = %q, want vision", ee.Stage)
	}
}

func TestFromAudio_SupportedLanguageExtracted(t *testing.T) {
	router := transcribe.NewRouter(
		&fakeDetector{outcome: transcribe.Outcome{DetectedLanguage: "fr", TranscriptText: "trois sacs de riz pour Madame Sakho"}},
		&fakeTranscriber{},
		nil,
	)
	name := "Madame Sakho"
	sales := &fakeSaleExtractor{rec: llm.SaleRecord{PersonName: &name, Products: []llm.ProductLineItem{}}}
	svc := NewService(nil, sales, router, nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	result, err := svc.FromAudio(context.Background(), []byte("AUDIO"), "clip.wav")
	if err != nil {
		t.Fatalf("FromAudio() error: %v", err)
	}
	if result.DetectedLanguage != "fr" {
		t.Errorf("DetectedLanguage = %q, want fr", result.DetectedLanguage)
	}
	if !result.Supported {
		t.Error("Supported = false, want true")
	}
	if sales.calls != 1 {
		t.Errorf("sale extractor calls = %d, want 1", sales.calls)
	}
	if !sales.lastReq.Today.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("anchor date = %v, want the injected clock", sales.lastReq.Today)
	}
	if result.Record.PersonName == nil || *result.Record.PersonName != "Madame Sakho" {
		t.Errorf("PersonName = %v, want Madame Sakho", result.Record.PersonName)
	}
}

func TestFromAudio_UnsupportedLanguageShortCircuits(t *testing.T) {
	router := transcribe.NewRouter(
		&fakeDetector{outcome: transcribe.Outcome{DetectedLanguage: "de", TranscriptText: "ein Entwurf"}},
		&fakeTranscriber{},
		nil,
	)
	sales := &fakeSaleExtractor{}
	svc := NewService(nil, sales, router, nil)

	result, err := svc.FromAudio(context.Background(), []byte("AUDIO"), "clip.wav")
	if err != nil {
		t.Fatalf("FromAudio() error: %v", err)
	}
	if result.Supported {
		t.Error("Supported = true, want false")
	}
	if sales.calls != 0 {
		t.Errorf("sale extractor calls = %d, want 0 (no extraction on placeholder)", sales.calls)
	}
	if result.Record.PersonName != nil {
		t.Errorf("PersonName = %v, want nil", result.Record.PersonName)
	}
	if result.Record.Products == nil || len(result.Record.Products) != 0 {
		t.Errorf("Products = %v, want empty slice", result.Record.Products)
	}
	if !strings.Contains(result.Transcript, "de") {
		t.Errorf("Transcript = %q, want placeholder naming the language", result.Transcript)
	}
}

package whisper

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/WaelTissaoui/proboutikapp/internal/common"
)

func TestDetectAndTranscribe(t *testing.T) {
	var gotModel, gotFormat, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("path = %q, want /audio/transcriptions", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		gotFormat = r.FormValue("response_format")
		if f, header, err := r.FormFile("file"); err == nil {
			b, _ := io.ReadAll(f)
			f.Close()
			gotFile = header.Filename + ":" + string(b)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"language":"french","text":"trois sacs de riz"}`)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, Model: "whisper-1"}, nil)
	out, err := c.DetectAndTranscribe(context.Background(), []byte("AUDIO"), "clip.wav")
	if err != nil {
		t.Fatalf("DetectAndTranscribe() error: %v", err)
	}
	if gotModel != "whisper-1" {
		t.Errorf("model field = %q, want whisper-1", gotModel)
	}
	if gotFormat != "verbose_json" {
		t.Errorf("response_format = %q, want verbose_json", gotFormat)
	}
	if gotFile != "clip.wav:AUDIO" {
		t.Errorf("file part = %q, want clip.wav:AUDIO", gotFile)
	}
	if out.DetectedLanguage != "fr" {
		t.Errorf("DetectedLanguage = %q, want fr (normalized from 'french')", out.DetectedLanguage)
	}
	if out.TranscriptText != "trois sacs de riz" {
		t.Errorf("TranscriptText = %q", out.TranscriptText)
	}
}

func TestDetectAndTranscribe_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"rate limited"}}`)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	_, err := c.DetectAndTranscribe(context.Background(), []byte("AUDIO"), "clip.wav")
	var te *common.TranscriptionError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *common.TranscriptionError", err)
	}
	if te.Backend != "whisper" {
		t.Errorf("Backend = %q, want whisper", te.Backend)
	}
}

func TestNormalizeLanguage(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"french", "fr"},
		{"English", "en"},
		{"wolof", "wo"},
		{"FR", "fr"},
		{"wo", "wo"},
		{"klingon", "klingon"},
	}
	for _, tc := range cases {
		if got := normalizeLanguage(tc.in); got != tc.want {
			t.Errorf("normalizeLanguage(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

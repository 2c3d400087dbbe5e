// Package server exposes the extraction pipelines over HTTP. It is the thin
// presentation surface: multipart in, normalized record JSON out.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/WaelTissaoui/proboutikapp/constants"
	"github.com/WaelTissaoui/proboutikapp/internal/common"
	"github.com/WaelTissaoui/proboutikapp/internal/export"
	"github.com/WaelTissaoui/proboutikapp/internal/extract"
	"github.com/WaelTissaoui/proboutikapp/internal/history"
)

const maxUploadSize = 20 << 20 // 20MB

// Deps wires the handler's collaborators. History and Export may be nil, in
// which case results are not persisted and the export route returns 404.
type Deps struct {
	Extract *extract.Service
	History *history.Store
	Export  *export.Service
	Logger  *slog.Logger
}

func NewHandler(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/v1/extract/image", handleExtractImage(deps))
	r.Post("/v1/extract/audio", handleExtractAudio(deps))
	r.Get("/v1/history", handleListHistory(deps))
	r.Get("/v1/export/xlsx", handleExportXLSX(deps))

	return r
}

func handleExtractImage(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, filename, ok := readUpload(w, r)
		if !ok {
			return
		}
		if !constants.IsImageExt(filepath.Ext(filename)) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unsupported image extension: %s", filepath.Ext(filename))
			return
		}

		result, err := deps.Extract.FromImage(r.Context(), data, filename)
		if err != nil {
			writePipelineError(w, deps.Logger, err)
			return
		}

		if deps.History != nil {
			recordJSON, _ := json.Marshal(result.Record)
			if _, err := deps.History.Insert(r.Context(), history.Entry{
				Kind:       "IMAGE",
				SourceName: filename,
				RecordJSON: string(recordJSON),
			}); err != nil {
				deps.Logger.Warn("server.history_insert_failed", "error", err)
			}
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handleExtractAudio(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, filename, ok := readUpload(w, r)
		if !ok {
			return
		}
		if !constants.IsAudioExt(filepath.Ext(filename)) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unsupported audio extension: %s", filepath.Ext(filename))
			return
		}

		result, err := deps.Extract.FromAudio(r.Context(), data, filename)
		if err != nil {
			writePipelineError(w, deps.Logger, err)
			return
		}

		if deps.History != nil {
			recordJSON, _ := json.Marshal(result.Record)
			if _, err := deps.History.Insert(r.Context(), history.Entry{
				Kind:             "AUDIO",
				SourceName:       filename,
				DetectedLanguage: result.DetectedLanguage,
				Transcript:       result.Transcript,
				RecordJSON:       string(recordJSON),
			}); err != nil {
				deps.Logger.Warn("server.history_insert_failed", "error", err)
			}
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handleListHistory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.History == nil {
			httpError(w, http.StatusNotFound, "not_found", "history is not enabled")
			return
		}
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid limit: %s", v)
				return
			}
			limit = n
		}
		entries, err := deps.History.List(r.Context(), limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "listing history: %v", err)
			return
		}
		if entries == nil {
			entries = []history.Entry{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"extractions": entries})
	}
}

func handleExportXLSX(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Export == nil {
			httpError(w, http.StatusNotFound, "not_found", "export is not enabled")
			return
		}
		data, err := deps.Export.ExportExtractionsXLSX(r.Context(), 0)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "export failed: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="extractions.xlsx"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

// readUpload pulls the "file" part from a multipart request. On failure it
// writes the error response and returns ok=false.
func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid multipart form: %v", err)
		return nil, "", false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "missing file part: %v", err)
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "reading upload: %v", err)
		return nil, "", false
	}
	if len(data) == 0 {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "empty upload")
		return nil, "", false
	}
	return data, header.Filename, true
}

// writePipelineError maps typed pipeline failures to status codes so the
// caller can tell "service unavailable" apart from "nothing extracted".
func writePipelineError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var te *common.TranscriptionError
	if errors.As(err, &te) {
		logger.Error("server.transcription_error", "backend", te.Backend, "error", err)
		httpError(w, http.StatusBadGateway, "transcription_error", "%s backend failed: %s", te.Backend, te.Message)
		return
	}
	var ee *common.ExtractionError
	if errors.As(err, &ee) {
		logger.Error("server.extraction_error", "stage", ee.Stage, "error", err)
		httpError(w, http.StatusBadGateway, "extraction_error", "%s stage failed: %s", ee.Stage, ee.Message)
		return
	}
	logger.Error("server.internal_error", "error", err)
	httpError(w, http.StatusInternalServerError, "api_error", "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, code, format string, args ...any) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"type":    code,
			"message": fmt.Sprintf(format, args...),
		},
	})
}

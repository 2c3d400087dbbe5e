package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/WaelTissaoui/proboutikapp/internal/history"
)

// Service is a tiny façade over the history store that produces XLSX bytes
// for exports.
type Service struct {
	store  *history.Store
	logger *slog.Logger
}

func NewService(store *history.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportExtractionsXLSX returns an XLSX workbook (as bytes) of the most
// recent stored extractions. limit <= 0 exports the store's default page.
func (s *Service) ExportExtractionsXLSX(ctx context.Context, limit int) ([]byte, error) {
	start := time.Now()

	entries, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query extractions: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Extractions"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// Drop the default sheet so the workbook opens on ours.
	_ = f.DeleteSheet("Sheet1")

	headers := []string{
		"Created At",
		"Kind",
		"Source",
		"Detected Language",
		"Transcript",
		"Extracted Record",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, e := range entries {
		values := []any{
			e.CreatedAt.UTC().Format(time.RFC3339),
			e.Kind,
			e.SourceName,
			e.DetectedLanguage,
			e.Transcript,
			e.RecordJSON,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", row-2,
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

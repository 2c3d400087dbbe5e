package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/WaelTissaoui/proboutikapp/internal/common"
	"github.com/WaelTissaoui/proboutikapp/internal/llm"
)

// ExtractProduct implements llm.ProductExtractor over chat/completions with
// an embedded image data URI. The raw reply goes through repair, advisory
// schema validation, and normalization; a malformed reply therefore still
// yields a fully-shaped record. Only transport-level failures are errors.
func (c *Client) ExtractProduct(ctx context.Context, req llm.ProductRequest) (llm.ProductRecord, string, error) {
	rid := uuid.New().String()
	start := time.Now()

	dataURL, mimeType := llm.EncodeImageDataURL(req.ImageData, req.Filename)
	c.log.Info("llm.extract_product.start",
		"req_id", rid,
		"model", c.cfg.VisionModel,
		"image_bytes", len(req.ImageData),
		"mime_type", mimeType,
	)

	body := map[string]any{
		"model":       c.cfg.VisionModel,
		"temperature": c.cfg.Temperature,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": llm.BuildProductPrompt()},
					{"type": "image_url", "image_url": map[string]any{"url": dataURL}},
				},
			},
		},
	}

	content, err := c.complete(ctx, body)
	if err != nil {
		c.log.Error("llm.extract_product.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ProductRecord{}, "", &common.ExtractionError{Stage: "vision", Message: "model request failed", Cause: err}
	}

	candidate := llm.RepairJSON(content)
	if vErr := llm.ValidateJSONAgainstSchema(llm.BuildProductJSONSchema(), []byte(candidate)); vErr != nil {
		c.log.Warn("llm.extract_product.schema_mismatch",
			"req_id", rid, "error", vErr, "candidate_bytes", len(candidate),
		)
	}
	rec := llm.NormalizeProductRecord(candidate)

	c.log.Info("llm.extract_product.ok",
		"req_id", rid,
		"has_product_name", rec.ProductName != nil,
		"has_company", rec.Company != nil,
		"has_start_date", rec.StartDate != nil,
		"has_end_date", rec.EndDate != nil,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, content, nil
}

// ExtractSale implements llm.SaleExtractor for transcribed speech.
func (c *Client) ExtractSale(ctx context.Context, req llm.SaleRequest) (llm.SaleRecord, string, error) {
	rid := uuid.New().String()
	start := time.Now()

	today := req.Today
	if today.IsZero() {
		today = time.Now()
	}
	transcript := llm.StripHTML(req.Transcript)

	c.log.Info("llm.extract_sale.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"transcript_len", len(transcript),
		"today", today.Format("2006-01-02"),
	)

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"max_tokens":  c.cfg.MaxTokens,
		"messages": []map[string]any{
			{"role": "user", "content": llm.BuildSalePrompt(transcript, today)},
		},
	}

	content, err := c.complete(ctx, body)
	if err != nil {
		c.log.Error("llm.extract_sale.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.SaleRecord{}, "", &common.ExtractionError{Stage: "text", Message: "model request failed", Cause: err}
	}

	candidate := llm.RepairJSON(content)
	if vErr := llm.ValidateJSONAgainstSchema(llm.BuildSaleJSONSchema(), []byte(candidate)); vErr != nil {
		c.log.Warn("llm.extract_sale.schema_mismatch",
			"req_id", rid, "error", vErr, "candidate_bytes", len(candidate),
		)
	}
	rec := llm.NormalizeSaleRecord(candidate)

	c.log.Info("llm.extract_sale.ok",
		"req_id", rid,
		"has_person_name", rec.PersonName != nil,
		"products", len(rec.Products),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, content, nil
}

// complete posts a chat/completions body and returns the first choice's
// message content.
func (c *Client) complete(ctx context.Context, body map[string]any) (string, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		return "", err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in openai response")
	}
	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			c.log.Warn("openai response body close error", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(resp.Body)
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, buf.String())
	}

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	return buf.Bytes(), nil
}

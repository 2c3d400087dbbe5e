package llm

import (
	"encoding/json"
	"strconv"
	"strings"
)

// The normalizers are the load-bearing defensive layer of the pipeline: they
// assume the model reply is unreliable and turn ANY candidate text into a
// fully-populated, schema-valid record. They never return an error. Missing,
// falsy, or unusable values become explicit nils; partial line items are
// completed, not dropped.

// NormalizeProductRecord parses a repaired JSON candidate into a
// ProductRecord with a guaranteed key set. It does not compute
// DaysBeforeExpire; that derivation belongs to the pipeline.
func NormalizeProductRecord(candidate string) ProductRecord {
	var m map[string]any
	if err := json.Unmarshal([]byte(candidate), &m); err != nil {
		return ProductRecord{}
	}
	return ProductRecord{
		ProductName: nullableString(m["product_name"]),
		Company:     nullableString(m["company"]),
		StartDate:   nullableString(m["start_date"]),
		EndDate:     nullableString(m["end_date"]),
	}
}

// NormalizeSaleRecord parses a repaired JSON candidate into a SaleRecord.
// A non-array "products" value is coerced to an empty slice; every item
// carries all five keys.
func NormalizeSaleRecord(candidate string) SaleRecord {
	rec := SaleRecord{Products: []ProductLineItem{}}

	var m map[string]any
	if err := json.Unmarshal([]byte(candidate), &m); err != nil {
		return rec
	}

	rec.PersonName = nullableString(m["person_name"])

	items, ok := m["products"].([]any)
	if !ok {
		return rec
	}
	for _, it := range items {
		im, ok := it.(map[string]any)
		if !ok {
			rec.Products = append(rec.Products, ProductLineItem{})
			continue
		}
		rec.Products = append(rec.Products, ProductLineItem{
			ProductName:     nullableString(im["product_name"]),
			Quantity:        nullableNumber(im["quantity"]),
			Price:           nullableNumber(im["price"]),
			TransactionType: transactionType(im["transaction_type"]),
			PaymentDate:     nullableString(im["payment_date"]),
		})
	}
	return rec
}

// nullableString returns a trimmed string pointer, or nil for anything falsy.
// Models told to "return None" sometimes emit the words "None" or "null" as
// string values; those are null markers, not data.
func nullableString(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
		return nil
	}
	return &s
}

// nullableNumber accepts a JSON number or a numeric string ("3", "12.50").
func nullableNumber(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case string:
		s := strings.TrimSpace(t)
		if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
			return nil
		}
		if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
			return &f
		}
		return nil
	default:
		return nil
	}
}

// transactionType clamps the model's classification to the two allowed
// categories; anything else is nil.
func transactionType(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "vente" || s == "achat" {
		return &s
	}
	return nil
}

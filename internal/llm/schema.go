package llm

// JSON-Schema maps (draft 2020-12 subset) describing the shapes the prompts
// demand. Validation is advisory: a failing reply is logged, then handed to
// the normalizer anyway, which guarantees a total result.

// BuildProductJSONSchema describes the vision reply contract.
func BuildProductJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"product_name": nullableStringProp(),
			"company":      nullableStringProp(),
			"start_date":   nullableDateProp(`^\d{2}-\d{2}-\d{2}$`),
			"end_date":     nullableDateProp(`^\d{2}-\d{2}-\d{2}$`),
		},
		"required": []string{"product_name", "company", "start_date", "end_date"},
	}
}

// BuildSaleJSONSchema describes the text reply contract.
func BuildSaleJSONSchema() map[string]any {
	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"product_name": nullableStringProp(),
			"quantity":     nullableNumberProp(),
			"price":        nullableNumberProp(),
			"transaction_type": map[string]any{
				"type": []string{"string", "null"},
				"enum": []any{"vente", "achat", nil},
			},
			"payment_date": nullableDateProp(`^\d{4}-\d{2}-\d{2}$`),
		},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"person_name": nullableStringProp(),
			"products": map[string]any{
				"type":  "array",
				"items": item,
			},
		},
		"required": []string{"person_name", "products"},
	}
}

func nullableStringProp() map[string]any {
	return map[string]any{"type": []string{"string", "null"}}
}

func nullableNumberProp() map[string]any {
	// Models regularly return numbers as strings; the normalizer coerces.
	return map[string]any{"type": []string{"number", "string", "null"}}
}

func nullableDateProp(pattern string) map[string]any {
	return map[string]any{
		"anyOf": []any{
			map[string]any{"type": "string", "pattern": pattern},
			map[string]any{"type": "null"},
		},
	}
}

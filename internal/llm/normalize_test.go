package llm

import "testing"

func strPtr(s string) *string { return &s }

func TestNormalizeProductRecord_AllFields(t *testing.T) {
	rec := NormalizeProductRecord(`{"product_name":"Milk","company":"Lactel","start_date":"01-06-24","end_date":"01-07-24"}`)
	if rec.ProductName == nil || *rec.ProductName != "Milk" {
		t.Errorf("ProductName = %v, want Milk", rec.ProductName)
	}
	if rec.Company == nil || *rec.Company != "Lactel" {
		t.Errorf("Company = %v, want Lactel", rec.Company)
	}
	if rec.StartDate == nil || *rec.StartDate != "01-06-24" {
		t.Errorf("StartDate = %v, want 01-06-24", rec.StartDate)
	}
	if rec.EndDate == nil || *rec.EndDate != "01-07-24" {
		t.Errorf("EndDate = %v, want 01-07-24", rec.EndDate)
	}
	if rec.DaysBeforeExpire != nil {
		t.Errorf("DaysBeforeExpire = %v, want nil (derived by the pipeline, not the normalizer)", rec.DaysBeforeExpire)
	}
}

func TestNormalizeProductRecord_FalsyValues(t *testing.T) {
	cases := []struct {
		name      string
		candidate string
	}{
		{"empty object", `{}`},
		{"explicit nulls", `{"product_name":null,"company":null,"start_date":null,"end_date":null}`},
		{"empty strings", `{"product_name":"","company":"  ","start_date":"","end_date":""}`},
		{"None literals", `{"product_name":"None","company":"null","start_date":"NONE","end_date":"Null"}`},
		{"wrong types", `{"product_name":42,"company":true,"start_date":[],"end_date":{}}`},
		{"not json at all", `this is not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := NormalizeProductRecord(tc.candidate)
			if rec.ProductName != nil || rec.Company != nil || rec.StartDate != nil || rec.EndDate != nil {
				t.Errorf("NormalizeProductRecord(%q) = %+v, want all nil", tc.candidate, rec)
			}
		})
	}
}

func TestNormalizeSaleRecord_Complete(t *testing.T) {
	candidate := `{
		"person_name": "Madame Sakho",
		"products": [
			{"product_name": "Riz", "quantity": 3, "price": 1500.5, "transaction_type": "vente", "payment_date": "2024-06-15"}
		]
	}`
	rec := NormalizeSaleRecord(candidate)
	if rec.PersonName == nil || *rec.PersonName != "Madame Sakho" {
		t.Errorf("PersonName = %v, want Madame Sakho", rec.PersonName)
	}
	if len(rec.Products) != 1 {
		t.Fatalf("len(Products) = %d, want 1", len(rec.Products))
	}
	p := rec.Products[0]
	if p.ProductName == nil || *p.ProductName != "Riz" {
		t.Errorf("ProductName = %v, want Riz", p.ProductName)
	}
	if p.Quantity == nil || *p.Quantity != 3 {
		t.Errorf("Quantity = %v, want 3", p.Quantity)
	}
	if p.Price == nil || *p.Price != 1500.5 {
		t.Errorf("Price = %v, want 1500.5", p.Price)
	}
	if p.TransactionType == nil || *p.TransactionType != "vente" {
		t.Errorf("TransactionType = %v, want vente", p.TransactionType)
	}
	if p.PaymentDate == nil || *p.PaymentDate != "2024-06-15" {
		t.Errorf("PaymentDate = %v, want 2024-06-15", p.PaymentDate)
	}
}

func TestNormalizeSaleRecord_PartialItemsCompleted(t *testing.T) {
	rec := NormalizeSaleRecord(`{"products":[{"product_name":"Sucre"},{}]}`)
	if rec.PersonName != nil {
		t.Errorf("PersonName = %v, want nil", rec.PersonName)
	}
	if len(rec.Products) != 2 {
		t.Fatalf("len(Products) = %d, want 2", len(rec.Products))
	}
	first := rec.Products[0]
	if first.ProductName == nil || *first.ProductName != "Sucre" {
		t.Errorf("ProductName = %v, want Sucre", first.ProductName)
	}
	if first.Quantity != nil || first.Price != nil || first.TransactionType != nil || first.PaymentDate != nil {
		t.Errorf("partial item not completed with nils: %+v", first)
	}
	second := rec.Products[1]
	if second.ProductName != nil || second.Quantity != nil || second.Price != nil ||
		second.TransactionType != nil || second.PaymentDate != nil {
		t.Errorf("empty item should be all nils: %+v", second)
	}
}

func TestNormalizeSaleRecord_ProductsNotASequence(t *testing.T) {
	for _, candidate := range []string{
		`{"person_name":"Alice","products":"Riz"}`,
		`{"person_name":"Alice","products":42}`,
		`{"person_name":"Alice"}`,
		`{}`,
		`garbage`,
	} {
		rec := NormalizeSaleRecord(candidate)
		if rec.Products == nil {
			t.Errorf("NormalizeSaleRecord(%q).Products = nil, want empty slice", candidate)
		}
		if len(rec.Products) != 0 {
			t.Errorf("NormalizeSaleRecord(%q).Products = %v, want empty", candidate, rec.Products)
		}
	}
}

func TestNormalizeSaleRecord_StringNumbersCoerced(t *testing.T) {
	rec := NormalizeSaleRecord(`{"products":[{"quantity":"3","price":"12,50"}]}`)
	if len(rec.Products) != 1 {
		t.Fatalf("len(Products) = %d, want 1", len(rec.Products))
	}
	p := rec.Products[0]
	if p.Quantity == nil || *p.Quantity != 3 {
		t.Errorf("Quantity = %v, want 3", p.Quantity)
	}
	if p.Price == nil || *p.Price != 12.5 {
		t.Errorf("Price = %v, want 12.5", p.Price)
	}
}

func TestNormalizeSaleRecord_TransactionTypeClamped(t *testing.T) {
	cases := []struct {
		value string
		want  *string
	}{
		{`"vente"`, strPtr("vente")},
		{`"Achat"`, strPtr("achat")},
		{`"  VENTE  "`, strPtr("vente")},
		{`"sale"`, nil},
		{`"None"`, nil},
		{`null`, nil},
	}
	for _, tc := range cases {
		rec := NormalizeSaleRecord(`{"products":[{"transaction_type":` + tc.value + `}]}`)
		got := rec.Products[0].TransactionType
		switch {
		case tc.want == nil && got != nil:
			t.Errorf("transaction_type %s: got %q, want nil", tc.value, *got)
		case tc.want != nil && (got == nil || *got != *tc.want):
			t.Errorf("transaction_type %s: got %v, want %q", tc.value, got, *tc.want)
		}
	}
}

package llm

import (
	"context"
	"time"
)

// ProductRecord is the normalized shape extracted from a product photograph.
// Nil means the model could not find or infer the field. DaysBeforeExpire is
// derived locally, never taken from the model; it is non-nil only when both
// dates parse as DD-MM-YY.
type ProductRecord struct {
	ProductName      *string `json:"product_name"`
	Company          *string `json:"company"`
	StartDate        *string `json:"start_date"` // DD-MM-YY
	EndDate          *string `json:"end_date"`   // DD-MM-YY
	DaysBeforeExpire *int    `json:"days_before_expire"`
}

// ProductLineItem is one transaction line extracted from speech. Every item
// always carries all five keys; partially-parsed replies are completed with
// nils, never dropped.
type ProductLineItem struct {
	ProductName     *string  `json:"product_name"`
	Quantity        *float64 `json:"quantity"`
	Price           *float64 `json:"price"`
	TransactionType *string  `json:"transaction_type"` // "vente" or "achat"
	PaymentDate     *string  `json:"payment_date"`     // YYYY-MM-DD
}

// SaleRecord is the normalized shape extracted from transcribed speech.
// Products is never nil after normalization.
type SaleRecord struct {
	PersonName *string           `json:"person_name"`
	Products   []ProductLineItem `json:"products"`
}

// ProductRequest carries one image through the vision-extraction path.
type ProductRequest struct {
	ImageData []byte
	Filename  string // extension drives the data-URI MIME type
}

// SaleRequest carries one transcript through the text-extraction path. Today
// anchors the model's resolution of relative dates ("dans deux semaines").
type SaleRequest struct {
	Transcript string
	Today      time.Time
}

// ProductExtractor is the vision-path interface the pipeline depends on.
// The string return is the raw model reply, for logging and storage.
type ProductExtractor interface {
	ExtractProduct(ctx context.Context, req ProductRequest) (ProductRecord, string, error)
}

// SaleExtractor is the text-path interface the pipeline depends on.
type SaleExtractor interface {
	ExtractSale(ctx context.Context, req SaleRequest) (SaleRecord, string, error)
}

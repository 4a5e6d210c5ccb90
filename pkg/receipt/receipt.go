package receipt

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is a stored purchase receipt. OCR runs on the client; the server
// keeps the recognized text and the fields the user confirmed. Date stays
// zero when the receipt has no recognizable date.
type Receipt struct {
	ID            string
	StoreName     string
	Date          time.Time
	Total         decimal.Decimal
	Tax           decimal.Decimal
	Category      string
	Notes         string
	OcrText       string
	TaxDeductible bool
	ImagePath     string
	CreatedAt     time.Time
}

package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFields(t *testing.T) {
	text := "WHOLE FOODS MARKET\n" +
		"123 Main Street\n" +
		"2026-03-15\n" +
		"Bananas        2.99\n" +
		"Bread          4.50\n" +
		"Subtotal:      7.49\n" +
		"Tax:           0.60\n" +
		"Total:         8.09\n"

	fields := ExtractFields(text)

	assert.Equal(t, "WHOLE FOODS MARKET", fields.StoreName)
	assert.Equal(t, "2026-03-15", fields.Date)
	assert.Equal(t, "8.09", fields.Total)
	assert.Equal(t, "0.60", fields.Tax)
}

func TestExtractFields_StoreNameSkipsBlankLines(t *testing.T) {
	fields := ExtractFields("\n   \nCorner Cafe\nTotal: 5.00\n")

	assert.Equal(t, "Corner Cafe", fields.StoreName)
}

func TestExtractFields_DateFormats(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"iso date", "Receipt 2026-03-15", "2026-03-15"},
		{"us slash date", "Date: 3/5/2026", "2026-03-05"},
		{"short year slash date", "03/15/26", "2026-03-15"},
		{"month name date", "Mar 5, 2026", "2026-03-05"},
		{"full month name", "March 15 2026", "2026-03-15"},
		{"no date", "no digits here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractFields("Store\n"+tt.text).Date)
		})
	}
}

func TestExtractFields_TotalPreference(t *testing.T) {
	t.Run("grand total beats plain total", func(t *testing.T) {
		text := "Store\nTotal: 10.00\nGrand Total: 12.50\n"
		assert.Equal(t, "12.50", ExtractFields(text).Total)
	})

	t.Run("subtotal alone does not match", func(t *testing.T) {
		text := "Store\nSubtotal: 7.49\n"
		assert.Equal(t, "", ExtractFields(text).Total)
	})

	t.Run("amount due matches", func(t *testing.T) {
		text := "Store\nAmount Due: $45.00\n"
		assert.Equal(t, "45.00", ExtractFields(text).Total)
	})

	t.Run("thousand separators are stripped", func(t *testing.T) {
		text := "Store\nTotal: $1,234.56\n"
		assert.Equal(t, "1234.56", ExtractFields(text).Total)
	})
}

func TestExtractFields_TaxVariants(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"Sales Tax: 0.60", "0.60"},
		{"TAX 1.25", "1.25"},
		{"GST: $2.00", "2.00"},
		{"VAT (20%): 4.00", "4.00"},
		{"no tax line", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ExtractFields("Store\n"+tt.text).Tax, "text: %s", tt.text)
	}
}

func TestExtractFields_EmptyText(t *testing.T) {
	fields := ExtractFields("")

	assert.Equal(t, ExtractedFields{}, fields)
}

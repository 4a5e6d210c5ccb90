package receipt

import (
	"fmt"
	"regexp"
	"strings"
)

// ExtractedFields holds best-effort values recognized from OCR text, ready
// to pre-fill a receipt form. Empty fields simply mean nothing matched.
type ExtractedFields struct {
	StoreName string `json:"storeName"`
	Date      string `json:"date"`
	Total     string `json:"total"`
	Tax       string `json:"tax"`
}

type datePattern struct {
	re        *regexp.Regexp
	normalize func(match []string) string
}

// Ordered by reliability, first match wins.
var datePatterns = []datePattern{
	{
		re:        regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`),
		normalize: func(m []string) string { return fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3]) },
	},
	{
		re:        regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`),
		normalize: func(m []string) string { return fmt.Sprintf("%s-%s-%s", m[3], pad(m[1]), pad(m[2])) },
	},
	{
		re:        regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2})\b`),
		normalize: func(m []string) string { return fmt.Sprintf("20%s-%s-%s", m[3], pad(m[1]), pad(m[2])) },
	},
	{
		re: regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2}),?\s+(\d{4})\b`),
		normalize: func(m []string) string {
			return fmt.Sprintf("%s-%02d-%s", m[3], monthNumber(m[1]), pad(m[2]))
		},
	},
}

var amountGroup = `\$?\s*(\d{1,3}(?:,\d{3})*\.\d{2})`

// Ordered by specificity so that "Subtotal" never wins over "Total".
var totalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^\s*grand\s+total\s*:?\s*` + amountGroup),
	regexp.MustCompile(`(?im)^\s*(?:total|amount)\s+due\s*:?\s*` + amountGroup),
	regexp.MustCompile(`(?im)^\s*total\s*:?\s*` + amountGroup),
	regexp.MustCompile(`(?im)\btotal\s*:?\s*` + amountGroup),
}

var taxPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^\s*sales\s+tax\s*:?\s*` + amountGroup),
	regexp.MustCompile(`(?im)\b(?:tax|hst|gst|vat)\s*(?:\([\d.%]+\))?\s*:?\s*` + amountGroup),
}

// ExtractFields scans OCR output for receipt fields. The store name is the
// first non-empty line; date, total and tax each go through an ordered
// pattern list. Extraction is best-effort and a receipt can always be saved
// without any of it.
func ExtractFields(text string) ExtractedFields {
	fields := ExtractedFields{}

	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			fields.StoreName = trimmed
			break
		}
	}

	for _, pattern := range datePatterns {
		if match := pattern.re.FindStringSubmatch(text); match != nil {
			fields.Date = pattern.normalize(match)
			break
		}
	}

	fields.Total = firstAmount(totalPatterns, text)
	fields.Tax = firstAmount(taxPatterns, text)
	return fields
}

func firstAmount(patterns []*regexp.Regexp, text string) string {
	for _, pattern := range patterns {
		if match := pattern.FindStringSubmatch(text); match != nil {
			return strings.ReplaceAll(match[1], ",", "")
		}
	}
	return ""
}

func monthNumber(name string) int {
	months := []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}
	lower := strings.ToLower(name)
	for i, m := range months {
		if m == lower {
			return i + 1
		}
	}
	return 0
}

// pad guards against single-digit day/month in normalized dates.
func pad(value string) string {
	if len(value) == 1 {
		return "0" + value
	}
	return value
}

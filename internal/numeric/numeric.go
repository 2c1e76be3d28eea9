// Package numeric parses currency and quantity strings as they appear in
// Colombian budget spreadsheets: "$ 1.500.000", "1,234.56", "1234,56".
package numeric

import (
	"strconv"
	"strings"
)

// Parse converts a raw cell value into a float64. It strips everything
// except digits, '.', ',' and '-', then disambiguates separators: a lone
// comma is a decimal separator, while a comma alongside a period is a
// thousands separator and is dropped. Returns false for empty or
// non-numeric input; callers decide whether that rejects the row or marks
// it for estimation.
func Parse(raw string) (float64, bool) {
	cleaned := stripNonNumeric(raw)
	if cleaned == "" {
		return 0, false
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastPeriod := strings.LastIndex(cleaned, ".")

	switch {
	case lastComma >= 0 && lastPeriod < 0:
		if strings.Count(cleaned, ",") > 1 {
			// Repeated commas can only be thousands grouping.
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		}
	case lastComma >= 0 && lastPeriod >= 0 && lastComma > lastPeriod:
		// Colombian style: periods group thousands, comma is the decimal.
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case lastComma >= 0:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case strings.Count(cleaned, ".") > 1:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParsePositive is Parse restricted to values greater than zero.
func ParsePositive(raw string) (float64, bool) {
	v, ok := Parse(raw)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

func stripNonNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

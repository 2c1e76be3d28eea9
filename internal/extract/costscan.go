package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gpro-labs/presupuesto-cli/internal/model"
	"github.com/gpro-labs/presupuesto-cli/internal/numeric"
)

// Cost mentions in running prose, for documents whose tables could not be
// mapped. Two shapes are recognized: an amount followed by a currency word,
// and a cost keyword followed by an amount.
var (
	currencyAmountRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d{3})*(?:[.,]\d{1,2})?)\s*(?:pesos?|d[oó]lares?|usd|cop|colombianos?)`)
	keywordAmountRe  = regexp.MustCompile(`(?i)(?:costo|precio|valor)\s*[:\s]\s*\$?\s*(\d+(?:[.,]\d{3})*(?:[.,]\d{1,2})?)`)
)

const costContextRadius = 50

// ScanCostPatterns mines free text for monetary mentions and turns each
// one into a budget item carrying the surrounding text as its name. Used
// as a fallback when a document has no mappable tables.
func (e *Extractor) ScanCostPatterns(text, source string) []model.BudgetItem {
	var items []model.BudgetItem
	seen := make(map[int]bool)

	for _, re := range []*regexp.Regexp{currencyAmountRe, keywordAmountRe} {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			if seen[loc[0]] {
				continue
			}
			seen[loc[0]] = true

			value, ok := numeric.ParsePositive(text[loc[2]:loc[3]])
			if !ok {
				continue
			}

			ctx := surrounding(text, loc[0], loc[1])
			name := summarize(ctx)
			if name == "" {
				continue
			}

			items = append(items, model.BudgetItem{
				Name:        name,
				Activity:    name,
				Rubro:       e.classifier.Resolve("", ctx, source),
				Quantity:    1,
				UnitValue:   value,
				TotalValue:  value,
				SourceSheet: source,
				Confidence:  e.weights.Pattern,
			})
		}
	}
	return items
}

func surrounding(text string, start, end int) string {
	lo := start - costContextRadius
	if lo < 0 {
		lo = 0
	}
	for lo > 0 && !utf8.RuneStart(text[lo]) {
		lo--
	}
	hi := end + costContextRadius
	if hi > len(text) {
		hi = len(text)
	}
	for hi < len(text) && !utf8.RuneStart(text[hi]) {
		hi++
	}
	return text[lo:hi]
}

// summarize collapses a context window into a single-line item name.
func summarize(ctx string) string {
	fields := strings.Fields(ctx)
	if len(fields) == 0 {
		return ""
	}
	name := strings.Join(fields, " ")
	if runes := []rune(name); len(runes) > 120 {
		name = string(runes[:120])
	}
	return strings.TrimSpace(name)
}

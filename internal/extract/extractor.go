package extract

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/gpro-labs/presupuesto-cli/internal/model"
	"github.com/gpro-labs/presupuesto-cli/internal/sheet"
)

// SkippedSheet records why a sheet was excluded from extraction.
type SkippedSheet struct {
	Name    string       `json:"name"`
	Reason  string       `json:"reason"`
	Missing []sheet.Role `json:"missing,omitempty"`
}

// Result is the raw outcome of extracting one document: a flat item list
// plus per-sheet bookkeeping for the caller.
type Result struct {
	Items   []model.BudgetItem
	Sheets  []string
	Skipped []SkippedSheet
}

// ExtractSheets runs the full per-sheet pipeline (locate header, map
// columns, gate rows, extract items) over every sheet of a document.
// Sheets whose table shape cannot be mapped fall back to mining their
// flattened text for cost mentions; only sheets yielding nothing either
// way are skipped. The run fails only with ErrNoValidItems when nothing
// at all survives.
func (e *Extractor) ExtractSheets(sheets []sheet.RawSheet) (*Result, error) {
	result := &Result{}

	for _, s := range sheets {
		headerRow, ok := sheet.LocateHeader(s)
		if !ok {
			if e.scanUnstructured(s, result) {
				continue
			}
			zap.L().Info("extract: sheet skipped, no budget header",
				zap.String("sheet", s.Name),
			)
			result.Skipped = append(result.Skipped, SkippedSheet{
				Name:   s.Name,
				Reason: "no budget header found",
			})
			continue
		}

		mapping, err := sheet.MapColumns(s, headerRow)
		if err != nil {
			if e.scanUnstructured(s, result) {
				continue
			}
			var missing *sheet.MissingColumnsError
			skipped := SkippedSheet{Name: s.Name, Reason: err.Error()}
			if errors.As(err, &missing) {
				skipped.Missing = missing.Missing
			}
			zap.L().Info("extract: sheet skipped, missing columns",
				zap.String("sheet", s.Name),
				zap.Error(err),
			)
			result.Skipped = append(result.Skipped, skipped)
			continue
		}

		count := 0
		for row := headerRow + 1; row < len(s.Rows); row++ {
			item, ok := e.ExtractItem(s, row, mapping)
			if !ok {
				continue
			}
			result.Items = append(result.Items, item)
			count++
		}

		if count > 0 {
			result.Sheets = append(result.Sheets, s.Name)
		}
		zap.L().Info("extract: sheet processed",
			zap.String("sheet", s.Name),
			zap.Int("header_row", headerRow),
			zap.Int("items", count),
		)
	}

	if len(result.Items) == 0 {
		return nil, ErrNoValidItems
	}
	return result, nil
}

// scanUnstructured mines an unmappable sheet's flattened text for cost
// mentions and records any finds on the result. Reports whether the sheet
// contributed items.
func (e *Extractor) scanUnstructured(s sheet.RawSheet, result *Result) bool {
	var sb strings.Builder
	for _, row := range s.Rows {
		sb.WriteString(strings.Join(row, " "))
		sb.WriteByte('\n')
	}

	items := e.ScanCostPatterns(sb.String(), s.Name)
	if len(items) == 0 {
		return false
	}

	result.Items = append(result.Items, items...)
	result.Sheets = append(result.Sheets, s.Name)
	zap.L().Info("extract: sheet mined from text",
		zap.String("sheet", s.Name),
		zap.Int("items", len(items)),
	)
	return true
}

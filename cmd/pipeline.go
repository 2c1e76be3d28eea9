package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/gpro-labs/presupuesto-cli/internal/budget"
	"github.com/gpro-labs/presupuesto-cli/internal/config"
	"github.com/gpro-labs/presupuesto-cli/internal/estimate"
	"github.com/gpro-labs/presupuesto-cli/internal/extract"
	"github.com/gpro-labs/presupuesto-cli/internal/model"
	"github.com/gpro-labs/presupuesto-cli/internal/quote"
	"github.com/gpro-labs/presupuesto-cli/internal/rubro"
	"github.com/gpro-labs/presupuesto-cli/internal/sheet"
	"github.com/gpro-labs/presupuesto-cli/pkg/llm"
)

// pipelineEnv wires the extraction pipeline components from configuration.
type pipelineEnv struct {
	extractor *extract.Extractor
	completer *estimate.Completer
	renderer  *quote.Renderer
}

func newPipelineEnv(cfg *config.Config) (*pipelineEnv, error) {
	var client llm.Client
	if cfg.Estimate.Enabled || cfg.Quote.UseLLM {
		c, err := llm.New(cfg.LLM)
		if err != nil {
			return nil, err
		}
		client = c
	}

	var estimateClient llm.Client
	if cfg.Estimate.Enabled {
		estimateClient = client
	}
	var quoteClient llm.Client
	if cfg.Quote.UseLLM {
		quoteClient = client
	}

	defaults := rubro.NewDefaultTable(cfg.Defaults.SheetValues, cfg.Defaults.GlobalValue)

	return &pipelineEnv{
		extractor: extract.NewExtractor(rubro.NewClassifier(nil), cfg.Confidence),
		completer: estimate.NewCompleter(estimateClient, defaults, cfg.Confidence),
		renderer:  quote.NewRenderer(quoteClient),
	}, nil
}

// readDocument loads a budget-bearing document into raw sheets, picking
// the reader by file extension.
func readDocument(path string) ([]sheet.RawSheet, model.ExtractionMethod, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		sheets, err := sheet.ReadWorkbook(path)
		return sheets, model.MethodExcel, err
	case ".docx":
		sheets, err := sheet.ReadDocxTables(path)
		return sheets, model.MethodDocx, err
	default:
		return nil, "", eris.Errorf("unsupported file type %q (expected .xlsx, .xlsm or .docx)", filepath.Ext(path))
	}
}

// readDocumentBytes is readDocument for in-memory uploads.
func readDocumentBytes(filename string, data []byte) ([]sheet.RawSheet, model.ExtractionMethod, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		sheets, err := sheet.ReadWorkbookBytes(data)
		return sheets, model.MethodExcel, err
	case ".docx":
		sheets, err := sheet.ReadDocxTablesBytes(data)
		return sheets, model.MethodDocx, err
	default:
		return nil, "", eris.Errorf("unsupported file type %q (expected .xlsx, .xlsm or .docx)", filepath.Ext(filename))
	}
}

// extractItems runs extraction and value completion over raw sheets,
// returning completed items plus the sheet names that contributed.
func (env *pipelineEnv) extractItems(ctx context.Context, sheets []sheet.RawSheet, projectContext string) ([]model.BudgetItem, []string, error) {
	result, err := env.extractor.ExtractSheets(sheets)
	if err != nil {
		return nil, nil, err
	}
	items := env.completer.Complete(ctx, result.Items, projectContext)
	return items, result.Sheets, nil
}

// buildQuotation groups completed items, renders the markdown table and
// assembles the quotation document.
func (env *pipelineEnv) buildQuotation(ctx context.Context, items []model.BudgetItem, includeIVA bool, rate float64) *model.QuotationDocument {
	groups := quote.GroupByActivity(items, nil)
	totals := quote.ComputeTotals(items, includeIVA, rate)
	markdown := env.renderer.Render(ctx, groups, totals, includeIVA)
	return quote.Build(groups, markdown, totals, includeIVA)
}

// defaultBudget builds the template budget used when a document yields no
// items and the caller asked for the fallback.
func defaultBudget(meta budget.Meta) *model.BudgetDocument {
	meta.Method = model.MethodDefault
	return budget.Assemble(budget.DefaultItems(meta.DurationYears), meta)
}

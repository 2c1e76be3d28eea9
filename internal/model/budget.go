// Package model defines the budget and quotation documents produced by the
// extraction pipeline.
package model

import (
	"time"

	"github.com/gpro-labs/presupuesto-cli/internal/rubro"
)

// ExtractionMethod tags how a document's items were produced.
type ExtractionMethod string

const (
	MethodExcel   ExtractionMethod = "excel_intelligent"
	MethodDocx    ExtractionMethod = "docx_intelligent"
	MethodDefault ExtractionMethod = "default_template"
)

// BudgetItem is one extracted budget line. Items are created by the
// extractor, mutated only by the value-completion pipeline, and immutable
// once placed into a BudgetDocument.
type BudgetItem struct {
	Name             string      `json:"name"`
	Activity         string      `json:"activity,omitempty"`
	Rubro            rubro.Rubro `json:"rubro"`
	Quantity         float64     `json:"quantity"`
	UnitValue        float64     `json:"unit_value"`
	TotalValue       float64     `json:"total_value"`
	Justification    string      `json:"justification,omitempty"`
	Specifications   string      `json:"specifications,omitempty"`
	Period           float64     `json:"period"`
	SourceSheet      string      `json:"source_sheet"`
	SourceRow        int         `json:"source_row"`
	NeedsEstimation  bool        `json:"needs_estimation"`
	ValueIsEstimated bool        `json:"value_is_estimated"`
	Confidence       float64     `json:"confidence"`
}

// RubroGroup holds the items of one category with its aggregates.
type RubroGroup struct {
	Description string       `json:"description"`
	Items       []BudgetItem `json:"items"`
	Subtotal    float64      `json:"subtotal"`
	Confidence  float64      `json:"confidence"`
}

// BudgetDocument is the aggregate extraction result for one request.
type BudgetDocument struct {
	ProjectID          string                      `json:"project_id,omitempty"`
	ProjectDescription string                      `json:"project_description,omitempty"`
	DurationYears      int                         `json:"duration_years,omitempty"`
	Categories         map[rubro.Rubro]*RubroGroup `json:"categories"`
	TotalBudget        float64                     `json:"total_budget"`
	ConfidenceScore    float64                     `json:"confidence_score"`
	SourceFiles        []string                    `json:"source_files,omitempty"`
	SourceSheets       []string                    `json:"source_sheets,omitempty"`
	TotalItems         int                         `json:"total_items"`
	EstimatedItems     int                         `json:"estimated_items"`
	Method             ExtractionMethod            `json:"extraction_method"`
	GeneratedAt        time.Time                   `json:"generated_at"`
}

// Totals holds a quotation's money aggregates.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	IVA      float64 `json:"iva"`
	Total    float64 `json:"total"`
	IVARate  float64 `json:"tasa_iva"`
}

// ActivityGroup holds the quotation items of one activity.
type ActivityGroup struct {
	Activity string       `json:"activity"`
	Items    []BudgetItem `json:"items"`
	Subtotal float64      `json:"subtotal"`
}

// QuotationDocument groups items by activity for the quotation rendering
// path.
type QuotationDocument struct {
	Markdown       string          `json:"cotizacion_markdown"`
	Groups         []ActivityGroup `json:"items_por_actividad"`
	Totals         Totals          `json:"totales"`
	IncludesIVA    bool            `json:"incluye_iva"`
	TotalItems     int             `json:"total_items"`
	EstimatedItems int             `json:"items_estimados"`
	GeneratedAt    time.Time       `json:"fecha_generacion"`
}

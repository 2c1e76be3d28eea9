// Package budget assembles extracted items into a categorized budget
// document and renders it to XLSX.
package budget

import (
	"time"

	"github.com/gpro-labs/presupuesto-cli/internal/model"
	"github.com/gpro-labs/presupuesto-cli/internal/rubro"
)

// Meta carries document-level fields the items themselves don't know.
type Meta struct {
	ProjectID          string
	ProjectDescription string
	DurationYears      int
	SourceFiles        []string
	SourceSheets       []string
	Method             model.ExtractionMethod
}

// Assemble groups items by rubro and computes all aggregates. Document
// confidence is the mean of the category confidences; a document with no
// items gets the synthesized floor.
func Assemble(items []model.BudgetItem, meta Meta) *model.BudgetDocument {
	doc := &model.BudgetDocument{
		ProjectID:          meta.ProjectID,
		ProjectDescription: meta.ProjectDescription,
		DurationYears:      meta.DurationYears,
		Categories:         make(map[rubro.Rubro]*model.RubroGroup),
		SourceFiles:        meta.SourceFiles,
		SourceSheets:       meta.SourceSheets,
		TotalItems:         len(items),
		Method:             meta.Method,
		GeneratedAt:        time.Now().UTC(),
	}

	for _, item := range items {
		group, ok := doc.Categories[item.Rubro]
		if !ok {
			group = &model.RubroGroup{Description: item.Rubro.Description()}
			doc.Categories[item.Rubro] = group
		}
		group.Items = append(group.Items, item)
		group.Subtotal += item.TotalValue
		doc.TotalBudget += item.TotalValue
		if item.ValueIsEstimated {
			doc.EstimatedItems++
		}
	}

	// Sum in declaration order so the score is reproducible across runs.
	var sum float64
	for _, r := range append(rubro.All(), rubro.Otros) {
		group, ok := doc.Categories[r]
		if !ok {
			continue
		}
		group.Confidence = meanConfidence(group.Items)
		sum += group.Confidence
	}
	if len(doc.Categories) == 0 {
		doc.ConfidenceScore = model.DefaultConfidenceWeights().Synthesized
	} else {
		doc.ConfidenceScore = sum / float64(len(doc.Categories))
	}

	return doc
}

// CategoryOrder returns the document's rubros in declaration order, Otros
// last. Map iteration order would make renders nondeterministic.
func CategoryOrder(doc *model.BudgetDocument) []rubro.Rubro {
	var out []rubro.Rubro
	for _, r := range append(rubro.All(), rubro.Otros) {
		if _, ok := doc.Categories[r]; ok {
			out = append(out, r)
		}
	}
	return out
}

func meanConfidence(items []model.BudgetItem) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, item := range items {
		sum += item.Confidence
	}
	return sum / float64(len(items))
}

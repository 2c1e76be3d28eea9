// Package estimate fills in unit values that could not be read from the
// source document. Estimation is best effort: a batched model call per
// source sheet, with static per-category defaults as the terminal
// fallback. The pipeline never fails because estimation failed.
package estimate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/gpro-labs/presupuesto-cli/internal/model"
	"github.com/gpro-labs/presupuesto-cli/internal/rubro"
	"github.com/gpro-labs/presupuesto-cli/pkg/llm"
)

// contextCharLimit bounds how much project context goes into each prompt.
const contextCharLimit = 2000

// Completer assigns unit values to items flagged NeedsEstimation.
type Completer struct {
	client   llm.Client
	defaults rubro.DefaultTable
	weights  model.ConfidenceWeights
}

// NewCompleter builds a Completer. A nil client disables model estimation
// and goes straight to the default table.
func NewCompleter(client llm.Client, defaults rubro.DefaultTable, weights model.ConfidenceWeights) *Completer {
	if weights == (model.ConfidenceWeights{}) {
		weights = model.DefaultConfidenceWeights()
	}
	return &Completer{client: client, defaults: defaults, weights: weights}
}

// Complete returns a copy of items where every NeedsEstimation item has a
// positive unit value. Items are estimated in one model call per source
// sheet; any failure in a group falls back to the default table for that
// group only.
func (c *Completer) Complete(ctx context.Context, items []model.BudgetItem, projectContext string) []model.BudgetItem {
	out := make([]model.BudgetItem, len(items))
	copy(out, items)

	groups := make(map[string][]int)
	for i, item := range out {
		if item.NeedsEstimation {
			groups[item.SourceSheet] = append(groups[item.SourceSheet], i)
		}
	}
	if len(groups) == 0 {
		return out
	}

	for sheet, idx := range groups {
		values, err := c.estimateGroup(ctx, out, idx, projectContext)
		if err != nil {
			zap.L().Warn("estimate: model estimation failed, using defaults",
				zap.String("sheet", sheet),
				zap.Int("items", len(idx)),
				zap.Error(err),
			)
			values = nil
		}
		c.applyValues(out, idx, values)
	}
	return out
}

// estimateGroup asks the model for one value per item in the group.
// Returns nil values without error when no client is configured.
func (c *Completer) estimateGroup(ctx context.Context, items []model.BudgetItem, idx []int, projectContext string) ([]float64, error) {
	if c.client == nil {
		return nil, nil
	}

	raw, err := c.client.Complete(ctx, llm.Request{
		System: estimationSystemPrompt,
		Prompt: c.buildPrompt(items, idx, projectContext),
	})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		ValoresEstimados []float64 `json:"valores_estimados"`
	}
	if err := json.Unmarshal([]byte(llm.CleanJSON(raw)), &parsed); err != nil {
		return nil, err
	}
	return parsed.ValoresEstimados, nil
}

const estimationSystemPrompt = `Eres un analista de costos especializado en proyectos de tecnología en Colombia. Estima valores unitarios realistas en pesos colombianos (COP) para ítems de presupuesto. Responde únicamente con JSON válido, sin explicaciones.`

func (c *Completer) buildPrompt(items []model.BudgetItem, idx []int, projectContext string) string {
	var sb strings.Builder
	sb.WriteString("Estima el valor unitario en COP de cada uno de los siguientes ítems de presupuesto.\n\n")

	if ctx := truncate(projectContext, contextCharLimit); ctx != "" {
		sb.WriteString("Contexto del proyecto:\n")
		sb.WriteString(ctx)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Ítems:\n")
	for n, i := range idx {
		item := items[i]
		fmt.Fprintf(&sb, "%d. %s (actividad: %s, cantidad: %g, categoría: %s)\n",
			n+1, item.Name, item.Activity, item.Quantity, item.Rubro.Description())
	}

	fmt.Fprintf(&sb, "\nResponde con un objeto JSON de la forma {\"valores_estimados\": [v1, v2, ...]} con exactamente %d valores numéricos, en el mismo orden de los ítems.", len(idx))
	return sb.String()
}

// applyValues writes estimated values into the items at idx. Values beyond
// the estimate list, and non-positive estimates, take the default table
// value at the lower confidence tier. A nil slice defaults everything.
func (c *Completer) applyValues(items []model.BudgetItem, idx []int, values []float64) {
	for n, i := range idx {
		v := 0.0
		if n < len(values) {
			v = values[n]
		}

		confidence := c.weights.Estimated
		if v <= 0 {
			v = c.defaults.Value(items[i].SourceSheet)
			confidence = c.weights.Default
		}

		items[i].UnitValue = v
		items[i].TotalValue = items[i].Quantity * v
		items[i].ValueIsEstimated = true
		items[i].NeedsEstimation = false
		items[i].Confidence = confidence
	}
}

// truncate cuts s to at most limit bytes, backing off to a rune boundary
// so accented text never truncates mid-sequence.
func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

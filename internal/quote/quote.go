// Package quote turns budget items into a formal Colombian quotation:
// items grouped by activity, money totals with optional IVA, and a
// markdown table rendering.
package quote

import (
	"math"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gpro-labs/presupuesto-cli/internal/model"
)

// DefaultIVARate is the Colombian VAT rate.
const DefaultIVARate = 0.19

// GroupPolicy decides which activity group an item belongs to, given its
// activity cell. Injecting the policy keeps the grouping heuristic
// swappable per caller.
type GroupPolicy func(activity string) string

// DefaultGroupPolicy sends items whose activity reads like an item name
// rather than an activity (very short, or starting with digits) to a
// single "General" group.
func DefaultGroupPolicy(activity string) string {
	activity = strings.TrimSpace(activity)
	if len([]rune(activity)) < 10 {
		return "General"
	}
	for _, r := range []rune(activity)[:5] {
		if unicode.IsDigit(r) {
			return "General"
		}
	}
	return activity
}

// GroupByActivity groups items preserving first-appearance order. A nil
// policy selects DefaultGroupPolicy.
func GroupByActivity(items []model.BudgetItem, policy GroupPolicy) []model.ActivityGroup {
	if policy == nil {
		policy = DefaultGroupPolicy
	}

	index := make(map[string]int)
	var groups []model.ActivityGroup

	for _, item := range items {
		name := policy(item.Activity)
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, model.ActivityGroup{Activity: name})
		}
		groups[i].Items = append(groups[i].Items, item)
		groups[i].Subtotal += item.TotalValue
	}
	return groups
}

// ComputeTotals sums the items and applies IVA when requested.
func ComputeTotals(items []model.BudgetItem, includeIVA bool, rate float64) model.Totals {
	if rate <= 0 {
		rate = DefaultIVARate
	}

	var subtotal float64
	for _, item := range items {
		subtotal += item.TotalValue
	}

	totals := model.Totals{Subtotal: subtotal, Total: subtotal, IVARate: rate}
	if includeIVA {
		totals.IVA = subtotal * rate
		totals.Total = subtotal + totals.IVA
	}
	return totals
}

// copPrinter formats numbers with Colombian grouping (periods as thousands
// separators).
var copPrinter = message.NewPrinter(language.MustParse("es-CO"))

// FormatCOP renders an amount as "$1.234.567 COP".
func FormatCOP(v float64) string {
	return copPrinter.Sprintf("$%d COP", int64(math.Round(v)))
}

// Build assembles the full quotation document from grouped items, their
// rendered markdown and the computed totals.
func Build(groups []model.ActivityGroup, markdown string, totals model.Totals, includeIVA bool) *model.QuotationDocument {
	doc := &model.QuotationDocument{
		Markdown:    markdown,
		Groups:      groups,
		Totals:      totals,
		IncludesIVA: includeIVA,
		GeneratedAt: time.Now().UTC(),
	}
	for _, g := range groups {
		doc.TotalItems += len(g.Items)
		for _, item := range g.Items {
			if item.ValueIsEstimated {
				doc.EstimatedItems++
			}
		}
	}
	return doc
}

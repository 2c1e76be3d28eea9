package quote

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gpro-labs/presupuesto-cli/internal/model"
	"github.com/gpro-labs/presupuesto-cli/pkg/llm"
)

// Renderer produces the quotation markdown table. With a client configured
// the model drafts it; the deterministic renderer is the fallback and the
// nil-client path.
type Renderer struct {
	client llm.Client
}

// NewRenderer builds a Renderer. A nil client always uses RenderBasic.
func NewRenderer(client llm.Client) *Renderer {
	return &Renderer{client: client}
}

// Render returns the markdown quotation table for the grouped items. Any
// model failure degrades to RenderBasic, never to an error.
func (r *Renderer) Render(ctx context.Context, groups []model.ActivityGroup, totals model.Totals, includeIVA bool) string {
	if r.client == nil {
		return RenderBasic(groups, totals, includeIVA)
	}

	out, err := r.client.Complete(ctx, llm.Request{
		System: quotationSystemPrompt,
		Prompt: r.buildPrompt(groups, totals, includeIVA),
	})
	if err != nil {
		zap.L().Warn("quote: model rendering failed, using basic renderer", zap.Error(err))
		return RenderBasic(groups, totals, includeIVA)
	}

	out = stripFences(out)
	if !strings.HasPrefix(out, "|") {
		zap.L().Warn("quote: model response is not a markdown table, using basic renderer")
		return RenderBasic(groups, totals, includeIVA)
	}
	return out
}

const quotationSystemPrompt = `Eres un experto en generar cotizaciones formales para el Sistema General de Regalías (SGR) y entidades públicas colombianas.

Tu tarea es generar una cotización profesional en formato de tabla markdown, usando terminología colombiana formal.

REGLAS ESTRICTAS:
1. Responde ÚNICAMENTE con una tabla markdown, sin texto adicional antes o después
2. Usa terminología colombiana: "Ítem", "Valor unitario", "Valor total", "Subtotal por actividad", "Total general"
3. Formato de moneda: $1.234.567 COP (con puntos como separadores de miles)
4. Agrupa los ítems por actividad e incluye subtotal por cada actividad
5. Al final, incluye TOTAL GENERAL
6. Si se solicita IVA, incluye fila de IVA (19%) y TOTAL CON IVA
7. Usa encabezados: | Ítem | Descripción | Cantidad | Valor unitario | Valor total |`

func (r *Renderer) buildPrompt(groups []model.ActivityGroup, totals model.Totals, includeIVA bool) string {
	var sb strings.Builder
	sb.WriteString("Genera una cotización en formato de tabla markdown con los siguientes datos:\n\nDATOS DE LAS ACTIVIDADES:\n")

	n := 1
	for _, g := range groups {
		fmt.Fprintf(&sb, "\nACTIVIDAD: %s\nÍtems:\n", g.Activity)
		for _, item := range g.Items {
			fmt.Fprintf(&sb, "  %d. %s\n     Cantidad: %g\n     Valor unitario: %s\n     Valor total: %s\n",
				n, item.Name, item.Quantity, FormatCOP(item.UnitValue), FormatCOP(item.TotalValue))
			if item.Justification != "" {
				fmt.Fprintf(&sb, "     Justificación: %s\n", item.Justification)
			}
			n++
		}
	}

	fmt.Fprintf(&sb, "\nTOTALES:\n- Total sin IVA: %s\n", FormatCOP(totals.Subtotal))
	if includeIVA {
		fmt.Fprintf(&sb, "- IVA (%.0f%%): %s\n- Total con IVA: %s\n",
			totals.IVARate*100, FormatCOP(totals.IVA), FormatCOP(totals.Total))
		sb.WriteString("\nINCLUYE IVA y TOTAL CON IVA al final de la tabla.\n")
	} else {
		sb.WriteString("\nNO incluyas IVA.\n")
	}
	sb.WriteString("Responde SOLO con la tabla markdown, sin texto adicional.")
	return sb.String()
}

// RenderBasic is the deterministic markdown renderer.
func RenderBasic(groups []model.ActivityGroup, totals model.Totals, includeIVA bool) string {
	var sb strings.Builder
	sb.WriteString("| Ítem | Descripción | Cantidad | Valor unitario | Valor total |\n")
	sb.WriteString("|------|-------------|----------|----------------|------------|\n")

	n := 1
	for _, g := range groups {
		fmt.Fprintf(&sb, "| **ACTIVIDAD: %s** | | | | |\n", g.Activity)
		for _, item := range g.Items {
			fmt.Fprintf(&sb, "| %d | %s | %g | %s | %s |\n",
				n, item.Name, item.Quantity, FormatCOP(item.UnitValue), FormatCOP(item.TotalValue))
			n++
		}
		fmt.Fprintf(&sb, "| | **Subtotal por actividad** | | | **%s** |\n", FormatCOP(g.Subtotal))
		sb.WriteString("| | | | | |\n")
	}

	fmt.Fprintf(&sb, "| | **TOTAL GENERAL** | | | **%s** |\n", FormatCOP(totals.Subtotal))
	if includeIVA {
		fmt.Fprintf(&sb, "| | IVA (%.0f%%) | | | **%s** |\n", totals.IVARate*100, FormatCOP(totals.IVA))
		fmt.Fprintf(&sb, "| | **TOTAL CON IVA** | | | **%s** |\n", FormatCOP(totals.Total))
	}
	return sb.String()
}

// stripFences removes a wrapping markdown code fence from a model
// response.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

package quote

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpro-labs/presupuesto-cli/internal/model"
	"github.com/gpro-labs/presupuesto-cli/pkg/llm"
)

func TestDefaultGroupPolicy(t *testing.T) {
	tests := []struct {
		activity string
		want     string
	}{
		{"Desarrollo del módulo de reportes", "Desarrollo del módulo de reportes"},
		{"Corta", "General"},
		{"", "General"},
		{"12. Licencias anuales de software", "General"},
		{"Implementación y puesta en marcha", "Implementación y puesta en marcha"},
	}
	for _, tt := range tests {
		t.Run(tt.activity, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultGroupPolicy(tt.activity))
		})
	}
}

func TestGroupByActivity(t *testing.T) {
	items := []model.BudgetItem{
		{Name: "a", Activity: "Desarrollo de la plataforma", TotalValue: 100},
		{Name: "b", Activity: "Capacitación de usuarios finales", TotalValue: 200},
		{Name: "c", Activity: "Desarrollo de la plataforma", TotalValue: 300},
		{Name: "d", Activity: "x", TotalValue: 50},
	}

	groups := GroupByActivity(items, nil)
	require.Len(t, groups, 3)

	assert.Equal(t, "Desarrollo de la plataforma", groups[0].Activity)
	assert.Equal(t, 400.0, groups[0].Subtotal)
	require.Len(t, groups[0].Items, 2)

	assert.Equal(t, "Capacitación de usuarios finales", groups[1].Activity)
	assert.Equal(t, "General", groups[2].Activity)
}

func TestGroupByActivityCustomPolicy(t *testing.T) {
	all := func(string) string { return "Todo" }
	groups := GroupByActivity([]model.BudgetItem{
		{Activity: "Una actividad cualquiera", TotalValue: 1},
		{Activity: "Otra actividad distinta", TotalValue: 2},
	}, all)
	require.Len(t, groups, 1)
	assert.Equal(t, 3.0, groups[0].Subtotal)
}

func TestComputeTotals(t *testing.T) {
	items := []model.BudgetItem{{TotalValue: 600_000}, {TotalValue: 400_000}}

	t.Run("with IVA", func(t *testing.T) {
		totals := ComputeTotals(items, true, 0.19)
		assert.Equal(t, 1_000_000.0, totals.Subtotal)
		assert.InDelta(t, 190_000.0, totals.IVA, 1e-6)
		assert.InDelta(t, 1_190_000.0, totals.Total, 1e-6)
	})

	t.Run("without IVA", func(t *testing.T) {
		totals := ComputeTotals(items, false, 0.19)
		assert.Equal(t, 1_000_000.0, totals.Subtotal)
		assert.Zero(t, totals.IVA)
		assert.Equal(t, 1_000_000.0, totals.Total)
	})
}

func TestFormatCOP(t *testing.T) {
	assert.Equal(t, "$1.234.567 COP", FormatCOP(1234567))
	assert.Equal(t, "$500 COP", FormatCOP(500))
	assert.Equal(t, "$1.500.000 COP", FormatCOP(1500000.4))
}

func TestRenderBasic(t *testing.T) {
	groups := GroupByActivity([]model.BudgetItem{
		{Name: "Consultoría especializada", Activity: "Fortalecimiento institucional",
			Quantity: 10, UnitValue: 150_000, TotalValue: 1_500_000},
	}, nil)
	totals := ComputeTotals(groups[0].Items, true, 0.19)

	md := RenderBasic(groups, totals, true)

	assert.True(t, strings.HasPrefix(md, "| Ítem | Descripción | Cantidad | Valor unitario | Valor total |"))
	assert.Contains(t, md, "| **ACTIVIDAD: Fortalecimiento institucional** | | | | |")
	assert.Contains(t, md, "| 1 | Consultoría especializada | 10 | $150.000 COP | $1.500.000 COP |")
	assert.Contains(t, md, "**Subtotal por actividad** | | | **$1.500.000 COP**")
	assert.Contains(t, md, "**TOTAL GENERAL** | | | **$1.500.000 COP**")
	assert.Contains(t, md, "IVA (19%) | | | **$285.000 COP**")
	assert.Contains(t, md, "**TOTAL CON IVA** | | | **$1.785.000 COP**")
}

type mockClient struct {
	complete func(ctx context.Context, req llm.Request) (string, error)
}

func (m *mockClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	return m.complete(ctx, req)
}

func TestRendererModelPath(t *testing.T) {
	table := "| Ítem | Descripción | Cantidad | Valor unitario | Valor total |\n| 1 | x | 1 | $1 COP | $1 COP |"
	r := NewRenderer(&mockClient{
		complete: func(_ context.Context, req llm.Request) (string, error) {
			assert.Contains(t, req.Prompt, "DATOS DE LAS ACTIVIDADES")
			return "```markdown\n" + table + "\n```", nil
		},
	})

	md := r.Render(context.Background(), nil, model.Totals{}, false)
	assert.Equal(t, table, md)
}

func TestRendererFallsBackOnError(t *testing.T) {
	groups := []model.ActivityGroup{{Activity: "General", Items: []model.BudgetItem{
		{Name: "Algo", Quantity: 1, UnitValue: 100, TotalValue: 100},
	}, Subtotal: 100}}

	r := NewRenderer(&mockClient{
		complete: func(context.Context, llm.Request) (string, error) {
			return "", eris.New("timeout")
		},
	})
	md := r.Render(context.Background(), groups, model.Totals{Subtotal: 100, Total: 100, IVARate: 0.19}, false)
	assert.Contains(t, md, "**TOTAL GENERAL**")
}

func TestRendererFallsBackOnProse(t *testing.T) {
	r := NewRenderer(&mockClient{
		complete: func(context.Context, llm.Request) (string, error) {
			return "Lo siento, no puedo generar la tabla.", nil
		},
	})
	md := r.Render(context.Background(), nil, model.Totals{IVARate: 0.19}, false)
	assert.Contains(t, md, "| Ítem | Descripción |")
}

func TestBuildCounts(t *testing.T) {
	groups := GroupByActivity([]model.BudgetItem{
		{Name: "a", Activity: "Actividad principal uno", TotalValue: 100, ValueIsEstimated: true},
		{Name: "b", Activity: "Actividad principal uno", TotalValue: 200},
	}, nil)
	totals := ComputeTotals(nil, false, 0)

	doc := Build(groups, "| tabla |", totals, false)
	assert.Equal(t, 2, doc.TotalItems)
	assert.Equal(t, 1, doc.EstimatedItems)
	assert.False(t, doc.IncludesIVA)
	assert.False(t, doc.GeneratedAt.IsZero())
}

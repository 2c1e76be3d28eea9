package budget

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gpro-labs/presupuesto-cli/internal/model"
	"github.com/gpro-labs/presupuesto-cli/internal/rubro"
)

func item(name string, r rubro.Rubro, total, confidence float64, estimated bool) model.BudgetItem {
	return model.BudgetItem{
		Name:             name,
		Rubro:            r,
		Quantity:         1,
		UnitValue:        total,
		TotalValue:       total,
		Confidence:       confidence,
		ValueIsEstimated: estimated,
	}
}

func TestAssemble(t *testing.T) {
	items := []model.BudgetItem{
		item("Coordinador", rubro.TalentoHumano, 5_000_000, 0.9, false),
		item("Asistente", rubro.TalentoHumano, 2_000_000, 0.7, true),
		item("Licencias", rubro.EquiposSoftware, 1_000_000, 0.9, false),
	}

	doc := Assemble(items, Meta{
		ProjectID:    "42",
		SourceSheets: []string{"01. Talento Humano"},
		Method:       model.MethodExcel,
	})

	assert.Equal(t, 8_000_000.0, doc.TotalBudget)
	assert.Equal(t, 3, doc.TotalItems)
	assert.Equal(t, 1, doc.EstimatedItems)
	require.Len(t, doc.Categories, 2)

	th := doc.Categories[rubro.TalentoHumano]
	require.NotNil(t, th)
	assert.Equal(t, 7_000_000.0, th.Subtotal)
	assert.InDelta(t, 0.8, th.Confidence, 1e-9)
	assert.Equal(t, rubro.TalentoHumano.Description(), th.Description)

	// Document confidence is the mean of category confidences.
	assert.InDelta(t, (0.8+0.9)/2, doc.ConfidenceScore, 1e-9)
	assert.False(t, doc.GeneratedAt.IsZero())
}

func TestAssembleEmpty(t *testing.T) {
	doc := Assemble(nil, Meta{})
	assert.Zero(t, doc.TotalBudget)
	assert.Empty(t, doc.Categories)
	assert.Equal(t, model.DefaultConfidenceWeights().Synthesized, doc.ConfidenceScore)
}

func TestCategoryOrder(t *testing.T) {
	items := []model.BudgetItem{
		item("x", rubro.Otros, 1, 0.5, false),
		item("y", rubro.GastosViaje, 1, 0.5, false),
		item("z", rubro.TalentoHumano, 1, 0.5, false),
	}
	doc := Assemble(items, Meta{})
	assert.Equal(t,
		[]rubro.Rubro{rubro.TalentoHumano, rubro.GastosViaje, rubro.Otros},
		CategoryOrder(doc))
}

func TestDefaultItems(t *testing.T) {
	items := DefaultItems(2)
	require.Len(t, items, 6)

	byRubro := make(map[rubro.Rubro]model.BudgetItem)
	for _, it := range items {
		byRubro[it.Rubro] = it
		assert.Equal(t, it.Quantity*it.UnitValue, it.TotalValue, it.Name)
		assert.True(t, it.ValueIsEstimated)
		assert.Equal(t, model.DefaultConfidenceWeights().Synthesized, it.Confidence)
	}

	// Recurring entries scale with duration, one-off entries don't.
	assert.Equal(t, 10_000_000.0, byRubro[rubro.TalentoHumano].TotalValue)
	assert.Equal(t, 6_000_000.0, byRubro[rubro.EquiposSoftware].TotalValue)
	assert.Equal(t, 1_500_000.0, byRubro[rubro.CapacitacionEventos].TotalValue)
}

func TestDefaultItemsMinimumDuration(t *testing.T) {
	items := DefaultItems(0)
	for _, it := range items {
		assert.GreaterOrEqual(t, it.Quantity, 1.0)
	}
}

func TestRenderXLSX(t *testing.T) {
	items := []model.BudgetItem{
		{
			Name: "Coordinador de proyecto", Rubro: rubro.TalentoHumano,
			Quantity: 12, UnitValue: 5_000_000, TotalValue: 60_000_000,
			Justification: "Coordinación general", Period: 1, Confidence: 0.9,
		},
	}
	doc := Assemble(items, Meta{ProjectID: "7", ProjectDescription: "Portal TIC", DurationYears: 1})

	data, err := RenderXLSX(doc)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, budgetSheetName, f.GetSheetName(0))

	title, err := f.GetCellValue(budgetSheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Presupuesto del Proyecto - ID: 7", title)

	header, err := f.GetCellValue(budgetSheetName, "A6")
	require.NoError(t, err)
	assert.Equal(t, "Descripción", header)

	name, err := f.GetCellValue(budgetSheetName, "A7")
	require.NoError(t, err)
	assert.Equal(t, "Coordinador de proyecto", name)

	subtotalLabel, err := f.GetCellValue(budgetSheetName, "A8")
	require.NoError(t, err)
	assert.Equal(t, "Subtotal TalentoHumano:", subtotalLabel)

	totalLabel, err := f.GetCellValue(budgetSheetName, "A10")
	require.NoError(t, err)
	assert.Equal(t, "TOTAL GENERAL:", totalLabel)
}

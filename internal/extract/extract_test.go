package extract

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpro-labs/presupuesto-cli/internal/model"
	"github.com/gpro-labs/presupuesto-cli/internal/rubro"
	"github.com/gpro-labs/presupuesto-cli/internal/sheet"
)

func TestValidActivity(t *testing.T) {
	tests := []struct {
		activity string
		want     bool
	}{
		{"Consultoría especializada", true},
		{"Desarrollo de software", true},
		{"", false},
		{"   ", false},
		{"TOTAL", false},
		{"Subtotal capítulo 2", false},
		{"GRAN TOTAL", false},
		{"Nota: valores en COP", false},
		{"Observaciones", false},
		{"actividad", false},
		{"CANTIDAD", false},
	}
	for _, tt := range tests {
		t.Run(tt.activity, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidActivity(tt.activity))
		})
	}
}

func TestExtractSheets(t *testing.T) {
	e := NewExtractor(nil, model.ConfidenceWeights{})

	sheets := []sheet.RawSheet{
		{
			Name: "Presupuesto",
			Rows: [][]string{
				{"Plan de trabajo 2026"},
				{"ACTIVIDAD", "CANTIDAD", "VALOR UNITARIO"},
				{"Consultoría especializada", "10", "150000"},
				{"TOTAL", "", ""},
			},
		},
		{
			Name: "Cronograma",
			Rows: [][]string{
				{"Fase", "Inicio", "Fin"},
				{"Fase 1", "enero", "marzo"},
			},
		},
	}

	result, err := e.ExtractSheets(sheets)
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	item := result.Items[0]
	assert.Equal(t, "Consultoría especializada", item.Activity)
	assert.Equal(t, 10.0, item.Quantity)
	assert.Equal(t, 150000.0, item.UnitValue)
	assert.Equal(t, 1500000.0, item.TotalValue)
	assert.False(t, item.NeedsEstimation)
	assert.Equal(t, model.DefaultConfidenceWeights().Direct, item.Confidence)

	assert.Equal(t, []string{"Presupuesto"}, result.Sheets)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "Cronograma", result.Skipped[0].Name)
}

func TestExtractSheetsEmptyUnitColumn(t *testing.T) {
	e := NewExtractor(nil, model.ConfidenceWeights{})

	// Items whose unit-value column is entirely empty stay on the
	// estimation path instead of inheriting quantities as totals.
	sheets := []sheet.RawSheet{
		{
			Name: "Presupuesto",
			Rows: [][]string{
				{"ACTIVIDAD", "CANTIDAD", "VALOR UNITARIO"},
				{"Consultoría especializada", "10", ""},
				{"Desarrollo de software", "5", ""},
			},
		},
	}

	result, err := e.ExtractSheets(sheets)
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	for _, item := range result.Items {
		assert.True(t, item.NeedsEstimation)
		assert.Zero(t, item.UnitValue)
		assert.Zero(t, item.TotalValue)
		assert.Zero(t, item.Confidence)
	}
}

func TestExtractSheetsNoValidItems(t *testing.T) {
	e := NewExtractor(nil, model.ConfidenceWeights{})

	sheets := []sheet.RawSheet{
		{
			Name: "Vacía",
			Rows: [][]string{
				{"ACTIVIDAD", "CANTIDAD", "VALOR UNITARIO"},
				{"TOTAL", "", ""},
			},
		},
	}

	_, err := e.ExtractSheets(sheets)
	require.ErrorIs(t, err, ErrNoValidItems)
}

func TestExtractSheetsMissingColumns(t *testing.T) {
	e := NewExtractor(nil, model.ConfidenceWeights{})

	// The header mentions every keyword but no cell maps to an activity
	// column and every data cell is numeric, so the fallback fails too.
	sheets := []sheet.RawSheet{
		{
			Name: "Rara",
			Rows: [][]string{
				{"ACTIVIDAD Y CANTIDAD", "VALOR UNITARIO"},
				{"1", "100"},
			},
		},
		{
			Name: "Buena",
			Rows: [][]string{
				{"ACTIVIDAD", "CANTIDAD", "VALOR UNITARIO"},
				{"Soporte técnico anual", "1", "900000"},
			},
		},
	}

	result, err := e.ExtractSheets(sheets)
	require.NoError(t, err)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "Rara", result.Skipped[0].Name)
	assert.Contains(t, result.Skipped[0].Missing, sheet.RoleActivity)
	require.Len(t, result.Items, 1)
}

func TestExtractItemNeedsEstimation(t *testing.T) {
	e := NewExtractor(nil, model.ConfidenceWeights{})

	s := sheet.RawSheet{
		Name: "Presupuesto",
		Rows: [][]string{
			{"ACTIVIDAD", "CANTIDAD", "VALOR UNITARIO"},
			{"Taller de capacitación anual", "", "pendiente"},
		},
	}
	m, err := sheet.MapColumns(s, 0)
	require.NoError(t, err)

	item, ok := e.ExtractItem(s, 1, m)
	require.True(t, ok)
	assert.True(t, item.NeedsEstimation)
	assert.Equal(t, 1.0, item.Quantity)
	assert.Zero(t, item.UnitValue)
	assert.Zero(t, item.Confidence)
	assert.Equal(t, rubro.CapacitacionEventos, item.Rubro)
}

func TestExtractItemUnitFromTotal(t *testing.T) {
	e := NewExtractor(nil, model.ConfidenceWeights{})

	s := sheet.RawSheet{
		Name: "Presupuesto",
		Rows: [][]string{
			{"ACTIVIDAD", "CANTIDAD", "VALOR UNITARIO", "VALOR TOTAL"},
			{"Servidores de cómputo", "2", "", "3.000.000"},
		},
	}
	m, err := sheet.MapColumns(s, 0)
	require.NoError(t, err)

	item, ok := e.ExtractItem(s, 1, m)
	require.True(t, ok)
	assert.False(t, item.NeedsEstimation)
	assert.Equal(t, 1500000.0, item.UnitValue)
	assert.Equal(t, 3000000.0, item.TotalValue)
}

func TestExtractSheetsTextFallback(t *testing.T) {
	e := NewExtractor(nil, model.ConfidenceWeights{})

	// A prose table with no header row still contributes via cost-pattern
	// mining instead of being skipped.
	sheets := []sheet.RawSheet{
		{
			Name: "Tabla_1",
			Rows: [][]string{
				{"El proyecto contempla servicios de consultoría."},
				{"Se estima un valor: $2.500.000 para el primer año."},
			},
		},
	}

	result, err := e.ExtractSheets(sheets)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	item := result.Items[0]
	assert.Equal(t, 2500000.0, item.UnitValue)
	assert.Equal(t, rubro.ServiciosTecnologicos, item.Rubro)
	assert.Equal(t, model.DefaultConfidenceWeights().Pattern, item.Confidence)
	assert.Equal(t, []string{"Tabla_1"}, result.Sheets)
	assert.Empty(t, result.Skipped)
}

func TestScanCostPatterns(t *testing.T) {
	e := NewExtractor(nil, model.ConfidenceWeights{})

	t.Run("currency word", func(t *testing.T) {
		items := e.ScanCostPatterns(
			"Se pagaron 2.000.000 pesos por licencias del sistema.", "Tabla_1")
		require.Len(t, items, 1)
		assert.Equal(t, 2000000.0, items[0].UnitValue)
		assert.Equal(t, rubro.EquiposSoftware, items[0].Rubro)
		assert.Equal(t, model.DefaultConfidenceWeights().Pattern, items[0].Confidence)
	})

	t.Run("cost keyword", func(t *testing.T) {
		items := e.ScanCostPatterns(
			"El servicio de consultoría tiene un costo: 1.500.000 anual.", "doc")
		require.Len(t, items, 1)
		assert.Equal(t, 1500000.0, items[0].TotalValue)
	})

	t.Run("no amounts", func(t *testing.T) {
		items := e.ScanCostPatterns("El proyecto durará tres años.", "doc")
		assert.Empty(t, items)
	})

	t.Run("accented context stays valid utf-8", func(t *testing.T) {
		// The context window lands mid-rune on both sides of the match.
		text := "x" + strings.Repeat("ñ", 40) + " costo: 500.000 " + strings.Repeat("é", 40)
		items := e.ScanCostPatterns(text, "doc")
		require.Len(t, items, 1)
		assert.Equal(t, 500000.0, items[0].UnitValue)
		assert.True(t, utf8.ValidString(items[0].Name))
	})
}

func TestMissingColumnsErrorAs(t *testing.T) {
	err := error(&sheet.MissingColumnsError{Sheet: "x", Missing: []sheet.Role{sheet.RoleQuantity}})
	var target *sheet.MissingColumnsError
	require.True(t, errors.As(err, &target))
	assert.Contains(t, err.Error(), "CANTIDAD")
}

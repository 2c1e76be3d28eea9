package budget

import (
	"github.com/gpro-labs/presupuesto-cli/internal/model"
	"github.com/gpro-labs/presupuesto-cli/internal/rubro"
)

// DefaultItems returns the fixed template budget used when no document
// yields any items: one representative item per category, recurring costs
// scaled by project duration. All values carry the synthesized confidence
// floor.
func DefaultItems(durationYears int) []model.BudgetItem {
	if durationYears < 1 {
		durationYears = 1
	}
	years := float64(durationYears)
	confidence := model.DefaultConfidenceWeights().Synthesized

	type entry struct {
		name          string
		r             rubro.Rubro
		quantity      float64
		unitValue     float64
		justification string
	}

	// Recurring entries repeat once per project year; one-off entries keep
	// quantity independent of duration.
	entries := []entry{
		{
			name:          "Coordinador del proyecto",
			r:             rubro.TalentoHumano,
			quantity:      years,
			unitValue:     5_000_000,
			justification: "Recurso humano principal para la coordinación del proyecto",
		},
		{
			name:          "Servicios de desarrollo de software",
			r:             rubro.ServiciosTecnologicos,
			quantity:      years,
			unitValue:     2_000_000,
			justification: "Servicios tecnológicos necesarios para el proyecto",
		},
		{
			name:          "Equipos de cómputo",
			r:             rubro.EquiposSoftware,
			quantity:      2,
			unitValue:     3_000_000,
			justification: "Equipos necesarios para el desarrollo del proyecto",
		},
		{
			name:          "Materiales y suministros generales",
			r:             rubro.MaterialesInsumos,
			quantity:      years,
			unitValue:     1_000_000,
			justification: "Materiales básicos para el proyecto",
		},
		{
			name:          "Capacitación del equipo",
			r:             rubro.CapacitacionEventos,
			quantity:      1,
			unitValue:     1_500_000,
			justification: "Capacitación necesaria para el equipo del proyecto",
		},
		{
			name:          "Gastos de viaje y desplazamiento",
			r:             rubro.GastosViaje,
			quantity:      years,
			unitValue:     2_000_000,
			justification: "Gastos de desplazamiento para actividades del proyecto",
		},
	}

	items := make([]model.BudgetItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, model.BudgetItem{
			Name:             e.name,
			Activity:         e.name,
			Rubro:            e.r,
			Quantity:         e.quantity,
			UnitValue:        e.unitValue,
			TotalValue:       e.quantity * e.unitValue,
			Justification:    e.justification,
			Period:           1,
			ValueIsEstimated: true,
			Confidence:       confidence,
		})
	}
	return items
}

package rubro

import (
	"sort"
	"strings"
)

// GlobalDefaultValue is the unit value applied when no category key
// matches, in COP.
const GlobalDefaultValue = 1_000_000

// DefaultSheetValues maps official SGR workbook sheet names to typical
// per-unit COP values, used when estimation is unavailable or fails.
func DefaultSheetValues() map[string]float64 {
	return map[string]float64{
		"01. Talento Humano":               5_000_000,
		"02. Equipos y Software":           2_000_000,
		"03. Capacitación y Eventos":       500_000,
		"04. Servicios Tecnológicos":       1_500_000,
		"05. Materiales, insumos y Doc":    300_000,
		"06. Protección conocimiento y Di": 800_000,
		"07. Gastos de viaje":              500_000,
		"11. Otros":                        1_000_000,
	}
}

// DefaultTable resolves a fallback unit value for a sheet or category name.
// Matching tolerates minor naming variants by accepting substring
// containment in either direction ("01. Talento Humano" vs "Talento Humano").
type DefaultTable struct {
	values map[string]float64
	global float64
}

// NewDefaultTable builds a DefaultTable. Nil values select
// DefaultSheetValues; a non-positive global selects GlobalDefaultValue.
func NewDefaultTable(values map[string]float64, global float64) DefaultTable {
	if values == nil {
		values = DefaultSheetValues()
	}
	if global <= 0 {
		global = GlobalDefaultValue
	}
	return DefaultTable{values: values, global: global}
}

// Value returns the default unit value for the given sheet/category name.
// When several keys match, the longest wins; equal lengths break on
// lexicographic key order so the result never depends on map iteration.
func (t DefaultTable) Value(name string) float64 {
	name = strings.TrimSpace(name)
	if name == "" {
		return t.global
	}

	keys := make([]string, 0, len(t.values))
	for key := range t.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	best := ""
	for _, key := range keys {
		if !strings.Contains(name, key) && !strings.Contains(key, name) {
			continue
		}
		if len(key) > len(best) {
			best = key
		}
	}
	if best == "" {
		return t.global
	}
	return t.values[best]
}

package sheet

import (
	"fmt"
	"strings"

	"github.com/gpro-labs/presupuesto-cli/internal/numeric"
)

// Role is a semantic column role in a budget sheet.
type Role string

const (
	RoleActivity       Role = "actividad"
	RoleQuantity       Role = "cantidad"
	RoleUnitValue      Role = "valor_unitario"
	RoleTotalValue     Role = "valor_total"
	RoleJustification  Role = "justificacion"
	RoleSpecifications Role = "especificaciones"
	RolePeriod         Role = "periodo"
	RoleRubro          Role = "rubro"
)

// mandatoryRoles must all be mapped for a sheet to be extractable.
var mandatoryRoles = []Role{RoleActivity, RoleQuantity, RoleUnitValue}

// roleKeywords maps each role to the header keywords that identify it, in
// Colombian budget vocabulary. Matching is case-insensitive substring.
var roleKeywords = map[Role][]string{
	RoleActivity: {
		"actividad", "tarea", "item", "ítem", "descripción", "descripcion",
		"nombre", "concepto", "producto", "servicio",
	},
	RoleQuantity: {
		"cantidad", "cant", "unidades", "número", "numero", "qty", "unid",
	},
	RoleUnitValue: {
		"valor unitario", "costo unitario", "precio unitario",
		"v. unitario", "c. unitario", "p. unitario", "valor/u", "precio/u",
	},
	RoleTotalValue: {
		"valor total", "costo total", "c. total", "v. total",
		"total", "subtotal", "monto",
	},
	RoleJustification: {
		"justificación", "justificacion", "descripción técnica",
		"observaciones", "notas",
	},
	RoleSpecifications: {
		"especificaciones", "especificaciones técnicas", "specs",
		"detalles técnicos",
	},
	RolePeriod: {
		"periodo", "período", "año", "anio", "mes", "trimestre", "semestre",
	},
	RoleRubro: {
		"rubro", "categoría", "categoria", "clasificación", "clasificacion",
	},
}

// sgrDescriptionColumns maps official SGR sheet names to the column that
// carries the real item description on that sheet.
var sgrDescriptionColumns = map[string]string{
	"01. Talento Humano":               "CARGO ESPECÍFICO",
	"02. Equipos y Software":           "EQUIPOS Y SOFTWARE (DESCRIPCIÓN)",
	"03. Capacitación y Eventos":       "CAPACITACIÓN Y EVENTOS (DESCRIPCIÓN)",
	"04. Servicios Tecnológicos":       "SERVICIOS TECNOLÓGICOS (DESCRIPCIÓN)",
	"05. Materiales, insumos y Doc":    "MATERIALES E INSUMOS (DESCRIPCIÓN)",
	"06. Protección conocimiento y Di": "PROTECCIÓN CONOCIMIENTO Y DIFUSIÓN (DESCRIPCIÓN)",
	"07. Gastos de viaje":              "GASTOS DE VIAJE (DESCRIPCIÓN)",
	"11. Otros":                        "OTROS (DESCRIPCIÓN)",
}

// descriptionKeywords is the fallback for non-SGR sheets when picking a
// description column.
var descriptionKeywords = []string{
	"descripción", "descripcion", "concepto", "item", "servicio",
}

// headerScanLimit bounds how many leading rows LocateHeader inspects.
const headerScanLimit = 50

// MissingColumnsError reports a sheet whose header was found but which
// still lacks mandatory roles after fallbacks.
type MissingColumnsError struct {
	Sheet   string
	Missing []Role
}

func (e *MissingColumnsError) Error() string {
	names := make([]string, len(e.Missing))
	for i, r := range e.Missing {
		names[i] = strings.ToUpper(string(r))
	}
	return fmt.Sprintf("sheet %q is missing required columns: %s",
		e.Sheet, strings.Join(names, ", "))
}

// ColumnMapping maps semantic roles to column indexes for one sheet. It is
// built once per sheet and immutable afterward.
type ColumnMapping struct {
	Header      []string
	cols        map[Role]int
	Description int // item-description column, -1 when none was found
}

// Col returns the column index mapped to the role.
func (m ColumnMapping) Col(role Role) (int, bool) {
	idx, ok := m.cols[role]
	return idx, ok
}

// HeaderAt returns the normalized header text of a column.
func (m ColumnMapping) HeaderAt(col int) string {
	if col < 0 || col >= len(m.Header) {
		return ""
	}
	return m.Header[col]
}

// LocateHeader scans the first rows of a raw sheet for the one that reads
// as the budget header: it must contain activity-like, quantity-like and
// unit-value-like keywords at once. Returns false when no row qualifies,
// which marks the sheet as not budget-bearing.
func LocateHeader(s RawSheet) (int, bool) {
	limit := len(s.Rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}

	for i := 0; i < limit; i++ {
		text := strings.ToLower(strings.Join(s.Rows[i], " "))
		if containsAny(text, roleKeywords[RoleActivity]) &&
			containsAny(text, roleKeywords[RoleQuantity]) &&
			containsAny(text, roleKeywords[RoleUnitValue]) {
			return i, true
		}
	}
	return 0, false
}

// MapColumns builds the role→column mapping for a sheet using the row at
// headerRow as column names. Two fallbacks mirror how analysts read these
// files: a missing activity column becomes the first unclaimed
// mostly-non-numeric column, and a missing total column becomes the last
// unclaimed mostly-numeric one.
// Returns MissingColumnsError when a mandatory role stays unmapped.
func MapColumns(s RawSheet, headerRow int) (ColumnMapping, error) {
	raw := s.Rows[headerRow]
	header := make([]string, len(raw))
	for i, h := range raw {
		header[i] = strings.ToUpper(strings.TrimSpace(h))
	}

	cols := make(map[Role]int)
	for col, h := range header {
		lower := strings.ToLower(h)
		if lower == "" {
			continue
		}
		for _, role := range roleOrder() {
			if _, taken := cols[role]; taken {
				continue
			}
			if containsAny(lower, roleKeywords[role]) {
				cols[role] = col
				break
			}
		}
	}

	if _, ok := cols[RoleActivity]; !ok {
		if col, ok := firstTextColumn(s, headerRow, claimedColumns(cols)); ok {
			cols[RoleActivity] = col
		}
	}
	if _, ok := cols[RoleTotalValue]; !ok {
		if col, ok := lastNumericColumn(s, headerRow, claimedColumns(cols)); ok {
			cols[RoleTotalValue] = col
		}
	}

	var missing []Role
	for _, role := range mandatoryRoles {
		if _, ok := cols[role]; !ok {
			missing = append(missing, role)
		}
	}
	if len(missing) > 0 {
		return ColumnMapping{}, &MissingColumnsError{Sheet: s.Name, Missing: missing}
	}

	return ColumnMapping{
		Header:      header,
		cols:        cols,
		Description: descriptionColumn(s.Name, header, cols),
	}, nil
}

// roleOrder fixes the priority in which a header cell is claimed by a
// role. Unit value comes before total so "VALOR UNITARIO" is never eaten
// by the total role's bare "valor" variants, and specific roles come
// before the activity role's broad keyword list.
func roleOrder() []Role {
	return []Role{
		RoleUnitValue, RoleTotalValue, RoleQuantity, RoleRubro,
		RolePeriod, RoleSpecifications, RoleJustification, RoleActivity,
	}
}

// descriptionColumn picks the item-description column: the official SGR
// column for known sheet names, else the first header matching description
// keywords, else -1 (callers fall back to the activity column).
func descriptionColumn(sheetName string, header []string, cols map[Role]int) int {
	if want, ok := sgrDescriptionColumns[sheetName]; ok {
		for col, h := range header {
			if strings.EqualFold(h, want) {
				return col
			}
		}
	}

	activity := -1
	if c, ok := cols[RoleActivity]; ok {
		activity = c
	}
	for col, h := range header {
		if col == activity {
			continue
		}
		if containsAny(strings.ToLower(h), descriptionKeywords) {
			return col
		}
	}
	return -1
}

// columnSampleLimit bounds how many data rows the column-type fallbacks
// sample.
const columnSampleLimit = 30

// firstTextColumn finds the leftmost unclaimed column whose sampled data
// cells are mostly non-numeric text.
func firstTextColumn(s RawSheet, headerRow int, taken map[int]bool) (int, bool) {
	width := rowWidth(s, headerRow)
	for col := 0; col < width; col++ {
		if taken[col] {
			continue
		}
		text, numbers := sampleColumn(s, headerRow, col)
		if text > 0 && text >= numbers {
			return col, true
		}
	}
	return 0, false
}

// lastNumericColumn finds the rightmost unclaimed column whose sampled
// data cells are mostly numeric. Columns already claimed by another role
// are skipped so an empty unit-value column never promotes the quantity
// column to a total.
func lastNumericColumn(s RawSheet, headerRow int, taken map[int]bool) (int, bool) {
	width := rowWidth(s, headerRow)
	for col := width - 1; col >= 0; col-- {
		if taken[col] {
			continue
		}
		text, numbers := sampleColumn(s, headerRow, col)
		if numbers > 0 && numbers >= text {
			return col, true
		}
	}
	return 0, false
}

// claimedColumns collects the column indexes already bound to a role.
func claimedColumns(cols map[Role]int) map[int]bool {
	taken := make(map[int]bool, len(cols))
	for _, col := range cols {
		taken[col] = true
	}
	return taken
}

func sampleColumn(s RawSheet, headerRow, col int) (text, numbers int) {
	limit := len(s.Rows)
	if limit > headerRow+1+columnSampleLimit {
		limit = headerRow + 1 + columnSampleLimit
	}
	for row := headerRow + 1; row < limit; row++ {
		v := strings.TrimSpace(s.Cell(row, col))
		if v == "" {
			continue
		}
		if _, ok := numeric.Parse(v); ok {
			numbers++
		} else {
			text++
		}
	}
	return text, numbers
}

func rowWidth(s RawSheet, headerRow int) int {
	width := len(s.Rows[headerRow])
	for _, r := range s.Rows {
		if len(r) > width {
			width = len(r)
		}
	}
	return width
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

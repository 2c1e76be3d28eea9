// Package rubro classifies free-form Spanish budget text into the fixed set
// of SGR spending categories (rubros) by keyword scoring.
package rubro

import "strings"

// Rubro is a top-level spending category.
type Rubro string

const (
	TalentoHumano         Rubro = "TalentoHumano"
	ServiciosTecnologicos Rubro = "ServiciosTecnologicos"
	EquiposSoftware       Rubro = "EquiposSoftware"
	MaterialesInsumos     Rubro = "MaterialesInsumos"
	CapacitacionEventos   Rubro = "CapacitacionEventos"
	GastosViaje           Rubro = "GastosViaje"
	Otros                 Rubro = "Otros"
)

// All returns every classifiable rubro in declaration order. Ordering
// matters: Classify breaks score ties by the first declared rubro.
func All() []Rubro {
	return []Rubro{
		TalentoHumano,
		ServiciosTecnologicos,
		EquiposSoftware,
		MaterialesInsumos,
		CapacitacionEventos,
		GastosViaje,
	}
}

// Description returns the human-readable Spanish description used in
// rendered budget headers.
func (r Rubro) Description() string {
	switch r {
	case TalentoHumano:
		return "Recursos humanos, salarios, honorarios"
	case ServiciosTecnologicos:
		return "Servicios de tecnología, consultoría técnica"
	case EquiposSoftware:
		return "Equipos de cómputo, software, licencias"
	case MaterialesInsumos:
		return "Materiales, insumos, suministros"
	case CapacitacionEventos:
		return "Capacitaciones, eventos, talleres"
	case GastosViaje:
		return "Gastos de viaje, transporte, hospedaje"
	default:
		return "Otros gastos del proyecto"
	}
}

// DefaultVocabulary returns the keyword lists tuned to Colombian SGR budget
// terminology. Matching is case-insensitive substring containment.
func DefaultVocabulary() map[Rubro][]string {
	return map[Rubro][]string{
		TalentoHumano: {
			"talento humano", "recurso humano", "personal", "salario", "honorario",
			"nómina", "empleado", "trabajador", "profesional", "investigador",
			"coordinador", "asistente", "cargo", "perfil", "contratación",
		},
		ServiciosTecnologicos: {
			"servicio", "servicios tecnológicos", "consultoría", "asesoría",
			"desarrollo", "implementación", "soporte técnico", "mantenimiento",
			"outsourcing", "tercerización", "contrato de servicios",
		},
		EquiposSoftware: {
			"equipo", "equipos", "software", "licencia", "hardware", "computador",
			"computadora", "servidor", "dispositivo", "herramienta", "tecnología",
			"aplicación", "sistema", "plataforma",
		},
		MaterialesInsumos: {
			"material", "materiales", "insumo", "insumos", "suministro", "consumible",
			"reactivo", "material de laboratorio", "fungible", "papelería",
		},
		CapacitacionEventos: {
			"capacitación", "capacitacion", "evento", "taller", "curso", "formación",
			"entrenamiento", "seminario", "congreso", "conferencia", "workshop",
		},
		GastosViaje: {
			"viaje", "viajes", "transporte", "desplazamiento", "movilización",
			"hospedaje", "alojamiento", "viático", "pasaje", "tiquete", "ticket",
			"hotel", "alimentación durante viaje",
		},
	}
}

// Classifier scores text against a keyword vocabulary. The vocabulary is
// immutable after construction so a single Classifier is safe for
// concurrent use across requests.
type Classifier struct {
	vocab map[Rubro][]string
}

// NewClassifier builds a Classifier. A nil vocabulary selects
// DefaultVocabulary.
func NewClassifier(vocab map[Rubro][]string) *Classifier {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Classifier{vocab: vocab}
}

// Classify returns the rubro whose keywords occur most often as substrings
// of the lower-cased input, ties broken by declaration order. Returns false
// when no rubro scores above zero.
func (c *Classifier) Classify(text string) (Rubro, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	lower := strings.ToLower(text)
	var best Rubro
	bestScore := 0

	for _, r := range All() {
		score := 0
		for _, kw := range c.vocab[r] {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			best = r
			bestScore = score
		}
	}

	if bestScore == 0 {
		return "", false
	}
	return best, true
}

// Resolve picks a rubro from the available signals for one item, in
// priority order: explicit rubro column value, then the item name, then the
// sheet name, then Otros.
func (c *Classifier) Resolve(explicit, name, sheetName string) Rubro {
	if r, ok := c.Classify(explicit); ok {
		return r
	}
	if r, ok := c.Classify(name); ok {
		return r
	}
	if r, ok := c.Classify(sheetName); ok {
		return r
	}
	return Otros
}

package extract

import "strings"

// ignoreKeywords mark rows that are aggregates or annotations rather than
// quotable items. Substring match against the lower-cased activity cell.
var ignoreKeywords = []string{
	"total", "subtotal", "suma", "gran total", "total general",
	"nota", "notas", "observación", "observaciones", "pie de página",
	"encabezado", "título", "resumen", "conclusión",
}

// headerEchoTokens catch rows that repeat the header verbatim below it,
// which merged-cell layouts produce constantly.
var headerEchoTokens = []string{
	"actividad", "descripción", "descripcion", "cantidad", "valor unitario",
}

// ValidActivity reports whether an activity cell belongs to a real item
// row. Blank cells, aggregate rows and header echoes are rejected. Missing
// quantity or value never rejects a row; those are marked for estimation
// instead.
func ValidActivity(activity string) bool {
	trimmed := strings.TrimSpace(activity)
	if trimmed == "" {
		return false
	}

	lower := strings.ToLower(trimmed)
	for _, kw := range ignoreKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	for _, tok := range headerEchoTokens {
		if lower == tok {
			return false
		}
	}
	return true
}

package extract

import "github.com/rotisserie/eris"

// ErrNoValidItems is returned when every row of every sheet was filtered
// out. It is the only extraction failure surfaced to the caller; per-sheet
// problems only skip the sheet.
var ErrNoValidItems = eris.New(
	"no valid budget items found in any sheet; at least one sheet must contain " +
		"ACTIVIDAD, CANTIDAD and VALOR UNITARIO columns")

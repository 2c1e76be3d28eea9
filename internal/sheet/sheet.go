// Package sheet reads tabular documents (XLSX workbooks, DOCX tables) into
// raw string grids and locates the budget schema inside them.
package sheet

// RawSheet is an untyped grid of cells from one worksheet or one document
// table. It may contain merged or decorative rows before the real header.
// RawSheet is read-only input: the pipeline never mutates it.
type RawSheet struct {
	Name string
	Rows [][]string
}

// Cell returns the cell at (row, col), or "" when out of bounds. Rows from
// real workbooks are ragged, so bounds-safe access keeps callers simple.
func (s RawSheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) {
		return ""
	}
	r := s.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

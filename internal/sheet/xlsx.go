package sheet

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadWorkbook reads every sheet of an XLSX file into raw string grids.
func ReadWorkbook(path string) ([]RawSheet, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "sheet: open xlsx")
	}
	return workbookSheets(f), nil
}

// ReadWorkbookBytes is ReadWorkbook over an in-memory file, used by the
// upload surface.
func ReadWorkbookBytes(data []byte) ([]RawSheet, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "sheet: open xlsx bytes")
	}
	return workbookSheets(f), nil
}

func workbookSheets(f *xlsx.File) []RawSheet {
	sheets := make([]RawSheet, 0, len(f.Sheets))
	for _, ws := range f.Sheets {
		rows := make([][]string, len(ws.Rows))
		for i, row := range ws.Rows {
			cells := make([]string, len(row.Cells))
			for j, cell := range row.Cells {
				cells[j] = cell.String()
			}
			rows[i] = cells
		}
		sheets = append(sheets, RawSheet{Name: ws.Name, Rows: rows})
	}
	return sheets
}

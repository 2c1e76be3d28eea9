package sheet

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
)

// ReadDocxTables extracts every table of a DOCX document as a raw grid.
// Tables are named Tabla_1, Tabla_2, … in document order so the rest of
// the pipeline can treat them exactly like workbook sheets.
func ReadDocxTables(path string) ([]RawSheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "sheet: read docx")
	}
	return ReadDocxTablesBytes(data)
}

// ReadDocxTablesBytes is ReadDocxTables over an in-memory file.
func ReadDocxTablesBytes(data []byte) ([]RawSheet, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, eris.Wrap(err, "sheet: open docx archive")
	}

	var doc io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc, err = f.Open()
			if err != nil {
				return nil, eris.Wrap(err, "sheet: open document.xml")
			}
			break
		}
	}
	if doc == nil {
		return nil, eris.New("sheet: docx has no word/document.xml")
	}
	defer doc.Close()

	return parseDocxTables(doc)
}

// parseDocxTables walks the WordprocessingML token stream collecting
// tbl/tr/tc/t elements. Nested tables are flattened into their parent cell.
func parseDocxTables(r io.Reader) ([]RawSheet, error) {
	dec := xml.NewDecoder(r)

	var sheets []RawSheet
	var rows [][]string
	var row []string
	var cell bytes.Buffer

	tableDepth := 0
	inCell := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "sheet: parse document.xml")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
				if tableDepth == 1 {
					rows = nil
				}
			case "tr":
				if tableDepth == 1 {
					row = nil
				}
			case "tc":
				if tableDepth == 1 {
					inCell = true
					cell.Reset()
				}
			}
		case xml.CharData:
			if inCell {
				cell.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tc":
				if tableDepth == 1 && inCell {
					row = append(row, cell.String())
					inCell = false
				}
			case "tr":
				if tableDepth == 1 && row != nil {
					rows = append(rows, row)
				}
			case "tbl":
				tableDepth--
				if tableDepth == 0 && len(rows) > 0 {
					sheets = append(sheets, RawSheet{
						Name: fmt.Sprintf("Tabla_%d", len(sheets)+1),
						Rows: rows,
					})
				}
			}
		}
	}

	return sheets, nil
}

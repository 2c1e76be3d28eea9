package budget

import (
	"bytes"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/gpro-labs/presupuesto-cli/internal/model"
)

const budgetSheetName = "Presupuesto del Proyecto"

// currencyFormat renders COP amounts as "$1.234.567" style currency cells.
const currencyFormat = `"$"#,##0`

// RenderXLSX renders a budget document as a styled workbook: banner rows,
// one titled table per category, bold subtotal rows and a grand total.
func RenderXLSX(doc *model.BudgetDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), budgetSheetName); err != nil {
		return nil, eris.Wrap(err, "budget: set sheet name")
	}

	widths := []float64{50, 10, 15, 15, 40, 8}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(budgetSheetName, col, col, w); err != nil {
			return nil, eris.Wrap(err, "budget: set col width")
		}
	}

	styles, err := newBudgetStyles(f)
	if err != nil {
		return nil, err
	}

	title := "Presupuesto del Proyecto"
	if doc.ProjectID != "" {
		title = fmt.Sprintf("Presupuesto del Proyecto - ID: %s", doc.ProjectID)
	}
	f.MergeCell(budgetSheetName, "A1", "F1")
	f.SetCellValue(budgetSheetName, "A1", title)
	f.SetCellStyle(budgetSheetName, "A1", "F1", styles.title)

	if doc.ProjectDescription != "" {
		f.MergeCell(budgetSheetName, "A2", "F2")
		f.SetCellValue(budgetSheetName, "A2", "Descripción: "+doc.ProjectDescription)
	}
	if doc.DurationYears > 0 {
		f.MergeCell(budgetSheetName, "A3", "F3")
		f.SetCellValue(budgetSheetName, "A3", fmt.Sprintf("Duración: %d año(s)", doc.DurationYears))
	}

	row := 5
	for _, r := range CategoryOrder(doc) {
		group := doc.Categories[r]

		f.MergeCell(budgetSheetName, cell("A", row), cell("F", row))
		f.SetCellValue(budgetSheetName, cell("A", row), fmt.Sprintf("%s - %s", r, group.Description))
		f.SetCellStyle(budgetSheetName, cell("A", row), cell("F", row), styles.category)
		row++

		headers := []string{"Descripción", "Cantidad", "Costo Unitario", "Costo Total", "Justificación", "Año"}
		for i, h := range headers {
			col, _ := excelize.ColumnNumberToName(i + 1)
			f.SetCellValue(budgetSheetName, cell(col, row), h)
		}
		f.SetCellStyle(budgetSheetName, cell("A", row), cell("F", row), styles.header)
		row++

		for _, item := range group.Items {
			f.SetCellValue(budgetSheetName, cell("A", row), item.Name)
			f.SetCellValue(budgetSheetName, cell("B", row), item.Quantity)
			f.SetCellValue(budgetSheetName, cell("C", row), item.UnitValue)
			f.SetCellValue(budgetSheetName, cell("D", row), item.TotalValue)
			f.SetCellValue(budgetSheetName, cell("E", row), item.Justification)
			f.SetCellValue(budgetSheetName, cell("F", row), item.Period)
			f.SetCellStyle(budgetSheetName, cell("C", row), cell("D", row), styles.currency)
			row++
		}

		f.SetCellValue(budgetSheetName, cell("A", row), fmt.Sprintf("Subtotal %s:", r))
		f.SetCellStyle(budgetSheetName, cell("A", row), cell("A", row), styles.subtotalLabel)
		f.SetCellValue(budgetSheetName, cell("D", row), group.Subtotal)
		f.SetCellStyle(budgetSheetName, cell("D", row), cell("D", row), styles.subtotalValue)
		row += 2
	}

	f.SetCellValue(budgetSheetName, cell("A", row), "TOTAL GENERAL:")
	f.SetCellStyle(budgetSheetName, cell("A", row), cell("A", row), styles.total)
	f.SetCellValue(budgetSheetName, cell("D", row), doc.TotalBudget)
	f.SetCellStyle(budgetSheetName, cell("D", row), cell("D", row), styles.totalCurrency)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "budget: write workbook")
	}
	return buf.Bytes(), nil
}

type budgetStyles struct {
	title         int
	category      int
	header        int
	currency      int
	subtotalLabel int
	subtotalValue int
	total         int
	totalCurrency int
}

func newBudgetStyles(f *excelize.File) (budgetStyles, error) {
	var s budgetStyles
	var err error

	s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return s, eris.Wrap(err, "budget: title style")
	}

	s.category, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
	})
	if err != nil {
		return s, eris.Wrap(err, "budget: category style")
	}

	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#366092"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return s, eris.Wrap(err, "budget: header style")
	}

	fmtCurrency := currencyFormat
	s.currency, err = f.NewStyle(&excelize.Style{CustomNumFmt: &fmtCurrency})
	if err != nil {
		return s, eris.Wrap(err, "budget: currency style")
	}

	s.subtotalLabel, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return s, eris.Wrap(err, "budget: subtotal label style")
	}

	s.subtotalValue, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &fmtCurrency,
	})
	if err != nil {
		return s, eris.Wrap(err, "budget: subtotal value style")
	}

	s.total, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return s, eris.Wrap(err, "budget: total style")
	}

	s.totalCurrency, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 14},
		CustomNumFmt: &fmtCurrency,
	})
	if err != nil {
		return s, eris.Wrap(err, "budget: total currency style")
	}

	return s, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

package report

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"asistencia/internal/models"
	"asistencia/internal/storage"
)

const (
	sheetEvents = "Registros"
	sheetHours  = "Horas Trabajadas"
)

type excelStyles struct {
	title   int
	header  int
	cell    int
	cellAlt int
	in      int
	out     int
}

func newExcelStyles(f *excelize.File) (excelStyles, error) {
	var st excelStyles
	var err error

	border := []excelize.Border{
		{Type: "left", Color: "e0e0e2", Style: 1},
		{Type: "right", Color: "e0e0e2", Style: 1},
		{Type: "top", Color: "e0e0e2", Style: 1},
		{Type: "bottom", Color: "e0e0e2", Style: 1},
	}

	if st.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "1d120e"},
		Alignment: &excelize.Alignment{Vertical: "center"},
	}); err != nil {
		return st, err
	}
	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"ea8511"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	}); err != nil {
		return st, err
	}
	if st.cell, err = f.NewStyle(&excelize.Style{Border: border}); err != nil {
		return st, err
	}
	if st.cellAlt, err = f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"f7f7f8"}},
		Border: border,
	}); err != nil {
		return st, err
	}
	if st.in, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "16a34a"},
		Border: border,
	}); err != nil {
		return st, err
	}
	st.out, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "ea8511"},
		Border: border,
	})
	return st, err
}

// ExcelExport renders the two-sheet workbook the reports screen downloads:
// the raw event log and the per-employee worked-hours summary. employeeID 0
// exports all employees.
func ExcelExport(ctx context.Context, st storage.Store, from, to string, employeeID int64) (*excelize.File, error) {
	company, err := st.GetConfig(ctx, "nombre_empresa")
	if err != nil {
		company = "Empresa"
	}

	rows, err := st.EventsInRange(ctx, from, to, employeeID)
	if err != nil {
		return nil, fmt.Errorf("events in range: %w", err)
	}
	hours, err := WorkedHours(ctx, st, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	styles, err := newExcelStyles(f)
	if err != nil {
		return nil, fmt.Errorf("build styles: %w", err)
	}

	if err := f.SetSheetName("Sheet1", sheetEvents); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(sheetHours); err != nil {
		return nil, err
	}

	// Events sheet.
	f.MergeCell(sheetEvents, "A1", "E1")
	f.SetCellValue(sheetEvents, "A1", fmt.Sprintf("%s - Registros del %s al %s", company, from, to))
	f.SetCellStyle(sheetEvents, "A1", "A1", styles.title)
	f.SetRowHeight(sheetEvents, 1, 32)

	for col, h := range []string{"Fecha", "Hora", "Empleado", "Departamento", "Tipo"} {
		cell, _ := excelize.CoordinatesToCellName(col+1, 3)
		f.SetCellValue(sheetEvents, cell, h)
		f.SetCellStyle(sheetEvents, cell, cell, styles.header)
	}
	f.SetRowHeight(sheetEvents, 3, 28)

	for i, r := range rows {
		row := i + 4
		base := styles.cell
		if row%2 == 0 {
			base = styles.cellAlt
		}
		kindStyle := styles.in
		if r.Kind == models.CheckOut {
			kindStyle = styles.out
		}

		f.SetCellValue(sheetEvents, fmt.Sprintf("A%d", row), r.Timestamp.Format("2006-01-02"))
		f.SetCellValue(sheetEvents, fmt.Sprintf("B%d", row), r.Timestamp.Format("15:04:05"))
		f.SetCellValue(sheetEvents, fmt.Sprintf("C%d", row), r.Name)
		f.SetCellValue(sheetEvents, fmt.Sprintf("D%d", row), r.Department)
		f.SetCellValue(sheetEvents, fmt.Sprintf("E%d", row), string(r.Kind))
		f.SetCellStyle(sheetEvents, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), base)
		f.SetCellStyle(sheetEvents, fmt.Sprintf("E%d", row), fmt.Sprintf("E%d", row), kindStyle)
	}

	f.SetColWidth(sheetEvents, "A", "A", 14)
	f.SetColWidth(sheetEvents, "B", "B", 12)
	f.SetColWidth(sheetEvents, "C", "C", 28)
	f.SetColWidth(sheetEvents, "D", "D", 22)
	f.SetColWidth(sheetEvents, "E", "E", 12)

	// Worked-hours summary sheet.
	f.MergeCell(sheetHours, "A1", "C1")
	f.SetCellValue(sheetHours, "A1", fmt.Sprintf("%s - Resumen de Horas (%s al %s)", company, from, to))
	f.SetCellStyle(sheetHours, "A1", "A1", styles.title)
	f.SetRowHeight(sheetHours, 1, 32)

	for col, h := range []string{"Empleado", "Departamento", "Horas Trabajadas"} {
		cell, _ := excelize.CoordinatesToCellName(col+1, 3)
		f.SetCellValue(sheetHours, cell, h)
		f.SetCellStyle(sheetHours, cell, cell, styles.header)
	}
	f.SetRowHeight(sheetHours, 3, 28)

	for i, h := range hours {
		row := i + 4
		base := styles.cell
		if row%2 == 0 {
			base = styles.cellAlt
		}
		f.SetCellValue(sheetHours, fmt.Sprintf("A%d", row), h.Name)
		f.SetCellValue(sheetHours, fmt.Sprintf("B%d", row), h.Department)
		f.SetCellValue(sheetHours, fmt.Sprintf("C%d", row), fmt.Sprintf("%.2f", h.Hours))
		f.SetCellStyle(sheetHours, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), base)
	}

	f.SetColWidth(sheetHours, "A", "A", 28)
	f.SetColWidth(sheetHours, "B", "B", 22)
	f.SetColWidth(sheetHours, "C", "C", 20)

	return f, nil
}

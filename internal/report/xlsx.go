package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// sheetNames maps each layout to its worksheet name.
//
//nolint:gochecknoglobals // Read-only lookup table.
var sheetNames = map[Kind]string{
	KindProduct:  "Product PCF",
	KindContract: "Contract PCF",
	KindLabor:    "Labor",
}

// WriteXLSX writes d as a single-sheet workbook. Numeric cells are stored
// as numbers and heading rows are bold.
func WriteXLSX(w io.Writer, d *Document) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := sheetNames[d.Kind]
	if sheet == "" {
		sheet = "Report"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating heading style: %w", err)
	}

	for i, row := range d.Rows {
		cell, cerr := excelize.CoordinatesToCellName(1, i+1)
		if cerr != nil {
			return fmt.Errorf("addressing row %d: %w", i+1, cerr)
		}
		values := make([]interface{}, len(row.Cells))
		for j, c := range row.Cells {
			values[j] = cellValue(c)
		}
		if err = f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
		if row.Heading && len(row.Cells) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(row.Cells), i+1)
			if err = f.SetCellStyle(sheet, cell, last, bold); err != nil {
				return fmt.Errorf("styling row %d: %w", i+1, err)
			}
		}
	}
	if err = f.SetColWidth(sheet, "A", "B", 32); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	if err = f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// cellValue stores numeric strings as numbers so spreadsheets can sum them.
func cellValue(s string) interface{} {
	if s == "" {
		return s
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return s
}

package table

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadWorkbook reads one worksheet of an .xlsx file into a Table. The
// first row is the header.
func LoadWorkbook(path, sheet string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("workbook not found at %q", path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if !sheetExists(f, sheet) {
		return nil, fmt.Errorf("worksheet %q not found in %q", sheet, filepath.Base(path))
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return New(nil, nil)
	}
	return New(rows[0], rows[1:])
}

// SaveWorkbook writes the table to path as a single-sheet .xlsx file,
// overwriting any existing file.
func SaveWorkbook(t *Table, path, sheet string) error {
	if sheet == "" {
		sheet = "Sheet1"
	}
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("name worksheet: %w", err)
		}
	}

	header := make([]any, t.Cols())
	for i, col := range t.Schema() {
		header[i] = col
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for r := 0; r < t.Rows(); r++ {
		row := t.Row(r)
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c
		}
		if err := setRow(f, sheet, r+2, cells); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// InsertCellFormula writes a formula into one cell of an existing
// workbook, in place.
func InsertCellFormula(path, sheet, cell, formulaText string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("workbook not found at %q", path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if !sheetExists(f, sheet) {
		return fmt.Errorf("worksheet %q not found in %q", sheet, filepath.Base(path))
	}
	// excelize stores formulas without the leading '='.
	if err := f.SetCellFormula(sheet, cell, strings.TrimPrefix(formulaText, "=")); err != nil {
		return fmt.Errorf("set formula at %s!%s: %w", sheet, cell, err)
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func sheetExists(f *excelize.File, sheet string) bool {
	for _, name := range f.GetSheetList() {
		if name == sheet {
			return true
		}
	}
	return false
}

func setRow(f *excelize.File, sheet string, rowNum int, cells []any) error {
	ref, err := excelize.JoinCellName("A", rowNum)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, ref, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}

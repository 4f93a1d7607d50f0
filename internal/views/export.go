package views

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Export writes the projected rows matching query as an xlsx workbook
func (t *table[T]) Export(ctx context.Context, query string, w io.Writer) error {
	rows, records := t.project(ctx, query)

	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Descriptor().Label
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	// Add headers
	for c, col := range t.columns {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(sheet, cell, col.Title); err != nil {
			return err
		}
	}

	// Add data
	for r, rec := range records {
		for c, col := range t.columns {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, col.Value(rec, rows[r])); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ContentType of exported workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

package sheetmirror

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// snapshotSheet is the worksheet name snapshots are written to and read
// from by default.
const snapshotSheet = "Sheet1"

// ExportXLSX writes the mirror's current grid to a local xlsx workbook,
// one worksheet, logical row order. Useful for offline inspection of what
// the mirror believes the document contains.
func (m *mirror) ExportXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	for r := 1; r <= m.grid.Rows(); r++ {
		row := m.grid.Row(r)
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		start, err := excelize.CoordinatesToCellName(1, r)
		if err != nil {
			return fmt.Errorf("snapshot row %d: %w", r, err)
		}
		if err := f.SetSheetRow(snapshotSheet, start, &cells); err != nil {
			return fmt.Errorf("snapshot row %d: %w", r, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save snapshot %q: %w", path, err)
	}
	return nil
}

// ImportXLSX replaces the mirror's grid with the rows of a worksheet in a
// local xlsx workbook, rectangularized. Pass sheet "" for the default
// worksheet. The remote document has not seen the imported data, so the
// mirror is marked dirty; cached-mode callers follow up with Push.
func (m *mirror) ImportXLSX(path, sheet string) error {
	if sheet == "" {
		sheet = snapshotSheet
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("open snapshot %q: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read snapshot sheet %q: %w", sheet, err)
	}
	m.grid.Reset()
	for r, row := range rows {
		for c, v := range row {
			m.grid.Set(r+1, c+1, v)
		}
	}
	m.grid.Rectangularize()
	m.dirty = true
	return nil
}

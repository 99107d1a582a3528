// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package formats

import (
	"io"

	"github.com/xuri/excelize/v2"

	"codeberg.org/impex/impex/pkg/tabular"
)

const xlsxSheet = "Sheet1"

// XLSX is an Office Open XML spreadsheet [Format].
type XLSX struct{}

// Title implements [Format].
func (XLSX) Title() string { return "xlsx" }

// Extension implements [Format].
func (XLSX) Extension() string { return "xlsx" }

// ContentType implements [Format].
func (XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// CanImport implements [Format].
func (XLSX) CanImport() bool { return true }

// CanExport implements [Format].
func (XLSX) CanExport() bool { return true }

// Export implements [Format].
func (XLSX) Export(w io.Writer, ds *tabular.Dataset) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := setSheetRow(f, 1, ds.Headers()); err != nil {
		return err
	}
	for i, row := range ds.Rows() {
		if err := setSheetRow(f, i+2, row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// Import implements [Format].
func (XLSX) Import(r io.Reader) (*tabular.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, ErrEmptyFile
	}

	header := rows[0]
	ds := tabular.New(header...)
	for _, row := range rows[1:] {
		// GetRows trims trailing empty cells
		for len(row) < len(header) {
			row = append(row, "")
		}
		if err := ds.Append(row[:len(header)]); err != nil {
			return nil, err
		}
	}

	return ds, nil
}

func setSheetRow(f *excelize.File, line int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return err
	}

	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(xlsxSheet, cell, &row)
}

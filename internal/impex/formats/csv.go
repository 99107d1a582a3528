// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package formats

import (
	"encoding/csv"
	"errors"
	"io"

	"codeberg.org/impex/impex/pkg/tabular"
)

// CSV is a comma separated values [Format]. It can import and export.
type CSV struct{}

// Title implements [Format].
func (CSV) Title() string { return "csv" }

// Extension implements [Format].
func (CSV) Extension() string { return "csv" }

// ContentType implements [Format].
func (CSV) ContentType() string { return "text/csv; charset=utf-8" }

// CanImport implements [Format].
func (CSV) CanImport() bool { return true }

// CanExport implements [Format].
func (CSV) CanExport() bool { return true }

// Export implements [Format].
func (CSV) Export(w io.Writer, ds *tabular.Dataset) error {
	return csvExport(w, ds, ',')
}

// Import implements [Format].
func (CSV) Import(r io.Reader) (*tabular.Dataset, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, err
	}

	ds := tabular.New(header...)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if err = ds.Append(row); err != nil {
			return nil, err
		}
	}

	if ds.Len() == 0 {
		return nil, ErrEmptyFile
	}
	return ds, nil
}

// TSV is a tab separated values [Format]. It only exports.
type TSV struct{}

// Title implements [Format].
func (TSV) Title() string { return "tsv" }

// Extension implements [Format].
func (TSV) Extension() string { return "tsv" }

// ContentType implements [Format].
func (TSV) ContentType() string { return "text/tab-separated-values; charset=utf-8" }

// CanImport implements [Format].
func (TSV) CanImport() bool { return false }

// CanExport implements [Format].
func (TSV) CanExport() bool { return true }

// Export implements [Format].
func (TSV) Export(w io.Writer, ds *tabular.Dataset) error {
	return csvExport(w, ds, '\t')
}

// Import implements [Format].
func (TSV) Import(io.Reader) (*tabular.Dataset, error) {
	return nil, ErrNotSupported
}

func csvExport(w io.Writer, ds *tabular.Dataset, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	cw.UseCRLF = true

	if err := cw.Write(ds.Headers()); err != nil {
		return err
	}
	for _, row := range ds.Rows() {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

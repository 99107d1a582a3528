// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package formats

import (
	"encoding/json"
	"io"

	"codeberg.org/impex/impex/pkg/tabular"
)

// JSON is a [Format] encoding datasets as an array of objects.
type JSON struct{}

// Title implements [Format].
func (JSON) Title() string { return "json" }

// Extension implements [Format].
func (JSON) Extension() string { return "json" }

// ContentType implements [Format].
func (JSON) ContentType() string { return "application/json; charset=utf-8" }

// CanImport implements [Format].
func (JSON) CanImport() bool { return true }

// CanExport implements [Format].
func (JSON) CanExport() bool { return true }

// Export implements [Format].
func (JSON) Export(w io.Writer, ds *tabular.Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(ds.Maps())
}

// Import implements [Format].
func (JSON) Import(r io.Reader) (*tabular.Dataset, error) {
	var records []map[string]any
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, err
	}

	return datasetFromRecords(records)
}

// datasetFromRecords builds a dataset from unordered key/value records,
// with a sorted header.
func datasetFromRecords(records []map[string]any) (*tabular.Dataset, error) {
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	maps := make([]map[string]string, len(records))
	for i, rec := range records {
		m := make(map[string]string, len(rec))
		for k, v := range rec {
			m[k] = stringify(v)
		}
		maps[i] = m
	}

	return tabular.FromMaps(sortedKeys(maps), maps), nil
}

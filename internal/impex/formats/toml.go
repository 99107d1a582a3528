// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package formats

import (
	"encoding/json"
	"io"

	"github.com/komkom/toml"

	"codeberg.org/impex/impex/pkg/tabular"
)

// TOML is an import only [Format]. It reads documents carrying a
// [[records]] array of tables.
type TOML struct{}

// Title implements [Format].
func (TOML) Title() string { return "toml" }

// Extension implements [Format].
func (TOML) Extension() string { return "toml" }

// ContentType implements [Format].
func (TOML) ContentType() string { return "application/toml; charset=utf-8" }

// CanImport implements [Format].
func (TOML) CanImport() bool { return true }

// CanExport implements [Format].
func (TOML) CanExport() bool { return false }

// Export implements [Format].
func (TOML) Export(io.Writer, *tabular.Dataset) error {
	return ErrNotSupported
}

// Import implements [Format].
func (TOML) Import(r io.Reader) (*tabular.Dataset, error) {
	var doc struct {
		Records []map[string]any `json:"records"`
	}
	if err := json.NewDecoder(toml.New(r)).Decode(&doc); err != nil {
		return nil, err
	}

	return datasetFromRecords(doc.Records)
}

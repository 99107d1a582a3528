// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package formats

import (
	"io"

	"gopkg.in/yaml.v3"

	"codeberg.org/impex/impex/pkg/tabular"
)

// YAML is a [Format] encoding datasets as a sequence of mappings.
type YAML struct{}

// Title implements [Format].
func (YAML) Title() string { return "yaml" }

// Extension implements [Format].
func (YAML) Extension() string { return "yaml" }

// ContentType implements [Format].
func (YAML) ContentType() string { return "application/yaml; charset=utf-8" }

// CanImport implements [Format].
func (YAML) CanImport() bool { return true }

// CanExport implements [Format].
func (YAML) CanExport() bool { return true }

// Export implements [Format].
func (YAML) Export(w io.Writer, ds *tabular.Dataset) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close() //nolint:errcheck
	return enc.Encode(ds.Maps())
}

// Import implements [Format].
func (YAML) Import(r io.Reader) (*tabular.Dataset, error) {
	var records []map[string]any
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		return nil, err
	}

	return datasetFromRecords(records)
}

// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package formats provides the file format descriptors used by the export
// and import flows. A format knows its title, file extension and content
// type, reports whether it can import and/or export, and performs the
// encoding or decoding of a [tabular.Dataset].
//
// Descriptors are stateless; the registry returns fresh instances so no
// format list is ever shared between views.
package formats

import (
	"encoding/json"
	"errors"
	"io"
	"slices"
	"strings"

	"codeberg.org/impex/impex/pkg/tabular"
)

var (
	// ErrNotSupported is returned when asking a format for an operation
	// it does not support.
	ErrNotSupported = errors.New("operation not supported by this format")
	// ErrEmptyFile is returned when an imported file contains no record.
	ErrEmptyFile = errors.New("file contains no record")
)

// Format describes one serialization scheme.
type Format interface {
	// Title returns the format's identifier, as presented to users.
	Title() string
	// Extension returns the file extension, without a leading dot.
	Extension() string
	// ContentType returns the format's MIME content type.
	ContentType() string
	// CanImport reports whether the format can decode datasets.
	CanImport() bool
	// CanExport reports whether the format can encode datasets.
	CanExport() bool
	// Export encodes a dataset. It returns [ErrNotSupported] when the
	// format is not export capable.
	Export(w io.Writer, ds *tabular.Dataset) error
	// Import decodes a dataset. It returns [ErrNotSupported] when the
	// format is not import capable.
	Import(r io.Reader) (*tabular.Dataset, error)
}

// All returns the full ordered format registry.
func All() []Format {
	return []Format{
		CSV{},
		TSV{},
		JSON{},
		YAML{},
		XLSX{},
		TOML{},
	}
}

// Lookup returns the formats matching the given titles, in registry order.
// Unknown titles are ignored.
func Lookup(titles []string) []Format {
	res := []Format{}
	for _, f := range All() {
		if slices.ContainsFunc(titles, func(t string) bool {
			return strings.EqualFold(t, f.Title())
		}) {
			res = append(res, f)
		}
	}
	return res
}

// ByTitle returns the format with the given title, or nil.
func ByTitle(list []Format, title string) Format {
	for _, f := range list {
		if f.Title() == title {
			return f
		}
	}
	return nil
}

// sortedKeys returns the sorted union of all keys present in the given
// record mappings. Decoders working with unordered key/value records use it
// to derive a deterministic header.
func sortedKeys(records []map[string]string) []string {
	var keys []string
	for _, m := range records {
		for k := range m {
			if !slices.Contains(keys, k) {
				keys = append(keys, k)
			}
		}
	}
	slices.Sort(keys)
	return keys
}

// stringify renders a decoded scalar value to its dataset representation.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	}
	b, _ := json.Marshal(v)
	return string(b)
}

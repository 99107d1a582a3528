// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package tabular provides the format agnostic representation of exported
// and imported records: an ordered header and rows of string values.
//
// It also provides reflection based mapping between struct types and rows,
// using "col" struct tags.
package tabular

import (
	"errors"
	"fmt"
	"slices"
)

// ErrShape is returned when a row does not match the dataset header.
var ErrShape = errors.New("row length does not match header")

// Dataset is an ordered collection of rows sharing the same header.
type Dataset struct {
	headers []string
	rows    [][]string
}

// New returns a [Dataset] with the given header.
func New(headers ...string) *Dataset {
	return &Dataset{headers: headers}
}

// Headers returns the dataset's header row.
func (d *Dataset) Headers() []string {
	return slices.Clone(d.headers)
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Append adds a row to the dataset.
func (d *Dataset) Append(row []string) error {
	if len(row) != len(d.headers) {
		return fmt.Errorf("%w (%d != %d)", ErrShape, len(row), len(d.headers))
	}
	d.rows = append(d.rows, row)
	return nil
}

// Row returns the row at the given index.
func (d *Dataset) Row(i int) []string {
	return slices.Clone(d.rows[i])
}

// Rows returns all the dataset's rows.
func (d *Dataset) Rows() [][]string {
	res := make([][]string, len(d.rows))
	for i, row := range d.rows {
		res[i] = slices.Clone(row)
	}
	return res
}

// Maps returns every row as an ordered list of header to value mappings.
// It's the input of encoders working with key/value records (JSON, YAML).
func (d *Dataset) Maps() []map[string]string {
	res := make([]map[string]string, len(d.rows))
	for i, row := range d.rows {
		m := make(map[string]string, len(d.headers))
		for j, h := range d.headers {
			m[h] = row[j]
		}
		res[i] = m
	}
	return res
}

// FromMaps builds a dataset with the given header, reading each row's values
// from a mapping. Missing keys yield empty strings, extra keys are ignored.
func FromMaps(headers []string, maps []map[string]string) *Dataset {
	d := New(headers...)
	for _, m := range maps {
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = m[h]
		}
		d.rows = append(d.rows, row)
	}
	return d
}

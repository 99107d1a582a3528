// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package impex provides the building blocks letting a record domain expose
// bulk export and import over HTTP: resource resolution, format filtering,
// filename derivation and the two export entry points (HTML form flow and
// API action).
//
// The package itself performs no serialization and no querying; formats
// encode and decode datasets, resources translate between records and
// datasets, and querysets come from the hosting domain.
package impex

import (
	"bytes"
	"fmt"
	"iter"
	"net/http"
	"time"

	"codeberg.org/impex/impex/internal/impex/formats"
	"codeberg.org/impex/impex/pkg/tabular"
)

// Queryset is an iterator over the records of a view. It is read-only,
// possibly filtered and ordered by its producer.
type Queryset[T any] = iter.Seq2[*T, error]

// View binds a record type to its import/export configuration. Everything
// is set at construction; a view holds no per-request state.
type View[T any] struct {
	// Name is the record type name, used to derive export filenames.
	// When empty, it's derived from T.
	Name string

	// Formats is the view's ordered format list.
	Formats []formats.Format

	// Queryset returns the view's raw queryset.
	Queryset func(r *http.Request) Queryset[T]

	// Filter is the view's optional filtering capability. When set, export
	// flows use it instead of Queryset.
	Filter func(r *http.Request) Queryset[T]

	// Resource returns an explicitly configured resource. When nil, a
	// default resource is derived from T and Save.
	Resource func(r *http.Request) (Resource[T], error)

	// ExportResource and ImportResource override Resource for one flow,
	// letting import and export use different configurations from the
	// same view.
	ExportResource func(r *http.Request) (Resource[T], error)
	ImportResource func(r *http.Request) (Resource[T], error)

	// Save persists an imported record. It's required by the default
	// resource on import.
	Save SaveFunc[T]
}

// resource returns the view's configured resource, or the default one
// derived from the record type.
func (v *View[T]) resource(r *http.Request) (Resource[T], error) {
	if v.Resource != nil {
		return v.Resource(r)
	}
	res, err := NewStructResource(v.Save)
	if err != nil {
		return nil, err
	}
	if v.Name != "" {
		res.SetName(v.Name)
	}
	return res, nil
}

func (v *View[T]) exportResource(r *http.Request) (Resource[T], error) {
	if v.ExportResource != nil {
		return v.ExportResource(r)
	}
	return v.resource(r)
}

func (v *View[T]) importResource(r *http.Request) (Resource[T], error) {
	if v.ImportResource != nil {
		return v.ImportResource(r)
	}
	return v.resource(r)
}

// name returns the view's record type name.
func (v *View[T]) name() string {
	if v.Name != "" {
		return v.Name
	}
	if fm, err := tabular.NewFieldMap(new(T)); err == nil {
		return fm.TypeName()
	}
	return ""
}

// ExportFormats returns the export capable formats of the view's format
// list, preserving their relative order. That order is significant: the
// form flow maps a submitted ordinal index back into this very list.
func (v *View[T]) ExportFormats() []formats.Format {
	res := []formats.Format{}
	for _, f := range v.Formats {
		if f.CanExport() {
			res = append(res, f)
		}
	}
	return res
}

// ImportFormats returns the import capable formats of the view's format
// list, preserving their relative order.
func (v *View[T]) ImportFormats() []formats.Format {
	res := []formats.Format{}
	for _, f := range v.Formats {
		if f.CanImport() {
			res = append(res, f)
		}
	}
	return res
}

// AllowedExportFormats returns the titles of the export capable formats,
// in [View.ExportFormats] order.
func (v *View[T]) AllowedExportFormats() []string {
	fl := v.ExportFormats()
	res := make([]string, len(fl))
	for i, f := range fl {
		res[i] = f.Title()
	}
	return res
}

// DataForExport resolves the view's export resource and runs the export
// operation on the given queryset.
func (v *View[T]) DataForExport(r *http.Request, qs Queryset[T]) (*tabular.Dataset, error) {
	res, err := v.exportResource(r)
	if err != nil {
		return nil, err
	}
	return res.Export(r.Context(), qs)
}

// ExportData encodes a dataset with the given format. The whole payload is
// materialized in memory before the response is written.
func (v *View[T]) ExportData(f formats.Format, ds *tabular.Dataset) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := f.Export(buf, ds); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFilename returns "<Name>-<date>.<extension>" for the given format.
// The date is read when the function is called. The name always comes from
// the view's static configuration, never from the dynamically resolved
// export resource; the two may diverge when ExportResource is set.
func (v *View[T]) ExportFilename(f formats.Format) string {
	return fmt.Sprintf("%s-%s.%s",
		v.name(),
		time.Now().Format(time.DateOnly),
		f.Extension(),
	)
}

// exportQueryset returns the filtered queryset when the view carries the
// filtering capability, the raw queryset otherwise.
func (v *View[T]) exportQueryset(r *http.Request) Queryset[T] {
	if v.Filter != nil {
		return v.Filter(r)
	}
	return v.Queryset(r)
}

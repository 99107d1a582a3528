// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package impex

import (
	"context"
	"errors"

	"codeberg.org/impex/impex/pkg/tabular"
)

// ErrNoSave is returned when importing through a resource that has no way
// to persist records.
var ErrNoSave = errors.New("resource has no save function")

// Resource translates between records and datasets. A resource is
// constructed fresh for each request.
type Resource[T any] interface {
	// Name returns the record type name the resource is bound to.
	Name() string
	// Export transforms a queryset into a dataset.
	Export(ctx context.Context, qs Queryset[T]) (*tabular.Dataset, error)
	// Import persists every record of a dataset and returns the number
	// of imported records.
	Import(ctx context.Context, ds *tabular.Dataset) (int, error)
}

// SaveFunc persists one imported record.
type SaveFunc[T any] func(ctx context.Context, record *T) error

// StructResource is the default [Resource], derived from the record type's
// "col" struct tags.
type StructResource[T any] struct {
	name   string
	fields *tabular.FieldMap
	save   SaveFunc[T]
}

// NewStructResource returns the [StructResource] of the record type T.
// save may be nil for an export only resource.
func NewStructResource[T any](save SaveFunc[T]) (*StructResource[T], error) {
	fm, err := tabular.NewFieldMap(new(T))
	if err != nil {
		return nil, err
	}

	return &StructResource[T]{
		name:   fm.TypeName(),
		fields: fm,
		save:   save,
	}, nil
}

// Name implements [Resource].
func (res *StructResource[T]) Name() string {
	return res.name
}

// SetName overrides the resource's record type name.
func (res *StructResource[T]) SetName(name string) {
	res.name = name
}

// Export implements [Resource].
func (res *StructResource[T]) Export(ctx context.Context, qs Queryset[T]) (*tabular.Dataset, error) {
	ds := tabular.New(res.fields.Columns()...)

	for record, err := range qs {
		if err != nil {
			return nil, err
		}
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		row, err := res.fields.Row(record)
		if err != nil {
			return nil, err
		}
		if err = ds.Append(row); err != nil {
			return nil, err
		}
	}

	return ds, nil
}

// Import implements [Resource].
func (res *StructResource[T]) Import(ctx context.Context, ds *tabular.Dataset) (int, error) {
	if res.save == nil {
		return 0, ErrNoSave
	}

	header := ds.Headers()
	count := 0
	for _, row := range ds.Rows() {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		record := new(T)
		if err := res.fields.Scan(header, row, record); err != nil {
			return count, err
		}
		if err := res.save(ctx, record); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

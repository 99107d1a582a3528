// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package db

import (
	"iter"

	"github.com/doug-martin/goqu/v9"
)

// Iterator is the [iter.Seq2] returned by [Iter].
type Iterator[T any] = iter.Seq2[*T, error]

// Iter returns an [iter.Seq2] that performs a [*goqu.SelectDataset] query
// and yields a pointer to T and an error after scanning each row into T.
func Iter[T any](ds *goqu.SelectDataset) Iterator[T] {
	return func(yield func(*T, error) bool) {
		s, err := ds.Executor().Scanner()
		if err != nil {
			yield(nil, err)
			return
		}
		defer s.Close() //nolint:errcheck

		for s.Next() {
			r := new(T)
			if err = s.ScanStruct(r); err != nil {
				yield(nil, err)
				return
			}
			if !yield(r, nil) {
				return
			}
		}
	}
}

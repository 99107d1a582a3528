// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package contacts

import (
	"net/http"
	"strings"

	"github.com/doug-martin/goqu/v9"
)

// filters carries the contact list filtering values read from a request's
// query string.
type filters struct {
	Search  string
	Company string
}

func newFilters(r *http.Request) filters {
	q := r.URL.Query()
	return filters{
		Search:  strings.TrimSpace(q.Get("q")),
		Company: strings.TrimSpace(q.Get("company")),
	}
}

// apply extends a select dataset with the filter expressions. Results are
// always ordered by name so exports stay deterministic.
func (f filters) apply(ds *goqu.SelectDataset) *goqu.SelectDataset {
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		ds = ds.Where(goqu.Or(
			goqu.C("name").ILike(pattern),
			goqu.C("email").ILike(pattern),
		))
	}
	if f.Company != "" {
		ds = ds.Where(goqu.C("company").Eq(f.Company))
	}

	return ds.Order(goqu.C("name").Asc(), goqu.C("id").Asc())
}

// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package impex

import (
	"net/http"
	"strconv"
	"strings"
)

// ExportForm binds and validates the export format selection form. The
// selector value is an ordinal index into the format list the form was
// built with.
type ExportForm struct {
	// Errors contains the form's validation errors after binding.
	Errors []string

	fileFormat int
	bound      bool
}

// NewExportForm returns a new [ExportForm].
func NewExportForm() *ExportForm {
	return &ExportForm{}
}

// Bind reads and validates the submitted form values. The index range is
// not checked here; the form only ever offers valid indexes.
func (f *ExportForm) Bind(r *http.Request) {
	f.bound = true

	raw := strings.TrimSpace(r.PostFormValue("file_format"))
	if raw == "" {
		f.Errors = append(f.Errors, "file_format is required")
		return
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		f.Errors = append(f.Errors, "file_format is not a valid choice")
		return
	}
	f.fileFormat = v
}

// IsValid returns true when the form was bound without errors.
func (f *ExportForm) IsValid() bool {
	return f.bound && len(f.Errors) == 0
}

// FileFormat returns the submitted format index.
func (f *ExportForm) FileFormat() int {
	return f.fileFormat
}

// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package impex

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	"codeberg.org/impex/impex/internal/bus"
	"codeberg.org/impex/impex/internal/server"
)

const exportTemplate = "/export"

// ExportFormView handles the form-driven export flow. GET renders the
// format selection form; a valid POST streams back the encoded file and
// fires the [bus.PostExport] signal.
func (v *View[T]) ExportFormView(w http.ResponseWriter, r *http.Request) {
	ctx := server.TC{
		"Title":   v.name(),
		"Formats": v.ExportFormats(),
		"Errors":  []string{},
	}

	if r.Method != http.MethodPost {
		server.RenderTemplate(w, r, http.StatusOK, exportTemplate, ctx)
		return
	}

	form := NewExportForm()
	form.Bind(r)
	if !form.IsValid() {
		ctx["Errors"] = form.Errors
		server.RenderTemplate(w, r, http.StatusUnprocessableEntity, exportTemplate, ctx)
		return
	}

	// The form's choices and ExportFormats() come from the same list, so
	// the submitted index always resolves. An out-of-range index means the
	// two went out of sync and stops the request.
	format := v.ExportFormats()[form.FileFormat()]

	ds, err := v.DataForExport(r, v.exportQueryset(r))
	if err != nil {
		server.Err(w, r, err)
		return
	}
	data, err := v.ExportData(format, ds)
	if err != nil {
		server.Err(w, r, err)
		return
	}

	filename := v.ExportFilename(format)
	sendAttachment(w, format.ContentType(), filename, data)

	bus.PostExport.Send(bus.ExportEvent{
		Model:    v.name(),
		Format:   format.Title(),
		Filename: filename,
		Rows:     ds.Len(),
		Date:     time.Now().UTC(),
	})
}

// APIExport handles "GET .../export?format=<title>". The format defaults
// to "csv"; an unknown title yields a 400 response. The queryset always
// goes through the view's filtering pipeline.
//
// Unlike the form flow, this entry point does not fire the post-export
// signal.
func (v *View[T]) APIExport(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("format")
	if title == "" {
		title = "csv"
	}

	idx := slices.Index(v.AllowedExportFormats(), title)
	if idx == -1 {
		server.Render(w, r, http.StatusBadRequest, map[string]string{
			"message": "format is not supported",
		})
		return
	}
	format := v.ExportFormats()[idx]

	ds, err := v.DataForExport(r, v.exportQueryset(r))
	if err != nil {
		server.Err(w, r, err)
		return
	}
	data, err := v.ExportData(format, ds)
	if err != nil {
		server.Err(w, r, err)
		return
	}

	sendAttachment(w, format.ContentType(), v.ExportFilename(format), data)
}

func sendAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package impex

import (
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"codeberg.org/impex/impex/internal/bus"
	"codeberg.org/impex/impex/internal/impex/formats"
	"codeberg.org/impex/impex/internal/server"
	"codeberg.org/impex/impex/pkg/tabular"
)

// APIImport handles "POST .../import". The file comes in a multipart
// "data" field; its format is the "format" query parameter when given,
// otherwise it's derived from the uploaded file's name and content.
// Records are decoded and saved through the view's import resource and the
// [bus.PostImport] signal fires once.
func (v *View[T]) APIImport(w http.ResponseWriter, r *http.Request) {
	fd, header, err := r.FormFile("data")
	if err != nil {
		server.TextMsg(w, r, http.StatusBadRequest, `missing "data" file`)
		return
	}
	defer fd.Close() //nolint:errcheck

	format := v.importFormat(r, fd, header)
	if format == nil {
		server.Render(w, r, http.StatusBadRequest, map[string]string{
			"message": "format is not supported",
		})
		return
	}

	ds, err := format.Import(fd)
	if err != nil {
		server.TextMsg(w, r, http.StatusUnprocessableEntity, "invalid file: "+err.Error())
		return
	}

	count, err := v.ImportData(r, format, ds)
	if err != nil {
		server.Err(w, r, err)
		return
	}

	server.Render(w, r, http.StatusOK, map[string]int{"imported": count})
}

// ImportData saves a decoded dataset through the view's import resource
// and fires the [bus.PostImport] signal once.
func (v *View[T]) ImportData(r *http.Request, format formats.Format, ds *tabular.Dataset) (int, error) {
	res, err := v.importResource(r)
	if err != nil {
		return 0, err
	}
	count, err := res.Import(r.Context(), ds)
	if err != nil {
		return count, err
	}

	bus.PostImport.Send(bus.ImportEvent{
		Model:  v.name(),
		Format: format.Title(),
		Rows:   count,
		Date:   time.Now().UTC(),
	})

	return count, nil
}

// importFormat resolves the import format from the request. The format
// title comes from the "format" query parameter, the uploaded file's
// extension or, last, its detected content type. The result is always
// matched against the view's import capable formats.
func (v *View[T]) importFormat(r *http.Request, fd multipart.File, header *multipart.FileHeader) formats.Format {
	list := v.ImportFormats()

	if title := r.URL.Query().Get("format"); title != "" {
		return formats.ByTitle(list, title)
	}

	if ext := strings.TrimPrefix(path.Ext(header.Filename), "."); ext != "" {
		for _, f := range list {
			if strings.EqualFold(f.Extension(), ext) {
				return f
			}
		}
	}

	mt, err := mimetype.DetectReader(fd)
	if _, serr := fd.Seek(0, io.SeekStart); err != nil || serr != nil {
		return nil
	}
	for _, f := range list {
		if strings.EqualFold(mt.Extension(), "."+f.Extension()) {
			return f
		}
	}

	return nil
}

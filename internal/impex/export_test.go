// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package impex

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"codeberg.org/impex/impex/internal/bus"
	"codeberg.org/impex/impex/internal/impex/formats"
)

var (
	exportLogOnce sync.Once
	exportLogMu   sync.Mutex
	exportLog     []bus.ExportEvent
)

// trackExports subscribes a recording receiver to the post-export signal.
// Dispatch runs on the sender's goroutine, hence the mutex.
func trackExports() {
	exportLogOnce.Do(func() {
		bus.PostExport.Subscribe(func(evt bus.ExportEvent) {
			exportLogMu.Lock()
			defer exportLogMu.Unlock()
			exportLog = append(exportLog, evt)
		})
	})
}

func exportLogLen() int {
	exportLogMu.Lock()
	defer exportLogMu.Unlock()
	return len(exportLog)
}

func exportLogLast() bus.ExportEvent {
	exportLogMu.Lock()
	defer exportLogMu.Unlock()
	return exportLog[len(exportLog)-1]
}

func postForm(view *View[book], values url.Values) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/books/export",
		strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	view.ExportFormView(w, r)
	return w
}

func TestAPIExport(t *testing.T) {
	trackExports()
	v := newBookView(testBooks)

	t.Run("csv", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/books/export?format=csv", nil)
		w := httptest.NewRecorder()
		v.APIExport(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
		require.Regexp(t,
			`^attachment; filename="book-\d{4}-\d{2}-\d{2}\.csv"$`,
			w.Header().Get("Content-Disposition"),
		)
		require.Equal(t,
			"title,author\r\nDune,Frank Herbert\r\nUbik,Philip K. Dick\r\n",
			w.Body.String(),
		)
	})

	t.Run("default format", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/books/export", nil)
		w := httptest.NewRecorder()
		v.APIExport(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	})

	t.Run("unknown format", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/books/export?format=unknownformat", nil)
		w := httptest.NewRecorder()
		v.APIExport(w, r)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.JSONEq(t, `{"message": "format is not supported"}`, w.Body.String())
	})

	t.Run("import only format", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/books/export?format=toml", nil)
		w := httptest.NewRecorder()
		v.APIExport(w, r)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.JSONEq(t, `{"message": "format is not supported"}`, w.Body.String())
	})

	t.Run("no signal", func(t *testing.T) {
		before := exportLogLen()

		r := httptest.NewRequest(http.MethodGet, "/api/books/export?format=csv", nil)
		w := httptest.NewRecorder()
		v.APIExport(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, before, exportLogLen())
	})
}

func TestAPIExportFiltered(t *testing.T) {
	v := newBookView(testBooks)
	v.Filter = bookQueryset([]book{{Title: "Dune", Author: "Frank Herbert"}})

	r := httptest.NewRequest(http.MethodGet, "/api/books/export?format=csv", nil)
	w := httptest.NewRecorder()
	v.APIExport(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "title,author\r\nDune,Frank Herbert\r\n", w.Body.String())
}

func TestExportFormView(t *testing.T) {
	trackExports()
	v := newBookView(testBooks, formats.CSV{}, formats.XLSX{})

	t.Run("get", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/books/export", nil)
		w := httptest.NewRecorder()
		v.ExportFormView(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `name="file_format"`)
		require.Contains(t, w.Body.String(), `<option value="0">csv</option>`)
		require.Contains(t, w.Body.String(), `<option value="1">xlsx</option>`)
	})

	t.Run("post", func(t *testing.T) {
		before := exportLogLen()

		w := postForm(v, url.Values{"file_format": {"0"}})

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
		require.Regexp(t,
			`^attachment; filename="book-\d{4}-\d{2}-\d{2}\.csv"$`,
			w.Header().Get("Content-Disposition"),
		)
		require.Equal(t,
			"title,author\r\nDune,Frank Herbert\r\nUbik,Philip K. Dick\r\n",
			w.Body.String(),
		)

		require.Equal(t, before+1, exportLogLen())
		evt := exportLogLast()
		require.Equal(t, "book", evt.Model)
		require.Equal(t, "csv", evt.Format)
		require.Equal(t, 2, evt.Rows)
		require.Regexp(t, `^book-\d{4}-\d{2}-\d{2}\.csv$`, evt.Filename)
	})

	t.Run("second choice", func(t *testing.T) {
		w := postForm(v, url.Values{"file_format": {"1"}})

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			w.Header().Get("Content-Type"),
		)
	})

	t.Run("missing choice", func(t *testing.T) {
		before := exportLogLen()

		w := postForm(v, url.Values{})

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.Contains(t, w.Body.String(), "file_format is required")
		require.Equal(t, before, exportLogLen())
	})

	t.Run("invalid choice", func(t *testing.T) {
		w := postForm(v, url.Values{"file_format": {"nope"}})

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.Contains(t, w.Body.String(), "file_format is not a valid choice")
	})
}

func TestExportForm(t *testing.T) {
	bind := func(value string, present bool) *ExportForm {
		values := url.Values{}
		if present {
			values.Set("file_format", value)
		}
		r := httptest.NewRequest(http.MethodPost, "/",
			strings.NewReader(values.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		f := NewExportForm()
		f.Bind(r)
		return f
	}

	t.Run("valid", func(t *testing.T) {
		f := bind("1", true)
		require.True(t, f.IsValid())
		require.Empty(t, f.Errors)
		require.Equal(t, 1, f.FileFormat())
	})

	t.Run("missing", func(t *testing.T) {
		f := bind("", false)
		require.False(t, f.IsValid())
		require.Equal(t, []string{"file_format is required"}, f.Errors)
	})

	t.Run("empty", func(t *testing.T) {
		f := bind("  ", true)
		require.False(t, f.IsValid())
		require.Equal(t, []string{"file_format is required"}, f.Errors)
	})

	t.Run("not a number", func(t *testing.T) {
		f := bind("csv", true)
		require.False(t, f.IsValid())
		require.Equal(t, []string{"file_format is not a valid choice"}, f.Errors)
	})

	t.Run("unbound", func(t *testing.T) {
		f := NewExportForm()
		require.False(t, f.IsValid())
	})
}

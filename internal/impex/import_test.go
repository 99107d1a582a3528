// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package impex

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"codeberg.org/impex/impex/internal/bus"
)

var (
	importLogOnce sync.Once
	importLog     []bus.ImportEvent
)

func trackImports() {
	importLogOnce.Do(func() {
		bus.PostImport.Subscribe(func(evt bus.ImportEvent) {
			importLog = append(importLog, evt)
		})
	})
}

func postFile(t *testing.T, view *View[book], target, filename string, content []byte) *httptest.ResponseRecorder {
	buf := new(bytes.Buffer)
	mp := multipart.NewWriter(buf)
	fd, err := mp.CreateFormFile("data", filename)
	require.NoError(t, err)
	_, err = fd.Write(content)
	require.NoError(t, err)
	require.NoError(t, mp.Close())

	r := httptest.NewRequest(http.MethodPost, target, buf)
	r.Header.Set("Content-Type", mp.FormDataContentType())

	w := httptest.NewRecorder()
	view.APIImport(w, r)
	return w
}

func TestAPIImport(t *testing.T) {
	trackImports()

	newView := func(saved *[]book) *View[book] {
		v := newBookView(nil)
		v.Save = func(_ context.Context, b *book) error {
			*saved = append(*saved, *b)
			return nil
		}
		return v
	}

	t.Run("csv by extension", func(t *testing.T) {
		saved := []book{}
		v := newView(&saved)
		before := len(importLog)

		w := postFile(t, v, "/api/books/import", "books.csv",
			[]byte("title,author\nDune,Frank Herbert\nUbik,\"Philip K. Dick\"\n"))

		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"imported": 2}`, w.Body.String())
		require.Equal(t, []book{
			{Title: "Dune", Author: "Frank Herbert"},
			{Title: "Ubik", Author: "Philip K. Dick"},
		}, saved)

		require.Len(t, importLog, before+1)
		evt := importLog[len(importLog)-1]
		require.Equal(t, "book", evt.Model)
		require.Equal(t, "csv", evt.Format)
		require.Equal(t, 2, evt.Rows)
	})

	t.Run("format parameter", func(t *testing.T) {
		saved := []book{}
		v := newView(&saved)

		w := postFile(t, v, "/api/books/import?format=json", "data.bin",
			[]byte(`[{"title": "Dune", "author": "Frank Herbert"}]`))

		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"imported": 1}`, w.Body.String())
		require.Equal(t, []book{{Title: "Dune", Author: "Frank Herbert"}}, saved)
	})

	t.Run("toml", func(t *testing.T) {
		saved := []book{}
		v := newView(&saved)

		w := postFile(t, v, "/api/books/import", "books.toml", []byte(
			"[[records]]\ntitle = \"Dune\"\nauthor = \"Frank Herbert\"\n",
		))

		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"imported": 1}`, w.Body.String())
		require.Equal(t, []book{{Title: "Dune", Author: "Frank Herbert"}}, saved)
	})

	t.Run("unknown format", func(t *testing.T) {
		saved := []book{}
		v := newView(&saved)
		before := len(importLog)

		w := postFile(t, v, "/api/books/import", "books.bin",
			[]byte("\x00\x01\x02\x03"))

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.JSONEq(t, `{"message": "format is not supported"}`, w.Body.String())
		require.Empty(t, saved)
		require.Len(t, importLog, before)
	})

	t.Run("export only format", func(t *testing.T) {
		v := newView(&[]book{})

		w := postFile(t, v, "/api/books/import?format=tsv", "books.tsv",
			[]byte("title\tauthor\nDune\tFrank Herbert\n"))

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.JSONEq(t, `{"message": "format is not supported"}`, w.Body.String())
	})

	t.Run("missing file", func(t *testing.T) {
		v := newView(&[]book{})

		r := httptest.NewRequest(http.MethodPost, "/api/books/import", nil)
		w := httptest.NewRecorder()
		v.APIImport(w, r)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty file", func(t *testing.T) {
		v := newView(&[]book{})
		before := len(importLog)

		w := postFile(t, v, "/api/books/import", "books.csv", []byte(""))

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.Len(t, importLog, before)
	})
}

// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"codeberg.org/impex/impex/configs"
	"codeberg.org/impex/impex/internal/server"
)

type fakeFormat struct {
	title string
}

func (f fakeFormat) Title() string {
	return f.title
}

func TestRenderTemplate(t *testing.T) {
	// The template set is only built on first render, after the
	// configuration is in place.
	configs.Config.Main.DevMode = false

	t.Run("export", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/contacts/export", nil)

		server.RenderTemplate(w, r, http.StatusOK, "/export", server.TC{
			"Title":   "Contact",
			"Errors":  []string{},
			"Formats": []fakeFormat{{"csv"}, {"json"}},
		})

		rsp := w.Result()
		require.Equal(t, http.StatusOK, rsp.StatusCode)
		require.Equal(t, "text/html; charset=utf-8", rsp.Header.Get("Content-Type"))

		body := w.Body.String()
		require.Contains(t, body, `<h1>Export Contact</h1>`)
		require.Contains(t, body, `<option value="0">csv</option>`)
		require.Contains(t, body, `<option value="1">json</option>`)
		require.Contains(t, body, "impex "+configs.Version())
	})

	t.Run("errors", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/contacts/export", nil)

		server.RenderTemplate(w, r, http.StatusUnprocessableEntity, "/export", server.TC{
			"Title":   "Contact",
			"Errors":  []string{"file_format is required"},
			"Formats": []fakeFormat{{"csv"}},
		})

		require.Equal(t, http.StatusUnprocessableEntity, w.Result().StatusCode)
		require.Contains(t, w.Body.String(), "<li>file_format is required</li>")
	})

	t.Run("unknown template", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		server.RenderTemplate(w, r, http.StatusOK, "/nope", server.TC{})
		require.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)
	})
}

// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package impex

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"codeberg.org/impex/impex/internal/bus"
)

func TestExportHistory(t *testing.T) {
	EnableHistory()
	before := len(ExportHistory())

	evt := bus.ExportEvent{
		Model:    "book",
		Format:   "csv",
		Filename: "book-2026-08-26.csv",
		Rows:     2,
		Date:     time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC),
	}
	bus.PostExport.Send(evt)

	events := ExportHistory()
	require.Len(t, events, before+1)
	require.Equal(t, evt, events[len(events)-1])

	t.Run("handler", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/exports", nil)
		w := httptest.NewRecorder()
		HistoryHandler(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"filename":"book-2026-08-26.csv"`)
	})
}

func TestExportHistoryConcurrent(t *testing.T) {
	EnableHistory()
	before := len(ExportHistory())

	// Exports run on their own request goroutines; every event must land
	// in the history, none overwritten.
	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		go func() {
			defer wg.Done()
			bus.PostExport.Send(bus.ExportEvent{
				Model:  "book",
				Format: "csv",
				Rows:   i,
				Date:   time.Now().UTC(),
			})
		}()
	}
	wg.Wait()

	require.Len(t, ExportHistory(), min(before+n, 50))
}

// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package impex

import (
	"log/slog"
	"net/http"
	"sync"

	"codeberg.org/impex/impex/internal/bus"
	"codeberg.org/impex/impex/internal/server"
)

const (
	historyKey  = "export:history"
	historySize = 50
)

var (
	historyOnce sync.Once

	// historyMu serializes the store read-modify-write; signal dispatch
	// runs on each request's goroutine.
	historyMu sync.Mutex
)

// EnableHistory subscribes to the post-export signal and records every
// event in the bus store. It's idempotent.
func EnableHistory() {
	historyOnce.Do(func() {
		bus.PostExport.Subscribe(func(evt bus.ExportEvent) {
			historyMu.Lock()
			defer historyMu.Unlock()

			events := append(ExportHistory(), evt)
			if len(events) > historySize {
				events = events[len(events)-historySize:]
			}
			if err := bus.SetJSON(historyKey, events, 0); err != nil {
				slog.Error("export history", slog.Any("err", err))
			}
		})
	})
}

// ExportHistory returns the recorded export events, oldest first.
func ExportHistory() []bus.ExportEvent {
	events := []bus.ExportEvent{}
	if err := bus.GetJSON(historyKey, &events); err != nil {
		slog.Error("export history", slog.Any("err", err))
	}
	return events
}

// HistoryHandler serves the recorded export events.
func HistoryHandler(w http.ResponseWriter, r *http.Request) {
	server.Render(w, r, http.StatusOK, ExportHistory())
}

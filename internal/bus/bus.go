// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package bus provides the in-process event dispatcher and the key/value
// store used to keep track of recent export and import operations.
package bus

import (
	"log/slog"
	"sync"
	"time"
)

// ExportEvent is sent after a form-driven export completed.
type ExportEvent struct {
	Model    string    `json:"model"`
	Format   string    `json:"format"`
	Filename string    `json:"filename"`
	Rows     int       `json:"rows"`
	Date     time.Time `json:"date"`
}

// ImportEvent is sent after an import completed.
type ImportEvent struct {
	Model  string    `json:"model"`
	Format string    `json:"format"`
	Rows   int       `json:"rows"`
	Date   time.Time `json:"date"`
}

// PostExport is the signal fired once a form-driven export response is
// ready. The API export action never fires it.
var PostExport = NewSignal[ExportEvent]()

// PostImport is the signal fired once an import completed.
var PostImport = NewSignal[ImportEvent]()

// Signal dispatches events to its subscribers. Dispatch is synchronous and
// fire-and-forget: receiver panics are contained and logged, and no receiver
// result flows back to the sender.
type Signal[T any] struct {
	mu        sync.RWMutex
	receivers []func(T)
}

// NewSignal returns a new [Signal] instance.
func NewSignal[T any]() *Signal[T] {
	return &Signal[T]{}
}

// Subscribe registers a receiver.
func (s *Signal[T]) Subscribe(fn func(T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receivers = append(s.receivers, fn)
}

// Send dispatches an event to every receiver, in subscription order.
func (s *Signal[T]) Send(evt T) {
	s.mu.RLock()
	receivers := s.receivers
	s.mu.RUnlock()

	for _, fn := range receivers {
		func() {
			defer func() {
				if p := recover(); p != nil {
					slog.Error("signal receiver panic", slog.Any("panic", p))
				}
			}()
			fn(evt)
		}()
	}
}

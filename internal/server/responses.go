// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// Message is used by the server's [Msg] function.
type Message struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Render converts any value to JSON and sends the response.
func Render(w http.ResponseWriter, r *http.Request, status int, value any) {
	b := &bytes.Buffer{}
	enc := json.NewEncoder(b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		Log(r).Error("encoding error", slog.Any("err", err))
		http.Error(w, http.StatusText(500), 500)
		return
	}

	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	if status >= 100 {
		w.WriteHeader(status)
	}
	w.Write(b.Bytes())
}

// DecodeJSON decodes a request's JSON body into value.
func DecodeJSON(r *http.Request, value any) error {
	defer r.Body.Close() //nolint:errcheck
	return json.NewDecoder(r.Body).Decode(value)
}

// Msg sends a JSON formatted message response.
func Msg(w http.ResponseWriter, r *http.Request, message *Message) {
	Render(w, r, message.Status, message)

	if message.Status >= 400 {
		Log(r).Warn(message.Message, slog.Int("status", message.Status))
	}
}

// TextMsg sends a JSON formatted message response with a status and a message.
func TextMsg(w http.ResponseWriter, r *http.Request, status int, msg string) {
	Msg(w, r, &Message{
		Status:  status,
		Message: msg,
	})
}

// Status sends a text plain response with the given status code.
func Status(w http.ResponseWriter, _ *http.Request, status int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	fmt.Fprintln(w, http.StatusText(status))
}

// Err renders an error.
// If the error is "classic", it returns a 500 response and logs the error.
// If the error provides a StatusCode() function, its result is used as the
// response status.
func Err(w http.ResponseWriter, r *http.Request, err error) {
	status := 500
	if e, ok := err.(interface{ StatusCode() int }); ok {
		status = e.StatusCode()
	}

	Log(r).Error("server error", slog.Any("err", err))
	Status(w, r, status)
}

// Redirect yields a 303 redirection with a location header.
func Redirect(w http.ResponseWriter, _ *http.Request, location string) {
	w.Header().Set("Location", location)
	w.WriteHeader(http.StatusSeeOther)
}

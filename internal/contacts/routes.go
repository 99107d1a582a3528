// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package contacts

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"codeberg.org/impex/impex/internal/db"
	"codeberg.org/impex/impex/internal/impex"
	"codeberg.org/impex/impex/internal/impex/formats"
	"codeberg.org/impex/impex/internal/server"
)

// NewView returns the contact import/export view, configured with the
// given format list. The resource is the default one, derived from the
// [Contact] type; imports upsert records by email.
func NewView(fl []formats.Format) *impex.View[Contact] {
	return &impex.View[Contact]{
		Formats: fl,
		Queryset: func(*http.Request) impex.Queryset[Contact] {
			return db.Iter[Contact](Contacts.Query().Order(
				Contacts.defaultOrder()...,
			))
		},
		Filter: func(r *http.Request) impex.Queryset[Contact] {
			return db.Iter[Contact](newFilters(r).apply(Contacts.Query()))
		},
		Save: Contacts.Upsert,
	}
}

// SetupRoutes mounts the contact routes on the server.
func SetupRoutes(s *server.Server, view *impex.View[Contact]) {
	s.AddRoute("/api/contacts", apiRoutes(view))
	s.AddRoute("/contacts", viewRoutes(view))
}

type apiRouter struct {
	view *impex.View[Contact]
}

func apiRoutes(view *impex.View[Contact]) http.Handler {
	api := &apiRouter{view: view}

	r := chi.NewRouter()
	r.Get("/", api.contactList)
	r.Post("/", api.contactCreate)
	r.Get("/export", api.view.APIExport)
	r.Post("/import", api.view.APIImport)

	return r
}

func viewRoutes(view *impex.View[Contact]) http.Handler {
	r := chi.NewRouter()
	r.Get("/export", view.ExportFormView)
	r.Post("/export", view.ExportFormView)

	return r
}

// contactItem is a contact record in API responses.
type contactItem struct {
	UID     string    `json:"uid"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Company string    `json:"company,omitempty"`
	Role    string    `json:"role,omitempty"`
}

func newContactItem(c *Contact) contactItem {
	return contactItem{
		UID:     c.UID,
		Created: c.Created,
		Updated: c.Updated,
		Name:    c.Name,
		Email:   c.Email,
		Company: c.Company,
		Role:    c.Role,
	}
}

// contactList renders the filtered contact list.
func (api *apiRouter) contactList(w http.ResponseWriter, r *http.Request) {
	items := []contactItem{}
	for c, err := range db.Iter[Contact](newFilters(r).apply(Contacts.Query())) {
		if err != nil {
			server.Err(w, r, err)
			return
		}
		items = append(items, newContactItem(c))
	}

	server.Render(w, r, http.StatusOK, items)
}

// contactCreate creates a new contact record.
func (api *apiRouter) contactCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Company string `json:"company"`
		Role    string `json:"role"`
	}
	if err := server.DecodeJSON(r, &payload); err != nil {
		server.TextMsg(w, r, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if payload.Name == "" || payload.Email == "" {
		server.TextMsg(w, r, http.StatusUnprocessableEntity, "name and email are required")
		return
	}

	c := &Contact{
		Name:    payload.Name,
		Email:   payload.Email,
		Company: payload.Company,
		Role:    payload.Role,
	}
	if err := Contacts.Create(c); err != nil {
		server.Err(w, r, err)
		return
	}

	server.Render(w, r, http.StatusCreated, newContactItem(c))
}

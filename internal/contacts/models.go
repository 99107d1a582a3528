// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package contacts provides the contact record domain: storage, filtering
// and the HTTP routes exposing bulk export and import.
package contacts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"codeberg.org/impex/impex/internal/db"
)

// TableName is the database table.
const TableName = "contact"

var (
	// Contacts is the model manager for [Contact] instances.
	Contacts = Manager{}

	// ErrNotFound is returned when a contact record was not found.
	ErrNotFound = errors.New("not found")
)

// Contact is a contact record in database.
type Contact struct {
	ID      int       `db:"id" goqu:"skipinsert,skipupdate" col:"-"`
	UID     string    `db:"uid" col:"uid"`
	Created time.Time `db:"created" goqu:"skipupdate" col:"created"`
	Updated time.Time `db:"updated" col:"updated"`
	Name    string    `db:"name" col:"name"`
	Email   string    `db:"email" col:"email"`
	Company string    `db:"company" col:"company"`
	Role    string    `db:"role" col:"role"`
}

// Manager is a query helper for contact entries.
type Manager struct{}

// Query returns a prepared [goqu.SelectDataset] that can be extended later.
func (m *Manager) Query() *goqu.SelectDataset {
	return db.Q().From(goqu.T(TableName).As("c")).Prepared(true)
}

// defaultOrder returns the stable ordering applied to unfiltered exports.
func (m *Manager) defaultOrder() []exp.OrderedExpression {
	return []exp.OrderedExpression{
		goqu.C("name").Asc(),
		goqu.C("id").Asc(),
	}
}

// GetOne executes a select query and returns the first result or an error
// when there's no result.
func (m *Manager) GetOne(expressions ...goqu.Expression) (*Contact, error) {
	var c Contact
	found, err := m.Query().Where(expressions...).ScanStruct(&c)

	switch {
	case err != nil:
		return nil, err
	case !found:
		return nil, ErrNotFound
	}

	return &c, nil
}

// Create inserts a new contact in the database.
func (m *Manager) Create(c *Contact) error {
	c.Created = time.Now().UTC()
	c.Updated = c.Created
	if c.UID == "" {
		c.UID = uuid.NewString()
	}
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))

	ds := db.Q().Insert(TableName).
		Rows(c).
		Prepared(true)

	id, err := db.InsertWithID(ds, "id")
	if err != nil {
		return err
	}

	c.ID = id
	return nil
}

// Upsert inserts a contact or, when one with the same email already
// exists, updates it in place. It's the import flow's save operation.
func (m *Manager) Upsert(_ context.Context, c *Contact) error {
	email := strings.ToLower(strings.TrimSpace(c.Email))
	if email == "" {
		return errors.New("contact has no email")
	}
	c.Email = email

	existing, err := m.GetOne(goqu.C("email").Eq(email))
	if errors.Is(err, ErrNotFound) {
		return m.Create(c)
	}
	if err != nil {
		return err
	}

	existing.Name = c.Name
	existing.Company = c.Company
	existing.Role = c.Role
	*c = *existing
	return c.Save()
}

// Count returns the number of contact records.
func (m *Manager) Count() (int, error) {
	return db.CountRows(m.Query())
}

// Update updates some contact values.
func (c *Contact) Update(v any) error {
	if c.ID == 0 {
		return errors.New("no ID")
	}

	_, err := db.Q().Update(TableName).Prepared(true).
		Set(v).
		Where(goqu.C("id").Eq(c.ID)).
		Executor().Exec()

	return err
}

// Save updates all the contact values.
func (c *Contact) Save() error {
	c.Updated = time.Now().UTC()
	return c.Update(c)
}

// Delete removes a contact from the database.
func (c *Contact) Delete() error {
	_, err := db.Q().Delete(TableName).Prepared(true).
		Where(goqu.C("id").Eq(c.ID)).
		Executor().Exec()

	return err
}

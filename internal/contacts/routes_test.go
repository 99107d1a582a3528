// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package contacts_test

import (
	"net/url"
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/require"

	"codeberg.org/impex/impex/internal/contacts"
	. "codeberg.org/impex/impex/internal/testing" //revive:disable:dot-imports
)

func TestContactList(t *testing.T) {
	app := NewTestApp(t)
	defer app.Close(t)

	client := app.Client(WithAccept("application/json"))

	client.RT(
		WithTarget("/api/contacts"),
		AssertStatus(200),
		AssertJSON(`[
			{
				"uid": "<<PRESENCE>>",
				"created": "<<PRESENCE>>",
				"updated": "<<PRESENCE>>",
				"name": "alice",
				"email": "alice@localhost",
				"company": "acme",
				"role": "ceo"
			},
			{
				"uid": "<<PRESENCE>>",
				"created": "<<PRESENCE>>",
				"updated": "<<PRESENCE>>",
				"name": "bob",
				"email": "bob@localhost",
				"company": "acme"
			},
			{
				"uid": "<<PRESENCE>>",
				"created": "<<PRESENCE>>",
				"updated": "<<PRESENCE>>",
				"name": "carol",
				"email": "carol@localhost",
				"company": "initech",
				"role": "dev"
			}
		]`),
	)(t)

	client.RT(
		WithName("search"),
		WithTarget("/api/contacts?q=ali"),
		AssertStatus(200),
		AssertJSON(`[
			{
				"uid": "<<PRESENCE>>",
				"created": "<<PRESENCE>>",
				"updated": "<<PRESENCE>>",
				"name": "alice",
				"email": "alice@localhost",
				"company": "acme",
				"role": "ceo"
			}
		]`),
	)(t)

	client.RT(
		WithName("company"),
		WithTarget("/api/contacts?company=initech"),
		AssertStatus(200),
		AssertContains(`"name":"carol"`),
	)(t)

	client.RT(
		WithName("no result"),
		WithTarget("/api/contacts?q=nobody"),
		AssertStatus(200),
		AssertJSON(`[]`),
	)(t)
}

func TestContactCreate(t *testing.T) {
	app := NewTestApp(t)
	defer app.Close(t)

	client := app.Client(WithAccept("application/json"))

	client.RT(
		WithMethod("POST"),
		WithTarget("/api/contacts"),
		WithBody(map[string]string{
			"name":    "dave",
			"email":   "Dave@Localhost",
			"company": "initech",
		}),
		AssertStatus(201),
		AssertJSON(`{
			"uid": "<<PRESENCE>>",
			"created": "<<PRESENCE>>",
			"updated": "<<PRESENCE>>",
			"name": "dave",
			"email": "dave@localhost",
			"company": "initech"
		}`),
	)(t)

	client.RT(
		WithName("missing fields"),
		WithMethod("POST"),
		WithTarget("/api/contacts"),
		WithBody(map[string]string{"name": "nobody"}),
		AssertStatus(422),
	)(t)

	count, err := contacts.Contacts.Count()
	require.NoError(t, err)
	require.Equal(t, 4, count)
}

func TestContactAPIExport(t *testing.T) {
	app := NewTestApp(t)
	defer app.Close(t)

	client := app.Client()

	client.Sequence(
		RT(
			WithName("csv"),
			WithTarget("/api/contacts/export?format=csv"),
			AssertStatus(200),
			AssertHeader("Content-Type", "text/csv; charset=utf-8"),
			AssertContains("uid,created,updated,name,email,company,role"),
			AssertContains("alice@localhost"),
			AssertContains("carol@localhost"),
			WithAssert(func(t *testing.T, rsp *Response) {
				require.Regexp(t,
					`^attachment; filename="Contact-\d{4}-\d{2}-\d{2}\.csv"$`,
					rsp.Header.Get("Content-Disposition"),
				)
			}),
		),
		RT(
			WithName("default format"),
			WithTarget("/api/contacts/export"),
			AssertStatus(200),
			AssertHeader("Content-Type", "text/csv; charset=utf-8"),
		),
		RT(
			WithName("json"),
			WithTarget("/api/contacts/export?format=json"),
			AssertStatus(200),
			AssertHeader("Content-Type", "application/json; charset=utf-8"),
			AssertJSON(`[
				"<<UNORDERED>>",
				{"uid": "<<PRESENCE>>", "created": "<<PRESENCE>>", "updated": "<<PRESENCE>>", "name": "alice", "email": "alice@localhost", "company": "acme", "role": "ceo"},
				{"uid": "<<PRESENCE>>", "created": "<<PRESENCE>>", "updated": "<<PRESENCE>>", "name": "bob", "email": "bob@localhost", "company": "acme", "role": ""},
				{"uid": "<<PRESENCE>>", "created": "<<PRESENCE>>", "updated": "<<PRESENCE>>", "name": "carol", "email": "carol@localhost", "company": "initech", "role": "dev"}
			]`),
		),
		RT(
			WithName("filtered"),
			WithTarget("/api/contacts/export?format=csv&company=acme"),
			AssertStatus(200),
			AssertContains("alice@localhost"),
			WithAssert(func(t *testing.T, rsp *Response) {
				require.NotContains(t, string(rsp.Body), "carol@localhost")
			}),
		),
		RT(
			WithName("unknown format"),
			WithTarget("/api/contacts/export?format=unknownformat"),
			AssertStatus(400),
			AssertJSON(`{"message": "format is not supported"}`),
		),
	)(t)
}

func TestContactAPIImport(t *testing.T) {
	app := NewTestApp(t)
	defer app.Close(t)

	client := app.Client(WithAccept("application/json"))

	client.RT(
		WithMethod("POST"),
		WithTarget("/api/contacts/import"),
		WithFormFile("contacts.csv", []byte(
			"name,email,company,role\n"+
				"dave,dave@localhost,initech,support\n"+
				"alice,alice@localhost,globex,cto\n",
		)),
		AssertStatus(200),
		AssertJSON(`{"imported": 2}`),
	)(t)

	// dave was created, alice was updated in place.
	count, err := contacts.Contacts.Count()
	require.NoError(t, err)
	require.Equal(t, 4, count)

	alice := app.Contacts[0]
	updated, err := contacts.Contacts.GetOne(goqu.C("email").Eq("alice@localhost"))
	require.NoError(t, err)
	require.Equal(t, alice.UID, updated.UID)
	require.Equal(t, "globex", updated.Company)
	require.Equal(t, "cto", updated.Role)

	client.RT(
		WithName("unknown format"),
		WithMethod("POST"),
		WithTarget("/api/contacts/import"),
		WithFormFile("contacts.bin", []byte{0, 1, 2, 3}),
		AssertStatus(400),
		AssertJSON(`{"message": "format is not supported"}`),
	)(t)
}

func TestContactExportForm(t *testing.T) {
	app := NewTestApp(t)
	defer app.Close(t)

	client := app.Client()

	client.RT(
		WithTarget("/contacts/export"),
		AssertStatus(200),
		AssertContains(`name="file_format"`),
		AssertContains(`<option value="0">csv</option>`),
	)(t)

	client.RT(
		WithName("post"),
		WithMethod("POST"),
		WithTarget("/contacts/export"),
		WithBody(url.Values{"file_format": {"0"}}),
		AssertStatus(200),
		AssertHeader("Content-Type", "text/csv; charset=utf-8"),
		AssertContains("alice@localhost"),
	)(t)

	client.RT(
		WithName("invalid choice"),
		WithMethod("POST"),
		WithTarget("/contacts/export"),
		WithBody(url.Values{"file_format": {"nope"}}),
		AssertStatus(422),
		AssertContains("file_format is not a valid choice"),
	)(t)
}

func TestExportHistoryRoute(t *testing.T) {
	app := NewTestApp(t)
	defer app.Close(t)

	client := app.Client()

	client.RT(
		WithMethod("POST"),
		WithTarget("/contacts/export"),
		WithBody(url.Values{"file_format": {"0"}}),
		AssertStatus(200),
	)(t)

	client.RT(
		WithName("history"),
		WithTarget("/api/exports"),
		AssertStatus(200),
		AssertContains(`"model":"Contact"`),
		AssertContains(`"format":"csv"`),
	)(t)
}

// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package db provides access to the application database.
package db

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // goqu dialect
	_ "modernc.org/sqlite"                             // sqlite3 driver
)

var database *goqu.Database

// Open opens the database connection and applies pending migrations.
func Open(source string) error {
	db, err := sql.Open("sqlite", source)
	if err != nil {
		return err
	}

	// modernc's sqlite driver does not tolerate concurrent writes on
	// multiple connections.
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("PRAGMA journal_mode = WAL; PRAGMA foreign_keys = ON;"); err != nil {
		return err
	}

	database = goqu.New("sqlite3", db)
	return migrate(database)
}

// Close closes the database connection.
func Close() error {
	if database == nil {
		return nil
	}

	err := database.Db.(*sql.DB).Close()
	database = nil
	return err
}

// Q returns the [goqu.Database] of the current connection.
func Q() *goqu.Database {
	if database == nil {
		panic("database is not connected")
	}
	return database
}

// InsertWithID executes an insert statement and returns the value of the
// given column for the inserted row.
func InsertWithID(ds *goqu.InsertDataset, column string) (int, error) {
	var id int
	query, args, err := ds.Returning(goqu.C(column)).ToSQL()
	if err != nil {
		return 0, err
	}

	row := Q().QueryRow(query, args...)
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// CountRows returns the row count of a select dataset.
func CountRows(ds *goqu.SelectDataset) (int, error) {
	var count int
	if _, err := ds.Select(goqu.COUNT(goqu.Star())).ScanVal(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func migrate(db *goqu.Database) error {
	var version int
	if _, err := db.ScanVal(&version, "PRAGMA user_version"); err != nil {
		return err
	}

	for i, m := range migrations {
		if i+1 <= version {
			continue
		}
		err := db.WithTx(func(tx *goqu.TxDatabase) error {
			return m(tx)
		})
		if err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err = db.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			return err
		}
		slog.Debug("database migration applied", slog.Int("version", i+1))
	}

	return nil
}

// migrations is the ordered migration list. A migration's number is its
// index + 1 and matches the sqlite user_version after it ran.
var migrations = []func(*goqu.TxDatabase) error{
	func(tx *goqu.TxDatabase) error {
		_, err := tx.Exec(`
			CREATE TABLE contact (
				id       INTEGER PRIMARY KEY AUTOINCREMENT,
				uid      TEXT NOT NULL UNIQUE,
				created  TIMESTAMP NOT NULL,
				updated  TIMESTAMP NOT NULL,
				name     TEXT NOT NULL,
				email    TEXT NOT NULL UNIQUE,
				company  TEXT NOT NULL DEFAULT '',
				role     TEXT NOT NULL DEFAULT ''
			);
			CREATE INDEX contact_name_idx ON contact (name);
			CREATE INDEX contact_company_idx ON contact (company);
		`)
		return err
	},
}

/*
Package sqlite3adapter provides an implementation of the
Adapter interface in the sqldataset package that works
over an SQLite3 database.
*/
package sqlite3adapter

import (
	"database/sql"

	"github.com/kstoi/arbor/dataset/sqldataset"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

// Dialect is the sqldataset.Dialect for SQLite3 databases
var Dialect = sqldataset.Dialect{
	Placeholder:  func(int) string { return "?" },
	IDColumnType: "INTEGER PRIMARY KEY AUTOINCREMENT",
}

/*
New takes a path to an SQLite3 database file and returns an Adapter that works
on the file's database or an error if it fails to open as an sqlite3 database.
*/
func New(path string) (sqldataset.Adapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return sqldataset.NewAdapter(db, Dialect), nil
}

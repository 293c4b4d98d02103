/*
Package sqldataset reads datasets from and writes them to SQL databases.

Rows are kept on a samples table with a text column for each attribute and
an autoincremented id that preserves their order. Adapters provide access
to a database, with subpackages for SQLite3 and PostgreSQL databases.
*/
package sqldataset

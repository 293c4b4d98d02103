package sqldataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const (
	// SamplesTable is the name of the table rows are kept on
	SamplesTable = "samples"
	idColumn     = "id"

	// MaxSampleInsertionsPerStatement is the maximum number
	// of rows that are allowed to be added with a single
	// insert command with the AddSamples method of the adapter.
	// Trying to add more will result in making more insertion commands
	MaxSampleInsertionsPerStatement = 10
)

/*
Adapter is an interface providing the methods
needed to keep datasets on a database backend.
*/
type Adapter interface {
	// ColumnName takes the name of an attribute and returns
	// the name of its column or an error if it cannot be used.
	ColumnName(string) (string, error)
	// CreateSampleTable ensures the samples table exists with
	// the given columns.
	CreateSampleTable(ctx context.Context, columns []string) error
	// Columns returns the columns of the samples table, but
	// the id, in order.
	Columns(ctx context.Context) ([]string, error)
	// AddSamples inserts the given values, one slice per row
	// with a value per column, and returns the number of rows
	// inserted.
	AddSamples(ctx context.Context, columns []string, values [][]string) (int, error)
	// IterateOnSamples calls lambda with the index and values of
	// every row, in insertion order, while it returns true. NULL
	// values are given as nil.
	IterateOnSamples(ctx context.Context, columns []string, lambda func(int, []*string) (bool, error)) error
	// CountSamples returns the number of rows on the samples table
	CountSamples(ctx context.Context) (int, error)
	// Close closes the database
	Close() error
}

/*
Dialect holds what tells SQL databases apart for an adapter: the way they
number statement parameters and declare autoincremented ids.
*/
type Dialect struct {
	// Placeholder returns the placeholder for the i-th parameter of a statement,
	// starting at 1.
	Placeholder func(i int) string
	// IDColumnType is the type for an autoincremented integer primary key.
	IDColumnType string
}

type adapter struct {
	db      *sql.DB
	dialect Dialect
}

/*
NewAdapter takes a database and a dialect and returns an Adapter that works
on the database with statements for that dialect.
*/
func NewAdapter(db *sql.DB, dialect Dialect) Adapter {
	return &adapter{db, dialect}
}

func (a *adapter) ColumnName(attribute string) (string, error) {
	if attribute == idColumn {
		return "", fmt.Errorf(`'%s' is reserved and cannot be used as attribute name`, attribute)
	}
	if attribute == "" || strings.ContainsAny(attribute, `"`) {
		return "", fmt.Errorf(`attribute name '%s' is empty or contains invalid character '"'`, attribute)
	}
	return attribute, nil
}

func (a *adapter) CreateSampleTable(ctx context.Context, columns []string) error {
	var createStmtBuf bytes.Buffer
	createStmtBuf.WriteString(fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s(", SamplesTable))
	for _, c := range columns {
		createStmtBuf.WriteString(fmt.Sprintf(`"%s" TEXT NULL, `, c))
	}
	createStmtBuf.WriteString(fmt.Sprintf(`"%s" %s)`, idColumn, a.dialect.IDColumnType))
	_, err := a.db.ExecContext(ctx, createStmtBuf.String())
	if err != nil {
		return fmt.Errorf("ensuring samples table exists: %v", err)
	}
	return nil
}

func (a *adapter) Columns(ctx context.Context) ([]string, error) {
	rows, err := a.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT 0", SamplesTable))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(columns))
	for _, c := range columns {
		if c != idColumn {
			result = append(result, c)
		}
	}
	return result, nil
}

func (a *adapter) AddSamples(ctx context.Context, columns []string, values [][]string) (int, error) {
	if len(values) == 0 {
		return 0, nil
	}
	if len(columns) == 0 {
		return 0, fmt.Errorf("no attributes to store")
	}
	for chunkStart := 0; chunkStart < len(values); chunkStart += MaxSampleInsertionsPerStatement {
		chunkEnd := chunkStart + MaxSampleInsertionsPerStatement
		if chunkEnd > len(values) {
			chunkEnd = len(values)
		}
		chunk := values[chunkStart:chunkEnd]
		args := make([]interface{}, 0, len(chunk)*len(columns))
		for _, row := range chunk {
			for _, v := range row {
				args = append(args, v)
			}
		}
		_, err := a.db.ExecContext(ctx, a.insertStatement(columns, len(chunk)), args...)
		if err != nil {
			return chunkStart, fmt.Errorf("inserting %d samples after %d: %v", len(chunk), chunkStart, err)
		}
	}
	return len(values), nil
}

func (a *adapter) insertStatement(columns []string, rows int) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf(`INSERT INTO %s ("`, SamplesTable))
	buf.WriteString(strings.Join(columns, `", "`))
	buf.WriteString(`") VALUES `)
	p := 1
	for i := 0; i < rows; i++ {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("(")
		for j := range columns {
			if j > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(a.dialect.Placeholder(p))
			p++
		}
		buf.WriteString(")")
	}
	return buf.String()
}

func (a *adapter) IterateOnSamples(ctx context.Context, columns []string, lambda func(int, []*string) (bool, error)) error {
	query := fmt.Sprintf(`SELECT "%s" FROM %s ORDER BY "%s"`, strings.Join(columns, `", "`), SamplesTable, idColumn)
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for j := 0; rows.Next(); j++ {
		values := make([]sql.NullString, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		err = rows.Scan(dest...)
		if err != nil {
			return err
		}
		result := make([]*string, len(columns))
		for i, v := range values {
			if v.Valid {
				s := v.String
				result[i] = &s
			}
		}
		ok, err := lambda(j, result)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return rows.Err()
}

func (a *adapter) CountSamples(ctx context.Context) (int, error) {
	var count int
	err := a.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", SamplesTable)).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (a *adapter) Close() error {
	return a.db.Close()
}

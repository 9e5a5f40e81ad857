package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"keybench/bench"
)

type Session struct {
	db     *sql.DB
	driver string
}

func (s *Session) Execute(ctx context.Context, query string, args ...any) (bench.Cursor, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	names, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}
	c := &cursor{session: s, rows: rows, names: names, cells: make([]sql.RawBytes, len(names)), dest: make([]any, len(names))}
	for i := range c.cells {
		c.dest[i] = &c.cells[i]
	}
	return c, nil
}

func (s *Session) Close() error {
	return s.db.Close()
}

type cursor struct {
	session *Session
	rows    *sql.Rows
	names   []string
	cells   []sql.RawBytes
	dest    []any
	err     error
}

func (c *cursor) Columns() []string { return c.names }

// emptyCell is non-nil so a scanned empty string stays distinct from NULL.
var emptyCell = sql.RawBytes{}

func (c *cursor) Next() bool {
	if c.err != nil || !c.rows.Next() {
		return false
	}
	// Scan appends into the previous cell, and appending nothing to a nil
	// cell left by a NULL would read back as NULL again.
	for i := range c.cells {
		if c.cells[i] == nil {
			c.cells[i] = emptyCell
		}
	}
	if c.err = c.rows.Scan(c.dest...); c.err != nil {
		return false
	}
	return true
}

func (c *cursor) Width() int { return len(c.cells) }

// Column returns the cell as text; RawBytes is nil only for SQL NULL.
func (c *cursor) Column(i int) bench.ColumnValue {
	if c.cells[i] == nil {
		return bench.Null{}
	}
	return bench.Text(c.cells[i])
}

func (c *cursor) Close() error {
	cerr := c.rows.Close()
	if c.err != nil {
		return c.err
	}
	if err := c.rows.Err(); err != nil {
		return err
	}
	return cerr
}

// RowsAffected asks the server how many rows the last statement changed, the
// way an ODBC driver answers SQLRowCount. The pool holds a single connection,
// so the question reaches the session that ran the statement. SQLite only
// counts INSERT, UPDATE and DELETE; other statements leave the previous count.
func (c *cursor) RowsAffected(ctx context.Context) (int64, error) {
	q := "SELECT ROW_COUNT()"
	if c.session.driver == DriverSQLite {
		q = "SELECT changes()"
	}
	var n int64
	if err := c.session.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

package bench

import (
	"context"
	"errors"
	"fmt"
)

// fakeSession serves canned rows and records every key it was asked for.
// Every Nth call (1-based) fails when failEvery > 0.
type fakeSession struct {
	columns   []string
	rows      [][]ColumnValue
	failEvery int
	closeErr  error

	calls  int
	keys   []int64
	open   int
	closed int
}

func (s *fakeSession) Execute(_ context.Context, _ string, args ...any) (Cursor, error) {
	s.calls++
	if len(args) == 1 {
		s.keys = append(s.keys, args[0].(int64))
	}
	if s.failEvery > 0 && s.calls%s.failEvery == 0 {
		return nil, &QueryError{Code: "2200", Message: fmt.Sprintf("injected failure %d", s.calls)}
	}
	s.open++
	return &fakeCursor{session: s, columns: s.columns, rows: s.rows, pos: -1}, nil
}

func (s *fakeSession) Close() error { return nil }

type fakeCursor struct {
	session *fakeSession
	columns []string
	rows    [][]ColumnValue
	pos     int
	done    bool
}

func (c *fakeCursor) Columns() []string { return c.columns }

func (c *fakeCursor) Next() bool {
	if c.pos+1 >= len(c.rows) {
		return false
	}
	c.pos++
	return true
}

func (c *fakeCursor) Width() int { return len(c.rows[c.pos]) }

func (c *fakeCursor) Column(i int) ColumnValue { return c.rows[c.pos][i] }

func (c *fakeCursor) Close() error {
	if c.done {
		return errors.New("cursor closed twice")
	}
	c.done = true
	c.session.open--
	c.session.closed++
	return c.session.closeErr
}

// staticCursor is a standalone cursor for drainer and printer tests.
func staticCursor(columns []string, rows ...[]ColumnValue) *fakeCursor {
	return &fakeCursor{session: &fakeSession{}, columns: columns, rows: rows, pos: -1}
}

package bench

import "context"

// Connector opens a session against a live database.
type Connector interface {
	Connect(ctx context.Context) (Session, error)
}

// Session executes queries one at a time. Execute blocks until the first
// result page is available or the query fails.
type Session interface {
	Execute(ctx context.Context, query string, args ...any) (Cursor, error)
	Close() error
}

// Cursor walks the rows of one result. Column values are only valid until
// the next call to Next. Close releases driver resources and returns any
// error the driver deferred until iteration finished.
type Cursor interface {
	Columns() []string
	Next() bool
	Width() int
	Column(i int) ColumnValue
	Close() error
}

// RowCounter is implemented by cursors that can report how many rows a
// statement without a result set changed. It is valid once the cursor is
// closed.
type RowCounter interface {
	RowsAffected(ctx context.Context) (int64, error)
}

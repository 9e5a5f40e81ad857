package bench

import (
	"context"
	"errors"
)

// Executor runs one bound query per call against a session and drains the
// result. Only one query is ever in flight.
type Executor struct {
	session  Session
	query    string
	drainer  *Drainer
	classify Classifier
}

func NewExecutor(session Session, query string, drainer *Drainer, classify Classifier) *Executor {
	return &Executor{session: session, query: query, drainer: drainer, classify: classify}
}

// Execute binds key as the only query parameter, waits for the result and
// counts its rows. Driver failures are reported in the Outcome; the error
// return is reserved for contract violations. The cursor is closed on
// every path.
func (e *Executor) Execute(ctx context.Context, key int64) (out Outcome, err error) {
	cur, qerr := e.session.Execute(ctx, e.query, key)
	if qerr != nil {
		return Outcome{Err: AsQueryError(qerr, e.classify)}, nil
	}
	defer func() {
		if cerr := cur.Close(); cerr != nil && err == nil && out.Err == nil {
			out.Err = AsQueryError(cerr, e.classify)
		}
	}()

	rows, derr := e.drainer.Drain(cur, len(cur.Columns()))
	if derr != nil {
		if errors.Is(derr, ErrColumnMismatch) {
			return Outcome{Rows: rows}, derr
		}
		return Outcome{Rows: rows, Err: AsQueryError(derr, e.classify)}, nil
	}
	return Outcome{Rows: rows}, nil
}
